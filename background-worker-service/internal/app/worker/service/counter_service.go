package service

import (
	"context"
	"fmt"

	"revulink/background-worker-service/internal/app/worker/entity"
	"revulink/background-worker-service/internal/app/worker/repository"
	"revulink/pkg/logger"
	"revulink/pkg/metrics"
)

// CounterService ведёт счётчики оценок по ссылкам в Redis
// Инкременты приходят событиями из Kafka, ночная сверка исправляет расхождения
type CounterService struct {
	counterRepo     repository.CounterRepository
	ratingCountRepo repository.RatingCountRepository
}

// NewCounterService создает новый сервис счётчиков оценок
func NewCounterService(
	counterRepo repository.CounterRepository,
	ratingCountRepo repository.RatingCountRepository,
) *CounterService {
	return &CounterService{
		counterRepo:     counterRepo,
		ratingCountRepo: ratingCountRepo,
	}
}

// ProcessRatingEvent обрабатывает событие оценки из Kafka
// События неизвестных типов пропускаются без ошибки
func (s *CounterService) ProcessRatingEvent(ctx context.Context, event *entity.RatingEvent) error {
	if event.EventType != entity.EventTypeRatingCreated {
		logger.Debug().
			Str("event_type", event.EventType).
			Str("rating_id", event.RatingID.String()).
			Msg("Skipping event of unknown type")
		metrics.WorkerEventsProcessed.WithLabelValues("skipped").Inc()
		return nil
	}

	value, err := s.counterRepo.Increment(ctx, event.ReviewLinkID)
	if err != nil {
		metrics.WorkerEventsProcessed.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to increment counter for link %s: %w", event.ReviewLinkID, err)
	}

	logger.Debug().
		Str("review_link_id", event.ReviewLinkID.String()).
		Int("rating", event.Rating).
		Int64("counter", value).
		Msg("Incremented link rating counter")
	metrics.WorkerEventsProcessed.WithLabelValues("success").Inc()

	return nil
}

// Reconcile пересчитывает счётчики по PostgreSQL и перезаписывает их в Redis
// Частичные сбои записи не прерывают проход, но помечают запуск как неуспешный
func (s *CounterService) Reconcile(ctx context.Context) error {
	counts, err := s.ratingCountRepo.CountsByLink(ctx)
	if err != nil {
		metrics.WorkerReconciliations.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to load rating counts: %w", err)
	}

	var failed int
	for _, c := range counts {
		if err := s.counterRepo.Set(ctx, c.ReviewLinkID, c.Count); err != nil {
			logger.Warn().
				Err(err).
				Str("review_link_id", c.ReviewLinkID.String()).
				Msg("Failed to write reconciled counter")
			failed++
		}
	}

	if failed > 0 {
		metrics.WorkerReconciliations.WithLabelValues("failed").Inc()
		return fmt.Errorf("reconciliation wrote %d of %d counters", len(counts)-failed, len(counts))
	}

	logger.Info().
		Int("links", len(counts)).
		Msg("Reconciled link rating counters")
	metrics.WorkerReconciliations.WithLabelValues("success").Inc()

	return nil
}
