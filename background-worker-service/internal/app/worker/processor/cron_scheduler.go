package processor

import (
	"context"
	"fmt"

	"revulink/background-worker-service/internal/app/worker/service"
	"revulink/pkg/logger"

	"github.com/robfig/cron/v3"
)

// CronScheduler запускает сверку счётчиков оценок по расписанию
type CronScheduler struct {
	cron       *cron.Cron
	counterSvc service.CounterServiceInterface
}

// NewCronScheduler создает новый планировщик сверки
func NewCronScheduler(counterSvc service.CounterServiceInterface) *CronScheduler {
	return &CronScheduler{
		cron:       cron.New(),
		counterSvc: counterSvc,
	}
}

// Start регистрирует задачу сверки и запускает планировщик
// Первая сверка выполняется сразу, чтобы счётчики были актуальны после старта
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if err := s.counterSvc.Reconcile(ctx); err != nil {
			logger.Error().Err(err).Msg("Scheduled counter reconciliation failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reconciliation: %w", err)
	}

	s.cron.Start()
	logger.Info().
		Str("schedule", schedule).
		Msg("Started reconciliation scheduler")

	if err := s.counterSvc.Reconcile(ctx); err != nil {
		logger.Warn().Err(err).Msg("Initial counter reconciliation failed")
	}

	return nil
}

// Stop останавливает планировщик и дожидается завершения запущенных задач
func (s *CronScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Reconciliation scheduler stopped")
}

// GetEntries возвращает зарегистрированные задачи планировщика
func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
