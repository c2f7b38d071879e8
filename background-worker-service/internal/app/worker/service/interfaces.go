package service

import (
	"context"

	"revulink/background-worker-service/internal/app/worker/entity"
)

// CounterServiceInterface определяет интерфейс для ведения счётчиков оценок
type CounterServiceInterface interface {
	// ProcessRatingEvent обрабатывает событие оценки из Kafka
	ProcessRatingEvent(ctx context.Context, event *entity.RatingEvent) error
	// Reconcile пересчитывает счётчики по PostgreSQL и перезаписывает их в Redis
	Reconcile(ctx context.Context) error
}
