package repository

import (
	"context"

	"revulink/background-worker-service/internal/app/worker/entity"

	"github.com/google/uuid"
)

// CounterRepository определяет интерфейс для счётчиков оценок в Redis
// Ключи имеют вид link:ratings:{link_id}, значения - целые числа
type CounterRepository interface {
	// Increment атомарно увеличивает счётчик оценок ссылки на единицу
	Increment(ctx context.Context, linkID uuid.UUID) (int64, error)
	// Set устанавливает точное значение счётчика (используется сверкой)
	Set(ctx context.Context, linkID uuid.UUID, count int64) error
	// Get возвращает текущее значение счётчика; found=false если ключа нет
	Get(ctx context.Context, linkID uuid.UUID) (int64, bool, error)
}

// RatingCountRepository определяет интерфейс для пересчёта оценок по PostgreSQL
type RatingCountRepository interface {
	// CountsByLink возвращает количество оценок по каждой ссылке
	CountsByLink(ctx context.Context) ([]entity.LinkRatingCount, error)
}
