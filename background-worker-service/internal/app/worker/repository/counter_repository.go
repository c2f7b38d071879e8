package repository

import (
	"context"
	"fmt"
	"strconv"

	"revulink/pkg/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	serviceName          = "background-worker"
	linkRatingsKeyPrefix = "link:ratings:"
)

// counterRepository реализует CounterRepository поверх Redis
// Счётчики живут без TTL: их актуальность поддерживает ночная сверка
type counterRepository struct {
	client *redis.Client
}

// NewCounterRepository создает новый репозиторий счётчиков оценок
func NewCounterRepository(client *redis.Client) CounterRepository {
	return &counterRepository{client: client}
}

// Increment атомарно увеличивает счётчик оценок ссылки
func (r *counterRepository) Increment(ctx context.Context, linkID uuid.UUID) (int64, error) {
	key := linkRatingsKeyPrefix + linkID.String()

	value, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpIncr)
		return 0, fmt.Errorf("failed to increment rating counter: %w", err)
	}

	return value, nil
}

// Set устанавливает точное значение счётчика
func (r *counterRepository) Set(ctx context.Context, linkID uuid.UUID, count int64) error {
	key := linkRatingsKeyPrefix + linkID.String()

	if err := r.client.Set(ctx, key, count, 0).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set rating counter: %w", err)
	}

	return nil
}

// Get возвращает текущее значение счётчика
func (r *counterRepository) Get(ctx context.Context, linkID uuid.UUID) (int64, bool, error) {
	key := linkRatingsKeyPrefix + linkID.String()

	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss(serviceName, linkRatingsKeyPrefix)
			return 0, false, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return 0, false, fmt.Errorf("failed to get rating counter: %w", err)
	}

	value, err := strconv.ParseInt(data, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse rating counter: %w", err)
	}

	metrics.RecordCacheHit(serviceName, linkRatingsKeyPrefix)
	return value, true, nil
}
