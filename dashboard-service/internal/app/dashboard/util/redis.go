package util

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"revulink/pkg/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	impersonationKeyPrefix = "impersonation:"
	linkRatingsKeyPrefix   = "link:ratings:"

	// Сессия имперсонации живет ограниченное время, чтобы забытый
	// вход от имени пользователя не оставался активным навсегда
	impersonationTTL = 4 * time.Hour
)

type RedisClient struct {
	client *redis.Client
}

// NewRedisClient создает клиент Redis и проверяет соединение
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// SetImpersonation сохраняет активную имперсонацию администратора
func (r *RedisClient) SetImpersonation(ctx context.Context, adminID, targetUserID uuid.UUID) error {
	key := impersonationKeyPrefix + adminID.String()
	if err := r.client.Set(ctx, key, targetUserID.String(), impersonationTTL).Err(); err != nil {
		metrics.RecordRedisError("dashboard-service", metrics.RedisOpSet)
		return fmt.Errorf("failed to set impersonation: %w", err)
	}
	return nil
}

// GetImpersonation возвращает пользователя, от имени которого работает
// администратор, или nil если имперсонация не активна
func (r *RedisClient) GetImpersonation(ctx context.Context, adminID uuid.UUID) (*uuid.UUID, error) {
	key := impersonationKeyPrefix + adminID.String()

	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		metrics.RecordRedisError("dashboard-service", metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get impersonation: %w", err)
	}

	targetID, err := uuid.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("corrupted impersonation value: %w", err)
	}

	return &targetID, nil
}

// ClearImpersonation завершает имперсонацию администратора.
// Возвращает true, если активная запись действительно была удалена
func (r *RedisClient) ClearImpersonation(ctx context.Context, adminID uuid.UUID) (bool, error) {
	key := impersonationKeyPrefix + adminID.String()
	deleted, err := r.client.Del(ctx, key).Result()
	if err != nil {
		metrics.RecordRedisError("dashboard-service", metrics.RedisOpDel)
		return false, fmt.Errorf("failed to clear impersonation: %w", err)
	}
	return deleted > 0, nil
}

// GetLinkRatingCount читает счетчик оценок ссылки, поддерживаемый воркером.
// Второе возвращаемое значение false означает промах кеша: счетчика нет,
// вызывающая сторона должна посчитать напрямую в PostgreSQL.
func (r *RedisClient) GetLinkRatingCount(ctx context.Context, linkID uuid.UUID) (int64, bool, error) {
	key := linkRatingsKeyPrefix + linkID.String()

	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss("dashboard-service", linkRatingsKeyPrefix)
			return 0, false, nil
		}
		metrics.RecordRedisError("dashboard-service", metrics.RedisOpGet)
		return 0, false, fmt.Errorf("failed to get link rating count: %w", err)
	}

	count, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupted link rating count: %w", err)
	}

	metrics.RecordCacheHit("dashboard-service", linkRatingsKeyPrefix)
	return count, true, nil
}

// SetLinkRatingCount записывает счетчик оценок ссылки. Используется для
// восстановления кеша после промаха, когда число посчитано в PostgreSQL
func (r *RedisClient) SetLinkRatingCount(ctx context.Context, linkID uuid.UUID, count int64) error {
	key := linkRatingsKeyPrefix + linkID.String()
	if err := r.client.Set(ctx, key, count, 0).Err(); err != nil {
		metrics.RecordRedisError("dashboard-service", metrics.RedisOpSet)
		return fmt.Errorf("failed to set link rating count: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
