package util

import (
	"context"

	"github.com/google/uuid"
)

// CacheClient определяет операции Dashboard Service поверх Redis:
// сессии имперсонации администраторов и счетчики оценок по ссылкам
type CacheClient interface {
	SetImpersonation(ctx context.Context, adminID, targetUserID uuid.UUID) error
	GetImpersonation(ctx context.Context, adminID uuid.UUID) (*uuid.UUID, error)
	ClearImpersonation(ctx context.Context, adminID uuid.UUID) (bool, error)

	GetLinkRatingCount(ctx context.Context, linkID uuid.UUID) (int64, bool, error)
	SetLinkRatingCount(ctx context.Context, linkID uuid.UUID, count int64) error

	Close() error
}
