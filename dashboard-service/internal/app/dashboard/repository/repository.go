package repository

import (
	"context"
	"errors"
	"time"

	"revulink/dashboard-service/internal/app/dashboard/entity"

	"github.com/google/uuid"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrLinkNotFound     = errors.New("review link not found")
	ErrLinkCodeTaken    = errors.New("link code already exists")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrDiscountNotFound = errors.New("discount code not found")
)

// LinkWithCount - ссылка вместе с числом собранных оценок
type LinkWithCount struct {
	entity.ReviewLink
	RatingCount int64
}

// LinkRepository определяет методы для работы со ссылками в PostgreSQL
type LinkRepository interface {
	Create(ctx context.Context, link *entity.ReviewLink) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ReviewLink, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]LinkWithCount, error)
	Update(ctx context.Context, link *entity.ReviewLink) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// RatingRepository определяет методы чтения оценок для дашборда
type RatingRepository interface {
	ListByOwnerSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]entity.ReviewRow, error)
	ListAllSince(ctx context.Context, since time.Time) ([]entity.ReviewRow, error)
	CountByLinkID(ctx context.Context, linkID uuid.UUID) (int64, error)
}

// ProfileRepository определяет методы для работы с профилями
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	Update(ctx context.Context, profile *entity.Profile) error
	SetOnboardingCompleted(ctx context.Context, userID uuid.UUID) error
	ListAll(ctx context.Context) ([]entity.AdminUserRow, error)
}

// DiscountRepository определяет методы для работы с промокодами
type DiscountRepository interface {
	Create(ctx context.Context, code *entity.DiscountCode) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DiscountCode, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.DiscountCode, error)
	Update(ctx context.Context, code *entity.DiscountCode) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// FeedbackRepository читает тексты приватных отзывов из MongoDB
type FeedbackRepository interface {
	GetByRatingIDs(ctx context.Context, ratingIDs []string) (map[string]*entity.Feedback, error)
}
