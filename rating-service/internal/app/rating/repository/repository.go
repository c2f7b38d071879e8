package repository

import (
	"context"
	"errors"

	"revulink/rating-service/internal/app/rating/entity"

	"github.com/google/uuid"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrLinkNotFound     = errors.New("review link not found")
	ErrRatingNotFound   = errors.New("rating not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrNoActiveDiscount = errors.New("no active discount code")
)

// ReviewLinkRepository определяет методы для чтения ссылок из PostgreSQL
type ReviewLinkRepository interface {
	GetActiveByCode(ctx context.Context, linkCode string) (*entity.ReviewLink, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ReviewLink, error)
}

// RatingRepository определяет методы для работы с оценками в PostgreSQL
type RatingRepository interface {
	Create(ctx context.Context, rating *entity.Rating) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Rating, error)
	UpdateCustomerContact(ctx context.Context, id uuid.UUID, name, email string) error
}

// FeedbackRepository определяет методы для работы с отзывами в MongoDB
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
}

// ProfileRepository читает профиль владельца (логотип для публичных страниц)
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
}

// DiscountRepository выбирает промокод для страницы благодарности
type DiscountRepository interface {
	GetAnyActive(ctx context.Context) (*entity.DiscountCode, error)
}
