package repository

import (
	"context"
	"errors"

	"revulink/rating-service/internal/app/rating/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reviewLinkRepository struct {
	db *gorm.DB
}

// NewReviewLinkRepository создает новый репозиторий ссылок
func NewReviewLinkRepository(db *gorm.DB) ReviewLinkRepository {
	return &reviewLinkRepository{db: db}
}

// GetActiveByCode получает активную ссылку по публичному коду.
// Неактивные ссылки для клиентов неотличимы от несуществующих.
func (r *reviewLinkRepository) GetActiveByCode(ctx context.Context, linkCode string) (*entity.ReviewLink, error) {
	var link entity.ReviewLink
	result := r.db.WithContext(ctx).
		Where("link_code = ? AND status = ?", linkCode, entity.LinkStatusActive).
		First(&link)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, result.Error
	}

	return &link, nil
}

// GetByID получает ссылку по ID независимо от статуса
func (r *reviewLinkRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ReviewLink, error) {
	var link entity.ReviewLink
	result := r.db.WithContext(ctx).First(&link, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, result.Error
	}

	return &link, nil
}
