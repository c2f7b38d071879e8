package repository

import (
	"context"
	"errors"

	"revulink/rating-service/internal/app/rating/entity"

	"gorm.io/gorm"
)

type discountRepository struct {
	db *gorm.DB
}

// NewDiscountRepository создает новый репозиторий промокодов
func NewDiscountRepository(db *gorm.DB) DiscountRepository {
	return &discountRepository{db: db}
}

// GetAnyActive возвращает один активный промокод из общего пула.
// Пул намеренно не привязан к владельцу исходной ссылки.
func (r *discountRepository) GetAnyActive(ctx context.Context) (*entity.DiscountCode, error) {
	var code entity.DiscountCode
	result := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		First(&code)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveDiscount
		}
		return nil, result.Error
	}

	return &code, nil
}
