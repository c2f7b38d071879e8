package repository

import (
	"context"
	"errors"

	"revulink/rating-service/internal/app/rating/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository создает новый репозиторий оценок
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Create создает новую оценку в PostgreSQL
func (r *ratingRepository) Create(ctx context.Context, rating *entity.Rating) error {
	result := r.db.WithContext(ctx).Create(rating)
	return result.Error
}

// GetByID получает оценку по ID
func (r *ratingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Rating, error) {
	var rating entity.Rating
	result := r.db.WithContext(ctx).First(&rating, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, result.Error
	}

	return &rating, nil
}

// UpdateCustomerContact дозаполняет контакты клиента на существующей оценке.
// Вызывается один раз из формы обратной связи, сами поля оценки не трогает.
func (r *ratingRepository) UpdateCustomerContact(ctx context.Context, id uuid.UUID, name, email string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Rating{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"customer_name":  name,
			"customer_email": email,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrRatingNotFound
	}

	return nil
}
