package repository

import (
	"context"
	"fmt"

	"revulink/background-worker-service/internal/app/worker/entity"
	"revulink/pkg/metrics"

	"gorm.io/gorm"
)

// ratingCountRepository реализует RatingCountRepository поверх PostgreSQL
type ratingCountRepository struct {
	db *gorm.DB
}

// NewRatingCountRepository создает новый репозиторий пересчёта оценок
func NewRatingCountRepository(db *gorm.DB) RatingCountRepository {
	return &ratingCountRepository{db: db}
}

// CountsByLink возвращает количество оценок по каждой ссылке
func (r *ratingCountRepository) CountsByLink(ctx context.Context) ([]entity.LinkRatingCount, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "ratings")
	defer timer.ObserveDuration()

	var counts []entity.LinkRatingCount
	err := r.db.WithContext(ctx).
		Table("ratings").
		Select("review_link_id, COUNT(*) AS count").
		Group("review_link_id").
		Scan(&counts).Error
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to count ratings by link: %w", err)
	}

	return counts, nil
}
