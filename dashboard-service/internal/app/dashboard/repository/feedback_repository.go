package repository

import (
	"context"
	"fmt"

	"revulink/dashboard-service/internal/app/dashboard/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type feedbackRepository struct {
	collection *mongo.Collection
}

// NewFeedbackRepository создает репозиторий чтения приватных отзывов из MongoDB
func NewFeedbackRepository(db *mongo.Database) FeedbackRepository {
	return &feedbackRepository{
		collection: db.Collection("feedback"),
	}
}

// GetByRatingIDs получает отзывы для набора оценок одним запросом.
// Возвращает map rating_id -> отзыв; оценки без отзыва в map отсутствуют.
func (r *feedbackRepository) GetByRatingIDs(ctx context.Context, ratingIDs []string) (map[string]*entity.Feedback, error) {
	result := make(map[string]*entity.Feedback, len(ratingIDs))
	if len(ratingIDs) == 0 {
		return result, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"rating_id": bson.M{"$in": ratingIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find feedback: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var fb entity.Feedback
		if err := cursor.Decode(&fb); err != nil {
			return nil, fmt.Errorf("failed to decode feedback: %w", err)
		}
		result[fb.RatingID] = &fb
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback: %w", err)
	}

	return result, nil
}
