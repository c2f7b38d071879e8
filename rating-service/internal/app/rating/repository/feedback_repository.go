package repository

import (
	"context"
	"fmt"
	"time"

	"revulink/rating-service/internal/app/rating/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type feedbackRepository struct {
	collection *mongo.Collection
}

// NewFeedbackRepository создает новый репозиторий отзывов
// Автоматически создает индекс по rating_id для выборки отзывов по оценкам
func NewFeedbackRepository(db *mongo.Database) FeedbackRepository {
	collection := db.Collection("feedback")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "rating_id", Value: 1},
		},
		Options: options.Index().SetName("rating_id_idx"),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		// Логируем ошибку, но не прерываем работу - индекс может уже существовать
		fmt.Printf("Warning: failed to create index on rating_id: %v\n", err)
	}

	return &feedbackRepository{
		collection: collection,
	}
}

// Create создает новый отзыв в MongoDB
func (r *feedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) error {
	feedback.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, feedback)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		feedback.ID = oid
	}

	return nil
}
