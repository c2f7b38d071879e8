package service

import (
	"context"

	"revulink/rating-service/internal/app/rating/entity"

	"github.com/google/uuid"
)

type RatingServiceInterface interface {
	GetLinkInfo(ctx context.Context, linkCode string) (*entity.LinkInfoResponse, error)
	SubmitRating(ctx context.Context, linkCode string, stars int) (*entity.SubmitRatingResponse, error)
	GetFeedbackContext(ctx context.Context, ratingID uuid.UUID) (*entity.FeedbackContextResponse, error)
	SubmitFeedback(ctx context.Context, req *entity.SubmitFeedbackRequest) (*entity.SubmitFeedbackResponse, error)
	GetActiveDiscount(ctx context.Context) (*entity.DiscountCode, error)
}
