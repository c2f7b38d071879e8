package service

import (
	"context"

	"revulink/dashboard-service/internal/app/dashboard/entity"

	"github.com/google/uuid"
)

// DashboardServiceInterface определяет операции кабинета владельца
type DashboardServiceInterface interface {
	CreateLink(ctx context.Context, scope entity.Scope, req *entity.CreateLinkRequest) (*entity.LinkResponse, error)
	ListLinks(ctx context.Context, scope entity.Scope) ([]entity.LinkResponse, error)
	GetLink(ctx context.Context, scope entity.Scope, linkID uuid.UUID) (*entity.LinkResponse, error)
	UpdateLink(ctx context.Context, scope entity.Scope, linkID uuid.UUID, req *entity.UpdateLinkRequest) (*entity.LinkResponse, error)
	DeleteLink(ctx context.Context, scope entity.Scope, linkID uuid.UUID) error

	ListReviews(ctx context.Context, scope entity.Scope, query entity.ReviewsQuery) (*entity.ReviewListResponse, error)
	ExportReviewsCSV(ctx context.Context, scope entity.Scope, query entity.ReviewsQuery) (string, []byte, error)
	Analytics(ctx context.Context, scope entity.Scope, rangeStr string) (*entity.AnalyticsData, error)

	CreateDiscount(ctx context.Context, scope entity.Scope, req *entity.CreateDiscountRequest) (*entity.DiscountCode, error)
	ListDiscounts(ctx context.Context, scope entity.Scope) ([]entity.DiscountCode, error)
	UpdateDiscount(ctx context.Context, scope entity.Scope, id uuid.UUID, req *entity.UpdateDiscountRequest) (*entity.DiscountCode, error)
	DeleteDiscount(ctx context.Context, scope entity.Scope, id uuid.UUID) error

	GetProfile(ctx context.Context, scope entity.Scope) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, scope entity.Scope, req *entity.UpdateProfileRequest) (*entity.Profile, error)
	SetLogo(ctx context.Context, scope entity.Scope, logoURL string) (*entity.Profile, error)
	CompleteOnboarding(ctx context.Context, scope entity.Scope, req *entity.OnboardingRequest) (*entity.OnboardingResponse, error)

	ListUsers(ctx context.Context, scope entity.Scope) ([]entity.AdminUserRow, error)
	ListAllReviews(ctx context.Context, scope entity.Scope, query entity.ReviewsQuery) (*entity.AdminReviewListResponse, error)
	ExportAllReviewsCSV(ctx context.Context, scope entity.Scope, query entity.ReviewsQuery) (string, []byte, error)
	StartImpersonation(ctx context.Context, scope entity.Scope, targetUserID uuid.UUID) error
	StopImpersonation(ctx context.Context, scope entity.Scope) error
	GetImpersonationStatus(ctx context.Context, scope entity.Scope) (*entity.ImpersonationStatus, error)
}
