package mocks

import (
	"context"
	"time"

	"revulink/dashboard-service/internal/app/dashboard/entity"
	"revulink/dashboard-service/internal/app/dashboard/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockLinkRepository мок для LinkRepository
type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) Create(ctx context.Context, link *entity.ReviewLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockLinkRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ReviewLink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReviewLink), args.Error(1)
}

func (m *MockLinkRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]repository.LinkWithCount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.LinkWithCount), args.Error(1)
}

func (m *MockLinkRepository) Update(ctx context.Context, link *entity.ReviewLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockLinkRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockRatingRepository мок для RatingRepository
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) ListByOwnerSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]entity.ReviewRow, error) {
	args := m.Called(ctx, ownerID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ReviewRow), args.Error(1)
}

func (m *MockRatingRepository) ListAllSince(ctx context.Context, since time.Time) ([]entity.ReviewRow, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ReviewRow), args.Error(1)
}

func (m *MockRatingRepository) CountByLinkID(ctx context.Context, linkID uuid.UUID) (int64, error) {
	args := m.Called(ctx, linkID)
	return args.Get(0).(int64), args.Error(1)
}

// MockProfileRepository мок для ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *entity.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) SetOnboardingCompleted(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockProfileRepository) ListAll(ctx context.Context) ([]entity.AdminUserRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.AdminUserRow), args.Error(1)
}

// MockDiscountRepository мок для DiscountRepository
type MockDiscountRepository struct {
	mock.Mock
}

func (m *MockDiscountRepository) Create(ctx context.Context, code *entity.DiscountCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockDiscountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DiscountCode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DiscountCode), args.Error(1)
}

func (m *MockDiscountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.DiscountCode, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.DiscountCode), args.Error(1)
}

func (m *MockDiscountRepository) Update(ctx context.Context, code *entity.DiscountCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockDiscountRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockFeedbackRepository мок для FeedbackRepository
type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) GetByRatingIDs(ctx context.Context, ratingIDs []string) (map[string]*entity.Feedback, error) {
	args := m.Called(ctx, ratingIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*entity.Feedback), args.Error(1)
}

// MockCacheClient мок для util.CacheClient
type MockCacheClient struct {
	mock.Mock
}

func (m *MockCacheClient) SetImpersonation(ctx context.Context, adminID, targetUserID uuid.UUID) error {
	args := m.Called(ctx, adminID, targetUserID)
	return args.Error(0)
}

func (m *MockCacheClient) GetImpersonation(ctx context.Context, adminID uuid.UUID) (*uuid.UUID, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*uuid.UUID), args.Error(1)
}

func (m *MockCacheClient) ClearImpersonation(ctx context.Context, adminID uuid.UUID) (bool, error) {
	args := m.Called(ctx, adminID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheClient) GetLinkRatingCount(ctx context.Context, linkID uuid.UUID) (int64, bool, error) {
	args := m.Called(ctx, linkID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockCacheClient) SetLinkRatingCount(ctx context.Context, linkID uuid.UUID, count int64) error {
	args := m.Called(ctx, linkID, count)
	return args.Error(0)
}

func (m *MockCacheClient) Close() error {
	args := m.Called()
	return args.Error(0)
}
