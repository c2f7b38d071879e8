package mocks

import (
	"context"

	"revulink/background-worker-service/internal/app/worker/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCounterRepository мок для CounterRepository
type MockCounterRepository struct {
	mock.Mock
}

func (m *MockCounterRepository) Increment(ctx context.Context, linkID uuid.UUID) (int64, error) {
	args := m.Called(ctx, linkID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCounterRepository) Set(ctx context.Context, linkID uuid.UUID, count int64) error {
	args := m.Called(ctx, linkID, count)
	return args.Error(0)
}

func (m *MockCounterRepository) Get(ctx context.Context, linkID uuid.UUID) (int64, bool, error) {
	args := m.Called(ctx, linkID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

// MockRatingCountRepository мок для RatingCountRepository
type MockRatingCountRepository struct {
	mock.Mock
}

func (m *MockRatingCountRepository) CountsByLink(ctx context.Context) ([]entity.LinkRatingCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LinkRatingCount), args.Error(1)
}
