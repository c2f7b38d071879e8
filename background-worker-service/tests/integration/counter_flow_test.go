//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"revulink/background-worker-service/internal/app/worker/entity"
	"revulink/background-worker-service/internal/app/worker/repository"
	"revulink/background-worker-service/internal/app/worker/repository/mocks"
	"revulink/background-worker-service/internal/app/worker/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// CounterFlowTestSuite проверяет путь событие -> счётчик против реального Redis
// Kafka не требуется: события подаются в сервис напрямую
type CounterFlowTestSuite struct {
	suite.Suite
	redisClient     *redis.Client
	counterRepo     repository.CounterRepository
	ratingCountRepo *mocks.MockRatingCountRepository
	counterSvc      *service.CounterService
}

func (s *CounterFlowTestSuite) SetupSuite() {
	addr := getEnv("TEST_REDIS_ADDR", "localhost:6379")
	s.redisClient = redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(s.T(), s.redisClient.Ping(ctx).Err(), "Redis must be available for integration tests")

	s.counterRepo = repository.NewCounterRepository(s.redisClient)
}

func (s *CounterFlowTestSuite) TearDownSuite() {
	s.redisClient.Close()
}

func (s *CounterFlowTestSuite) SetupTest() {
	s.ratingCountRepo = new(mocks.MockRatingCountRepository)
	s.counterSvc = service.NewCounterService(s.counterRepo, s.ratingCountRepo)
}

func (s *CounterFlowTestSuite) TestRatingEventsAccumulateInRedis() {
	ctx := context.Background()
	linkID := uuid.New()

	for i := 0; i < 3; i++ {
		event := &entity.RatingEvent{
			EventType:    entity.EventTypeRatingCreated,
			RatingID:     uuid.New(),
			ReviewLinkID: linkID,
			Rating:       5,
			Timestamp:    time.Now(),
		}
		require.NoError(s.T(), s.counterSvc.ProcessRatingEvent(ctx, event))
	}

	value, found, err := s.counterRepo.Get(ctx, linkID)
	require.NoError(s.T(), err)
	require.True(s.T(), found)
	require.Equal(s.T(), int64(3), value)
}

func (s *CounterFlowTestSuite) TestUnknownEventTypeLeavesCounterUntouched() {
	ctx := context.Background()
	linkID := uuid.New()

	event := &entity.RatingEvent{
		EventType:    "RATING_DELETED",
		RatingID:     uuid.New(),
		ReviewLinkID: linkID,
		Rating:       4,
		Timestamp:    time.Now(),
	}
	require.NoError(s.T(), s.counterSvc.ProcessRatingEvent(ctx, event))

	_, found, err := s.counterRepo.Get(ctx, linkID)
	require.NoError(s.T(), err)
	require.False(s.T(), found)
}

func (s *CounterFlowTestSuite) TestReconciliationOverwritesDrift() {
	ctx := context.Background()
	linkID := uuid.New()

	// Счётчик разошёлся с базой
	require.NoError(s.T(), s.counterRepo.Set(ctx, linkID, 100))

	s.ratingCountRepo.On("CountsByLink", mock.Anything).Return([]entity.LinkRatingCount{
		{ReviewLinkID: linkID, Count: 17},
	}, nil)

	require.NoError(s.T(), s.counterSvc.Reconcile(ctx))

	value, found, err := s.counterRepo.Get(ctx, linkID)
	require.NoError(s.T(), err)
	require.True(s.T(), found)
	require.Equal(s.T(), int64(17), value)
}

func TestCounterFlowTestSuite(t *testing.T) {
	suite.Run(t, new(CounterFlowTestSuite))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
