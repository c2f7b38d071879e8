package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"revulink/rating-service/internal/app/rating/entity"
	"revulink/rating-service/internal/app/rating/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) GetLinkInfo(ctx context.Context, linkCode string) (*entity.LinkInfoResponse, error) {
	args := m.Called(ctx, linkCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LinkInfoResponse), args.Error(1)
}

func (m *MockRatingService) SubmitRating(ctx context.Context, linkCode string, stars int) (*entity.SubmitRatingResponse, error) {
	args := m.Called(ctx, linkCode, stars)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SubmitRatingResponse), args.Error(1)
}

func (m *MockRatingService) GetFeedbackContext(ctx context.Context, ratingID uuid.UUID) (*entity.FeedbackContextResponse, error) {
	args := m.Called(ctx, ratingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FeedbackContextResponse), args.Error(1)
}

func (m *MockRatingService) SubmitFeedback(ctx context.Context, req *entity.SubmitFeedbackRequest) (*entity.SubmitFeedbackResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SubmitFeedbackResponse), args.Error(1)
}

func (m *MockRatingService) GetActiveDiscount(ctx context.Context) (*entity.DiscountCode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DiscountCode), args.Error(1)
}

func setupTestRouter(mockService *MockRatingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewRatingHandler(mockService)

	router.GET("/rate/:linkCode", h.GetLink)
	router.POST("/rate/:linkCode", h.SubmitRating)
	router.GET("/feedback/context", h.GetFeedbackContext)
	router.POST("/feedback", h.SubmitFeedback)
	router.GET("/thank-you/discount", h.GetDiscount)

	return router
}

func TestGetLink_Success(t *testing.T) {
	mockService := new(MockRatingService)
	mockService.On("GetLinkInfo", mock.Anything, "abc123").Return(&entity.LinkInfoResponse{
		LinkID: uuid.New(),
		Name:   "Coffee Roasters",
	}, nil)
	router := setupTestRouter(mockService)

	req, _ := http.NewRequest(http.MethodGet, "/rate/abc123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.LinkInfoResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Coffee Roasters", resp.Name)
}

func TestGetLink_NotFound(t *testing.T) {
	mockService := new(MockRatingService)
	mockService.On("GetLinkInfo", mock.Anything, "expired").Return(nil, service.ErrLinkNotFound)
	router := setupTestRouter(mockService)

	req, _ := http.NewRequest(http.MethodGet, "/rate/expired", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitRatingHandler_RedirectDecision(t *testing.T) {
	mockService := new(MockRatingService)
	mockService.On("SubmitRating", mock.Anything, "abc123", 5).Return(&entity.SubmitRatingResponse{
		RatingID:           uuid.New(),
		Rating:             5,
		RedirectedToGoogle: true,
		RedirectURL:        "https://g.page/r/x/review",
		RedirectDelayMs:    1000,
	}, nil)
	router := setupTestRouter(mockService)

	body, _ := json.Marshal(entity.SubmitRatingRequest{Rating: 5})
	req, _ := http.NewRequest(http.MethodPost, "/rate/abc123", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp entity.SubmitRatingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.RedirectedToGoogle)
	assert.Equal(t, "https://g.page/r/x/review", resp.RedirectURL)
}

func TestSubmitRatingHandler_OutOfRange(t *testing.T) {
	mockService := new(MockRatingService)
	router := setupTestRouter(mockService)

	body, _ := json.Marshal(map[string]int{"rating": 6})
	req, _ := http.NewRequest(http.MethodPost, "/rate/abc123", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "SubmitRating", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitRatingHandler_InvalidBody(t *testing.T) {
	mockService := new(MockRatingService)
	router := setupTestRouter(mockService)

	req, _ := http.NewRequest(http.MethodPost, "/rate/abc123", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetFeedbackContextHandler_Success(t *testing.T) {
	mockService := new(MockRatingService)
	ratingID := uuid.New()
	mockService.On("GetFeedbackContext", mock.Anything, ratingID).Return(&entity.FeedbackContextResponse{
		BusinessName: "Coffee Roasters",
	}, nil)
	router := setupTestRouter(mockService)

	req, _ := http.NewRequest(http.MethodGet, "/feedback/context?rating_id="+ratingID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetFeedbackContextHandler_BadRatingID(t *testing.T) {
	mockService := new(MockRatingService)
	router := setupTestRouter(mockService)

	req, _ := http.NewRequest(http.MethodGet, "/feedback/context?rating_id=not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetFeedbackContext", mock.Anything, mock.Anything)
}

func TestSubmitFeedbackHandler_Success(t *testing.T) {
	mockService := new(MockRatingService)
	mockService.On("SubmitFeedback", mock.Anything, mock.AnythingOfType("*entity.SubmitFeedbackRequest")).Return(&entity.SubmitFeedbackResponse{
		Message:         "Thank you for your feedback",
		RedirectPath:    "/thank-you",
		RedirectDelayMs: 2000,
	}, nil)
	router := setupTestRouter(mockService)

	body, _ := json.Marshal(entity.SubmitFeedbackRequest{
		RatingID:     uuid.New(),
		FeedbackText: "Music was too loud",
	})
	req, _ := http.NewRequest(http.MethodPost, "/feedback", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp entity.SubmitFeedbackResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "/thank-you", resp.RedirectPath)
}

func TestSubmitFeedbackHandler_WhitespaceText(t *testing.T) {
	mockService := new(MockRatingService)
	mockService.On("SubmitFeedback", mock.Anything, mock.Anything).Return(nil, service.ErrEmptyFeedback)
	router := setupTestRouter(mockService)

	body, _ := json.Marshal(entity.SubmitFeedbackRequest{
		RatingID:     uuid.New(),
		FeedbackText: "   ",
	})
	req, _ := http.NewRequest(http.MethodPost, "/feedback", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitFeedbackHandler_UnknownRating(t *testing.T) {
	mockService := new(MockRatingService)
	mockService.On("SubmitFeedback", mock.Anything, mock.Anything).Return(nil, service.ErrRatingNotFound)
	router := setupTestRouter(mockService)

	body, _ := json.Marshal(entity.SubmitFeedbackRequest{
		RatingID:     uuid.New(),
		FeedbackText: "Parking was impossible",
	})
	req, _ := http.NewRequest(http.MethodPost, "/feedback", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDiscountHandler_Success(t *testing.T) {
	mockService := new(MockRatingService)
	mockService.On("GetActiveDiscount", mock.Anything).Return(&entity.DiscountCode{
		ID:      uuid.New(),
		Code:    "WELCOME10",
		Message: "10% off your next visit",
	}, nil)
	router := setupTestRouter(mockService)

	req, _ := http.NewRequest(http.MethodGet, "/thank-you/discount", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.DiscountResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "WELCOME10", resp.Code)
}

func TestGetDiscountHandler_NoActiveCode(t *testing.T) {
	mockService := new(MockRatingService)
	mockService.On("GetActiveDiscount", mock.Anything).Return(nil, nil)
	router := setupTestRouter(mockService)

	req, _ := http.NewRequest(http.MethodGet, "/thank-you/discount", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
