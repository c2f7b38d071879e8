package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"revulink/dashboard-service/internal/app/dashboard/entity"
	"revulink/dashboard-service/internal/app/dashboard/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDashboardService мок для DashboardServiceInterface
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) CreateLink(ctx context.Context, scope entity.Scope, req *entity.CreateLinkRequest) (*entity.LinkResponse, error) {
	args := m.Called(ctx, scope, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LinkResponse), args.Error(1)
}

func (m *MockDashboardService) ListLinks(ctx context.Context, scope entity.Scope) ([]entity.LinkResponse, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LinkResponse), args.Error(1)
}

func (m *MockDashboardService) GetLink(ctx context.Context, scope entity.Scope, linkID uuid.UUID) (*entity.LinkResponse, error) {
	args := m.Called(ctx, scope, linkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LinkResponse), args.Error(1)
}

func (m *MockDashboardService) UpdateLink(ctx context.Context, scope entity.Scope, linkID uuid.UUID, req *entity.UpdateLinkRequest) (*entity.LinkResponse, error) {
	args := m.Called(ctx, scope, linkID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LinkResponse), args.Error(1)
}

func (m *MockDashboardService) DeleteLink(ctx context.Context, scope entity.Scope, linkID uuid.UUID) error {
	args := m.Called(ctx, scope, linkID)
	return args.Error(0)
}

func (m *MockDashboardService) ListReviews(ctx context.Context, scope entity.Scope, query entity.ReviewsQuery) (*entity.ReviewListResponse, error) {
	args := m.Called(ctx, scope, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReviewListResponse), args.Error(1)
}

func (m *MockDashboardService) ExportReviewsCSV(ctx context.Context, scope entity.Scope, query entity.ReviewsQuery) (string, []byte, error) {
	args := m.Called(ctx, scope, query)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).([]byte), args.Error(2)
}

func (m *MockDashboardService) Analytics(ctx context.Context, scope entity.Scope, rangeStr string) (*entity.AnalyticsData, error) {
	args := m.Called(ctx, scope, rangeStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AnalyticsData), args.Error(1)
}

func (m *MockDashboardService) CreateDiscount(ctx context.Context, scope entity.Scope, req *entity.CreateDiscountRequest) (*entity.DiscountCode, error) {
	args := m.Called(ctx, scope, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DiscountCode), args.Error(1)
}

func (m *MockDashboardService) ListDiscounts(ctx context.Context, scope entity.Scope) ([]entity.DiscountCode, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.DiscountCode), args.Error(1)
}

func (m *MockDashboardService) UpdateDiscount(ctx context.Context, scope entity.Scope, id uuid.UUID, req *entity.UpdateDiscountRequest) (*entity.DiscountCode, error) {
	args := m.Called(ctx, scope, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DiscountCode), args.Error(1)
}

func (m *MockDashboardService) DeleteDiscount(ctx context.Context, scope entity.Scope, id uuid.UUID) error {
	args := m.Called(ctx, scope, id)
	return args.Error(0)
}

func (m *MockDashboardService) GetProfile(ctx context.Context, scope entity.Scope) (*entity.Profile, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *MockDashboardService) UpdateProfile(ctx context.Context, scope entity.Scope, req *entity.UpdateProfileRequest) (*entity.Profile, error) {
	args := m.Called(ctx, scope, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *MockDashboardService) SetLogo(ctx context.Context, scope entity.Scope, logoURL string) (*entity.Profile, error) {
	args := m.Called(ctx, scope, logoURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *MockDashboardService) CompleteOnboarding(ctx context.Context, scope entity.Scope, req *entity.OnboardingRequest) (*entity.OnboardingResponse, error) {
	args := m.Called(ctx, scope, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.OnboardingResponse), args.Error(1)
}

func (m *MockDashboardService) ListUsers(ctx context.Context, scope entity.Scope) ([]entity.AdminUserRow, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.AdminUserRow), args.Error(1)
}

func (m *MockDashboardService) ListAllReviews(ctx context.Context, scope entity.Scope, query entity.ReviewsQuery) (*entity.AdminReviewListResponse, error) {
	args := m.Called(ctx, scope, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AdminReviewListResponse), args.Error(1)
}

func (m *MockDashboardService) ExportAllReviewsCSV(ctx context.Context, scope entity.Scope, query entity.ReviewsQuery) (string, []byte, error) {
	args := m.Called(ctx, scope, query)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).([]byte), args.Error(2)
}

func (m *MockDashboardService) StartImpersonation(ctx context.Context, scope entity.Scope, targetUserID uuid.UUID) error {
	args := m.Called(ctx, scope, targetUserID)
	return args.Error(0)
}

func (m *MockDashboardService) StopImpersonation(ctx context.Context, scope entity.Scope) error {
	args := m.Called(ctx, scope)
	return args.Error(0)
}

func (m *MockDashboardService) GetImpersonationStatus(ctx context.Context, scope entity.Scope) (*entity.ImpersonationStatus, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ImpersonationStatus), args.Error(1)
}

// setupHandlerRouter собирает роутер с подставленным scope, минуя JWT middleware
func setupHandlerRouter(mockSvc *MockDashboardService, scope entity.Scope) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewDashboardHandler(mockSvc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(scopeContextKey, scope)
		c.Next()
	})

	router.GET("/links", h.ListLinks)
	router.POST("/links", h.CreateLink)
	router.GET("/links/:id", h.GetLink)
	router.PATCH("/links/:id", h.UpdateLink)
	router.DELETE("/links/:id", h.DeleteLink)
	router.GET("/reviews", h.ListReviews)
	router.GET("/reviews/export", h.ExportReviews)
	router.GET("/analytics", h.Analytics)
	router.PUT("/profile/logo", h.SetLogo)
	router.DELETE("/profile/logo", h.RemoveLogo)
	router.GET("/admin/reviews", h.ListAllReviews)
	router.GET("/admin/reviews/export", h.ExportAllReviews)

	return router
}

func ownerTestScope() entity.Scope {
	return entity.Scope{UserID: uuid.New()}
}

func TestCreateLink_Created(t *testing.T) {
	mockSvc := new(MockDashboardService)
	scope := ownerTestScope()
	router := setupHandlerRouter(mockSvc, scope)

	resp := &entity.LinkResponse{
		ID:              uuid.New(),
		Name:            "Front desk",
		LinkCode:        "abcdefghijklmnopqrstuvwxyz",
		PublicURL:       "https://revu.link/rate/abcdefghijklmnopqrstuvwxyz",
		GoogleReviewURL: "https://g.page/r/test/review",
		Status:          entity.LinkStatusActive,
		CreatedAt:       time.Now(),
	}
	mockSvc.On("CreateLink", mock.Anything, scope, mock.MatchedBy(func(req *entity.CreateLinkRequest) bool {
		return req.Name == "Front desk"
	})).Return(resp, nil)

	body, _ := json.Marshal(entity.CreateLinkRequest{
		Name:            "Front desk",
		GoogleReviewURL: "https://g.page/r/test/review",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/links", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestCreateLink_InvalidURLRejectedBeforeService(t *testing.T) {
	mockSvc := new(MockDashboardService)
	router := setupHandlerRouter(mockSvc, ownerTestScope())

	body, _ := json.Marshal(entity.CreateLinkRequest{
		Name:            "Front desk",
		GoogleReviewURL: "not-a-url",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/links", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "CreateLink")
}

func TestGetLink_NotFound(t *testing.T) {
	mockSvc := new(MockDashboardService)
	scope := ownerTestScope()
	router := setupHandlerRouter(mockSvc, scope)

	linkID := uuid.New()
	mockSvc.On("GetLink", mock.Anything, scope, linkID).Return(nil, service.ErrLinkNotFound)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/links/"+linkID.String(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetLink_MalformedID(t *testing.T) {
	mockSvc := new(MockDashboardService)
	router := setupHandlerRouter(mockSvc, ownerTestScope())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/links/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "GetLink")
}

func TestListReviews_PassesQueryFilters(t *testing.T) {
	mockSvc := new(MockDashboardService)
	scope := ownerTestScope()
	router := setupHandlerRouter(mockSvc, scope)

	mockSvc.On("ListReviews", mock.Anything, scope, entity.ReviewsQuery{
		Range:  "7d",
		Filter: "low",
		Search: "bakery",
		Sort:   "oldest",
	}).Return(&entity.ReviewListResponse{Reviews: []entity.ReviewRow{}, Total: 0}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reviews?range=7d&filter=low&search=bakery&sort=oldest", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestListReviews_InvalidRange(t *testing.T) {
	mockSvc := new(MockDashboardService)
	scope := ownerTestScope()
	router := setupHandlerRouter(mockSvc, scope)

	mockSvc.On("ListReviews", mock.Anything, scope, mock.Anything).Return(nil, service.ErrInvalidRange)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reviews?range=14d", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportReviews_SetsAttachmentHeaders(t *testing.T) {
	mockSvc := new(MockDashboardService)
	scope := ownerTestScope()
	router := setupHandlerRouter(mockSvc, scope)

	csvData := []byte("Date,Link Name\n2024-03-15,Front desk\n")
	mockSvc.On("ExportReviewsCSV", mock.Anything, scope, mock.Anything).
		Return("reviews-2024-03-15.csv", csvData, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reviews/export", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="reviews-2024-03-15.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, csvData, w.Body.Bytes())
}

func TestAnalytics_PassesRange(t *testing.T) {
	mockSvc := new(MockDashboardService)
	scope := ownerTestScope()
	router := setupHandlerRouter(mockSvc, scope)

	data := &entity.AnalyticsData{
		Range:        "90d",
		TotalRatings: 3,
		MeanRating:   4.0,
		Histogram:    map[int]int{1: 0, 2: 0, 3: 1, 4: 1, 5: 1},
		Daily:        []entity.SeriesPoint{{Period: "2024-03-13", Mean: 4.0, Count: 3}},
		Weekly:       []entity.SeriesPoint{{Period: "2024-03-10", Mean: 4.0, Count: 3}},
		Monthly:      []entity.SeriesPoint{{Period: "2024-03", Mean: 4.0, Count: 3}},
	}
	mockSvc.On("Analytics", mock.Anything, scope, "90d").Return(data, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics?range=90d", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.AnalyticsData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2024-03-13", resp.Daily[0].Period)
	assert.Equal(t, "2024-03-10", resp.Weekly[0].Period)
	assert.Equal(t, "2024-03", resp.Monthly[0].Period)
	assert.Len(t, resp.Histogram, 5)
}

func TestSetLogo_InvalidURLRejected(t *testing.T) {
	mockSvc := new(MockDashboardService)
	router := setupHandlerRouter(mockSvc, ownerTestScope())

	body, _ := json.Marshal(entity.LogoRequest{LogoURL: "not-a-url"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/profile/logo", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "SetLogo")
}

func TestRemoveLogo_ClearsURL(t *testing.T) {
	mockSvc := new(MockDashboardService)
	scope := ownerTestScope()
	router := setupHandlerRouter(mockSvc, scope)

	mockSvc.On("SetLogo", mock.Anything, scope, "").Return(&entity.Profile{UserID: scope.UserID}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/profile/logo", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestListAllReviews_NonAdminForbidden(t *testing.T) {
	mockSvc := new(MockDashboardService)
	scope := ownerTestScope()
	router := setupHandlerRouter(mockSvc, scope)

	mockSvc.On("ListAllReviews", mock.Anything, scope, mock.Anything).Return(nil, service.ErrNotAdmin)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/reviews", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListAllReviews_IncludesOwnerFields(t *testing.T) {
	mockSvc := new(MockDashboardService)
	scope := entity.Scope{UserID: uuid.New(), IsAdmin: true}
	router := setupHandlerRouter(mockSvc, scope)

	resp := &entity.AdminReviewListResponse{
		Reviews: []entity.AdminReviewRow{
			{
				ReviewRow:  entity.ReviewRow{LinkName: "Front desk", OwnerID: uuid.New()},
				OwnerName:  "Jamie Owner",
				OwnerEmail: "owner@example.com",
			},
		},
		Total: 1,
	}
	mockSvc.On("ListAllReviews", mock.Anything, scope, mock.Anything).Return(resp, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/reviews", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var decoded entity.AdminReviewListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	require.Len(t, decoded.Reviews, 1)
	assert.Equal(t, "owner@example.com", decoded.Reviews[0].OwnerEmail)
}

func TestExportAllReviews_AdminFilename(t *testing.T) {
	mockSvc := new(MockDashboardService)
	scope := entity.Scope{UserID: uuid.New(), IsAdmin: true}
	router := setupHandlerRouter(mockSvc, scope)

	mockSvc.On("ExportAllReviewsCSV", mock.Anything, scope, mock.Anything).
		Return("admin-reviews-2024-03-15.csv", []byte("Date\n"), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/reviews/export", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="admin-reviews-2024-03-15.csv"`, w.Header().Get("Content-Disposition"))
}
