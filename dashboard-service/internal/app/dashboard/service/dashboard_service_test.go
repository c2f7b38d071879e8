package service

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"revulink/dashboard-service/internal/app/dashboard/entity"
	"revulink/dashboard-service/internal/app/dashboard/repository"
	"revulink/dashboard-service/internal/app/dashboard/repository/mocks"
	"revulink/pkg/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type serviceMocks struct {
	linkRepo     *mocks.MockLinkRepository
	ratingRepo   *mocks.MockRatingRepository
	profileRepo  *mocks.MockProfileRepository
	discountRepo *mocks.MockDiscountRepository
	feedbackRepo *mocks.MockFeedbackRepository
	cache        *mocks.MockCacheClient
}

func newTestService() (*DashboardService, *serviceMocks) {
	m := &serviceMocks{
		linkRepo:     new(mocks.MockLinkRepository),
		ratingRepo:   new(mocks.MockRatingRepository),
		profileRepo:  new(mocks.MockProfileRepository),
		discountRepo: new(mocks.MockDiscountRepository),
		feedbackRepo: new(mocks.MockFeedbackRepository),
		cache:        new(mocks.MockCacheClient),
	}
	svc := NewDashboardService(m.linkRepo, m.ratingRepo, m.profileRepo, m.discountRepo, m.feedbackRepo, m.cache, "https://revu.link")
	return svc, m
}

func ownerScope(userID uuid.UUID) entity.Scope {
	return entity.Scope{UserID: userID}
}

func TestCreateLink_GeneratesValidCode(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	userID := uuid.New()

	var created *entity.ReviewLink
	m.linkRepo.On("Create", ctx, mock.AnythingOfType("*entity.ReviewLink")).Return(nil).Run(func(args mock.Arguments) {
		created = args.Get(1).(*entity.ReviewLink)
	})

	link, err := svc.CreateLink(ctx, ownerScope(userID), &entity.CreateLinkRequest{
		Name:            "Front desk",
		GoogleReviewURL: "https://g.page/r/x/review",
	})

	assert.NoError(t, err)
	assert.Equal(t, userID, created.UserID)
	assert.Len(t, created.LinkCode, 26)
	for _, ch := range created.LinkCode {
		assert.Contains(t, "0123456789abcdefghijklmnopqrstuvwxyz", string(ch))
	}
	assert.Equal(t, entity.LinkStatusActive, created.Status)
	assert.Equal(t, "https://revu.link/rate/"+created.LinkCode, link.PublicURL)
}

func TestCreateLink_RetriesOnCodeCollision(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	m.linkRepo.On("Create", ctx, mock.Anything).Return(repository.ErrLinkCodeTaken).Once()
	m.linkRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

	link, err := svc.CreateLink(ctx, ownerScope(uuid.New()), &entity.CreateLinkRequest{
		Name:            "Front desk",
		GoogleReviewURL: "https://g.page/r/x/review",
	})

	assert.NoError(t, err)
	assert.NotNil(t, link)
	m.linkRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestGetLink_ForeignLinkLooksNotFound(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()
	linkID := uuid.New()

	m.linkRepo.On("GetByID", ctx, linkID).Return(&entity.ReviewLink{
		ID:     linkID,
		UserID: owner,
	}, nil)

	_, err := svc.GetLink(ctx, ownerScope(stranger), linkID)

	assert.ErrorIs(t, err, ErrLinkNotFound)
}

func TestGetLink_CountFromCache(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	userID := uuid.New()
	linkID := uuid.New()

	m.linkRepo.On("GetByID", ctx, linkID).Return(&entity.ReviewLink{ID: linkID, UserID: userID}, nil)
	m.cache.On("GetLinkRatingCount", ctx, linkID).Return(int64(42), true, nil)

	link, err := svc.GetLink(ctx, ownerScope(userID), linkID)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), link.RatingCount)
	m.ratingRepo.AssertNotCalled(t, "CountByLinkID", mock.Anything, mock.Anything)
}

func TestGetLink_CountFallsBackToPostgres(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	userID := uuid.New()
	linkID := uuid.New()

	m.linkRepo.On("GetByID", ctx, linkID).Return(&entity.ReviewLink{ID: linkID, UserID: userID}, nil)
	m.cache.On("GetLinkRatingCount", ctx, linkID).Return(int64(0), false, nil)
	m.ratingRepo.On("CountByLinkID", ctx, linkID).Return(int64(7), nil)
	m.cache.On("SetLinkRatingCount", ctx, linkID, int64(7)).Return(nil)

	link, err := svc.GetLink(ctx, ownerScope(userID), linkID)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), link.RatingCount)
	// После промаха счетчик восстанавливается в кеше
	m.cache.AssertCalled(t, "SetLinkRatingCount", ctx, linkID, int64(7))
}

func TestGetLink_CacheRepopulateFailureIsNotFatal(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	userID := uuid.New()
	linkID := uuid.New()

	m.linkRepo.On("GetByID", ctx, linkID).Return(&entity.ReviewLink{ID: linkID, UserID: userID}, nil)
	m.cache.On("GetLinkRatingCount", ctx, linkID).Return(int64(0), false, nil)
	m.ratingRepo.On("CountByLinkID", ctx, linkID).Return(int64(7), nil)
	m.cache.On("SetLinkRatingCount", ctx, linkID, int64(7)).Return(errors.New("redis down"))

	link, err := svc.GetLink(ctx, ownerScope(userID), linkID)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), link.RatingCount)
}

func TestImpersonation_ScopesDataToTargetUser(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	adminID := uuid.New()
	targetID := uuid.New()

	scope := entity.Scope{UserID: adminID, IsAdmin: true, ImpersonatedUserID: &targetID}

	m.linkRepo.On("ListByUser", ctx, targetID).Return([]repository.LinkWithCount{}, nil)

	_, err := svc.ListLinks(ctx, scope)

	assert.NoError(t, err)
	m.linkRepo.AssertCalled(t, "ListByUser", ctx, targetID)
	m.linkRepo.AssertNotCalled(t, "ListByUser", ctx, adminID)
}

func TestStartImpersonation_RequiresAdmin(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	err := svc.StartImpersonation(ctx, ownerScope(uuid.New()), uuid.New())

	assert.ErrorIs(t, err, ErrNotAdmin)
	m.cache.AssertNotCalled(t, "SetImpersonation", mock.Anything, mock.Anything, mock.Anything)
}

func TestStartImpersonation_UnknownTarget(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	adminID := uuid.New()
	targetID := uuid.New()

	m.profileRepo.On("GetByUserID", ctx, targetID).Return(nil, repository.ErrProfileNotFound)

	err := svc.StartImpersonation(ctx, entity.Scope{UserID: adminID, IsAdmin: true}, targetID)

	assert.ErrorIs(t, err, ErrImpersonationTarget)
	m.cache.AssertNotCalled(t, "SetImpersonation", mock.Anything, mock.Anything, mock.Anything)
}

func TestStartAndStopImpersonation(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	adminID := uuid.New()
	targetID := uuid.New()
	scope := entity.Scope{UserID: adminID, IsAdmin: true}

	m.profileRepo.On("GetByUserID", ctx, targetID).Return(&entity.Profile{UserID: targetID}, nil)
	m.cache.On("SetImpersonation", ctx, adminID, targetID).Return(nil)
	m.cache.On("ClearImpersonation", ctx, adminID).Return(true, nil)

	assert.NoError(t, svc.StartImpersonation(ctx, scope, targetID))
	assert.NoError(t, svc.StopImpersonation(ctx, scope))

	m.cache.AssertExpectations(t)
}

func TestStopImpersonation_IdempotentGauge(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	adminID := uuid.New()
	scope := entity.Scope{UserID: adminID, IsAdmin: true}

	// Активной имперсонации нет: удалять нечего
	m.cache.On("ClearImpersonation", ctx, adminID).Return(false, nil)

	before := testutil.ToFloat64(metrics.ImpersonationActive)
	assert.NoError(t, svc.StopImpersonation(ctx, scope))
	after := testutil.ToFloat64(metrics.ImpersonationActive)

	// Повторная остановка не уводит датчик активных имперсонаций в минус
	assert.Equal(t, before, after)
}

func reviewRowAt(stars int, at time.Time, customer, link string) entity.ReviewRow {
	return entity.ReviewRow{
		Rating: entity.Rating{
			ID:                 uuid.New(),
			Rating:             stars,
			RedirectedToGoogle: stars >= 4,
			CustomerName:       customer,
			CreatedAt:          at,
		},
		LinkName: link,
	}
}

func TestListReviews_FilterAndSort(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()

	rows := []entity.ReviewRow{
		reviewRowAt(5, now.Add(-1*time.Hour), "Alice", "Front desk"),
		reviewRowAt(2, now.Add(-2*time.Hour), "Bob", "Front desk"),
		reviewRowAt(4, now.Add(-3*time.Hour), "Carol", "Takeout"),
	}

	m.ratingRepo.On("ListByOwnerSince", ctx, userID, mock.AnythingOfType("time.Time")).Return(rows, nil)
	m.feedbackRepo.On("GetByRatingIDs", ctx, mock.Anything).Return(map[string]*entity.Feedback{}, nil)

	resp, err := svc.ListReviews(ctx, ownerScope(userID), entity.ReviewsQuery{Filter: "high", Sort: "lowest"})

	assert.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 4, resp.Reviews[0].Rating.Rating)
	assert.Equal(t, 5, resp.Reviews[1].Rating.Rating)
}

func TestListReviews_SearchMatchesCustomerAndLink(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()

	rows := []entity.ReviewRow{
		reviewRowAt(5, now, "Alice", "Front desk"),
		reviewRowAt(3, now, "Bob", "Takeout"),
	}

	m.ratingRepo.On("ListByOwnerSince", ctx, userID, mock.Anything).Return(rows, nil)
	m.feedbackRepo.On("GetByRatingIDs", ctx, mock.Anything).Return(map[string]*entity.Feedback{}, nil)

	resp, err := svc.ListReviews(ctx, ownerScope(userID), entity.ReviewsQuery{Search: "takeout"})

	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "Bob", resp.Reviews[0].Rating.CustomerName)
}

func TestListReviews_InvalidRange(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ListReviews(context.Background(), ownerScope(uuid.New()), entity.ReviewsQuery{Range: "yesterday"})

	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestListReviews_AttachesFeedback(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	userID := uuid.New()

	row := reviewRowAt(2, time.Now(), "Bob", "Front desk")
	feedback := &entity.Feedback{RatingID: row.Rating.ID.String(), FeedbackText: "Cold food"}

	m.ratingRepo.On("ListByOwnerSince", ctx, userID, mock.Anything).Return([]entity.ReviewRow{row}, nil)
	m.feedbackRepo.On("GetByRatingIDs", ctx, []string{row.Rating.ID.String()}).Return(map[string]*entity.Feedback{
		row.Rating.ID.String(): feedback,
	}, nil)

	resp, err := svc.ListReviews(ctx, ownerScope(userID), entity.ReviewsQuery{})

	assert.NoError(t, err)
	assert.NotNil(t, resp.Reviews[0].Feedback)
	assert.Equal(t, "Cold food", resp.Reviews[0].Feedback.FeedbackText)
}

func TestExportReviewsCSV_RoundTripsSpecialCharacters(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	userID := uuid.New()

	row := reviewRowAt(1, time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC), `Smith, "Bob"`, "Front desk")
	feedback := &entity.Feedback{
		RatingID:     row.Rating.ID.String(),
		FeedbackText: "Line one\nwith, commas and \"quotes\"",
	}

	m.ratingRepo.On("ListByOwnerSince", ctx, userID, mock.Anything).Return([]entity.ReviewRow{row}, nil)
	m.feedbackRepo.On("GetByRatingIDs", ctx, mock.Anything).Return(map[string]*entity.Feedback{
		row.Rating.ID.String(): feedback,
	}, nil)

	filename, data, err := svc.ExportReviewsCSV(ctx, ownerScope(userID), entity.ReviewsQuery{})

	assert.NoError(t, err)
	assert.Equal(t, "reviews-"+time.Now().Format("2006-01-02")+".csv", filename)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, []string{"Date", "Link Name", "Customer Name", "Customer Email", "Rating", "Feedback", "Redirected to Google"}, records[0])
	assert.Equal(t, "2024-05-02", records[1][0])
	assert.Equal(t, `Smith, "Bob"`, records[1][2])
	assert.Equal(t, "Line one\nwith, commas and \"quotes\"", records[1][5])
	assert.Equal(t, "No", records[1][6])
}

func TestExportAllReviewsCSV_AdminColumns(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	ownerID := uuid.New()
	adminScope := entity.Scope{UserID: uuid.New(), IsAdmin: true}

	row := reviewRowAt(5, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), "Alice", "Front desk")
	row.OwnerID = ownerID

	m.ratingRepo.On("ListAllSince", ctx, mock.Anything).Return([]entity.ReviewRow{row}, nil)
	m.feedbackRepo.On("GetByRatingIDs", ctx, mock.Anything).Return(map[string]*entity.Feedback{}, nil)
	m.profileRepo.On("ListAll", ctx).Return([]entity.AdminUserRow{
		{Profile: entity.Profile{UserID: ownerID, FullName: "Dana Owner", Email: "dana@example.com"}},
	}, nil)

	filename, data, err := svc.ExportAllReviewsCSV(ctx, adminScope, entity.ReviewsQuery{})

	assert.NoError(t, err)
	assert.Equal(t, "admin-reviews-"+time.Now().Format("2006-01-02")+".csv", filename)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	assert.NoError(t, err)
	assert.Equal(t, []string{"Date", "Link Name", "Owner Name", "Owner Email", "Customer Name", "Customer Email", "Rating", "Feedback", "Redirected to Google"}, records[0])
	assert.Equal(t, "Dana Owner", records[1][2])
	assert.Equal(t, "dana@example.com", records[1][3])
	assert.Equal(t, "Yes", records[1][8])
}

func TestExportAllReviewsCSV_RequiresAdmin(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.ExportAllReviewsCSV(context.Background(), ownerScope(uuid.New()), entity.ReviewsQuery{})

	assert.ErrorIs(t, err, ErrNotAdmin)
}

func TestListAllReviews_IncludesOwnerData(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	ownerID := uuid.New()
	adminScope := entity.Scope{UserID: uuid.New(), IsAdmin: true}

	row := reviewRowAt(2, time.Now(), "Alice", "Front desk")
	row.OwnerID = ownerID

	m.ratingRepo.On("ListAllSince", ctx, mock.Anything).Return([]entity.ReviewRow{row}, nil)
	m.feedbackRepo.On("GetByRatingIDs", ctx, mock.Anything).Return(map[string]*entity.Feedback{}, nil)
	m.profileRepo.On("ListAll", ctx).Return([]entity.AdminUserRow{
		{Profile: entity.Profile{UserID: ownerID, FullName: "Dana Owner", Email: "dana@example.com"}},
	}, nil)

	resp, err := svc.ListAllReviews(ctx, adminScope, entity.ReviewsQuery{})

	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "Dana Owner", resp.Reviews[0].OwnerName)
	assert.Equal(t, "dana@example.com", resp.Reviews[0].OwnerEmail)
	assert.Equal(t, "Front desk", resp.Reviews[0].LinkName)
}

func TestListAllReviews_RequiresAdmin(t *testing.T) {
	svc, m := newTestService()

	_, err := svc.ListAllReviews(context.Background(), ownerScope(uuid.New()), entity.ReviewsQuery{})

	assert.ErrorIs(t, err, ErrNotAdmin)
	m.ratingRepo.AssertNotCalled(t, "ListAllSince")
}

func TestSetLogo_SetAndClear(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	userID := uuid.New()

	m.profileRepo.On("GetByUserID", ctx, userID).Return(&entity.Profile{UserID: userID}, nil)
	m.profileRepo.On("Update", ctx, mock.MatchedBy(func(p *entity.Profile) bool {
		return p.LogoURL == "https://cdn.example.com/logo.png"
	})).Return(nil).Once()
	m.profileRepo.On("Update", ctx, mock.MatchedBy(func(p *entity.Profile) bool {
		return p.LogoURL == ""
	})).Return(nil).Once()

	profile, err := svc.SetLogo(ctx, ownerScope(userID), "https://cdn.example.com/logo.png")
	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/logo.png", profile.LogoURL)

	profile, err = svc.SetLogo(ctx, ownerScope(userID), "")
	assert.NoError(t, err)
	assert.Empty(t, profile.LogoURL)
}

func TestUpdateDiscount_ForeignCodeLooksNotFound(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	codeID := uuid.New()

	m.discountRepo.On("GetByID", ctx, codeID).Return(&entity.DiscountCode{
		ID:     codeID,
		UserID: uuid.New(),
	}, nil)

	_, err := svc.UpdateDiscount(ctx, ownerScope(uuid.New()), codeID, &entity.UpdateDiscountRequest{})

	assert.ErrorIs(t, err, ErrDiscountNotFound)
	m.discountRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCompleteOnboarding(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	userID := uuid.New()

	m.profileRepo.On("GetByUserID", ctx, userID).Return(&entity.Profile{UserID: userID, Email: "o@example.com"}, nil)
	m.profileRepo.On("Update", ctx, mock.AnythingOfType("*entity.Profile")).Return(nil)
	m.linkRepo.On("Create", ctx, mock.Anything).Return(nil)
	m.profileRepo.On("SetOnboardingCompleted", ctx, userID).Return(nil)

	result, err := svc.CompleteOnboarding(ctx, ownerScope(userID), &entity.OnboardingRequest{
		BusinessName:    "Bakery",
		GoogleReviewURL: "https://g.page/r/bakery/review",
		LinkName:        "Counter",
	})

	assert.NoError(t, err)
	assert.True(t, result.Profile.OnboardingCompleted)
	assert.Equal(t, "Bakery", result.Profile.BusinessName)
	assert.NotNil(t, result.Link)
}

func TestCompleteOnboarding_StoresGoogleReviewLinkInProfile(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	userID := uuid.New()

	m.profileRepo.On("GetByUserID", ctx, userID).Return(&entity.Profile{UserID: userID, Email: "o@example.com"}, nil)
	m.profileRepo.On("Update", ctx, mock.MatchedBy(func(p *entity.Profile) bool {
		return p.GoogleReviewLink == "https://g.page/r/bakery/review"
	})).Return(nil)
	m.linkRepo.On("Create", ctx, mock.Anything).Return(nil)
	m.profileRepo.On("SetOnboardingCompleted", ctx, userID).Return(nil)

	result, err := svc.CompleteOnboarding(ctx, ownerScope(userID), &entity.OnboardingRequest{
		BusinessName:    "Bakery",
		GoogleReviewURL: "https://g.page/r/bakery/review",
		LinkName:        "Counter",
	})

	assert.NoError(t, err)
	assert.Equal(t, "https://g.page/r/bakery/review", result.Profile.GoogleReviewLink)
	m.profileRepo.AssertExpectations(t)
}

func TestUpdateProfile_SetsGoogleReviewLink(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	userID := uuid.New()
	newLink := "https://g.page/r/updated/review"

	m.profileRepo.On("GetByUserID", ctx, userID).Return(&entity.Profile{UserID: userID, Email: "o@example.com"}, nil)
	m.profileRepo.On("Update", ctx, mock.MatchedBy(func(p *entity.Profile) bool {
		return p.GoogleReviewLink == newLink
	})).Return(nil)

	profile, err := svc.UpdateProfile(ctx, ownerScope(userID), &entity.UpdateProfileRequest{
		GoogleReviewLink: &newLink,
	})

	assert.NoError(t, err)
	assert.Equal(t, newLink, profile.GoogleReviewLink)
}

func TestListUsers_RepoError(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	m.profileRepo.On("ListAll", ctx).Return(nil, errors.New("db error"))

	_, err := svc.ListUsers(ctx, entity.Scope{UserID: uuid.New(), IsAdmin: true})

	assert.Error(t, err)
}
