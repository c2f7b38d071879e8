package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"revulink/dashboard-service/internal/app/dashboard/entity"
	"revulink/dashboard-service/internal/app/dashboard/repository"
	"revulink/dashboard-service/internal/app/dashboard/util"
	"revulink/pkg/logger"
	"revulink/pkg/metrics"

	"github.com/google/uuid"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrLinkNotFound        = errors.New("review link not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrDiscountNotFound    = errors.New("discount code not found")
	ErrInvalidRange        = errors.New("invalid analytics range")
	ErrNotAdmin            = errors.New("admin access required")
	ErrImpersonationTarget = errors.New("impersonation target not found")
)

const (
	// Длина публичного кода ссылки и его алфавит
	linkCodeLength  = 26
	linkCodeCharset = "0123456789abcdefghijklmnopqrstuvwxyz"

	// Попытки генерации кода при коллизии уникального индекса
	linkCodeMaxAttempts = 5
)

// DashboardService реализует операции кабинета владельца:
// ссылки, отзывы, аналитика, промокоды, профиль и админка.
// Все операции с данными принимают Scope и работают от имени
// scope.EffectiveUserID(), что прозрачно поддерживает имперсонацию.
type DashboardService struct {
	linkRepo      repository.LinkRepository
	ratingRepo    repository.RatingRepository
	profileRepo   repository.ProfileRepository
	discountRepo  repository.DiscountRepository
	feedbackRepo  repository.FeedbackRepository
	cache         util.CacheClient
	publicBaseURL string
}

// NewDashboardService создает новый сервис с внедрением зависимостей
func NewDashboardService(
	linkRepo repository.LinkRepository,
	ratingRepo repository.RatingRepository,
	profileRepo repository.ProfileRepository,
	discountRepo repository.DiscountRepository,
	feedbackRepo repository.FeedbackRepository,
	cache util.CacheClient,
	publicBaseURL string,
) *DashboardService {
	return &DashboardService{
		linkRepo:      linkRepo,
		ratingRepo:    ratingRepo,
		profileRepo:   profileRepo,
		discountRepo:  discountRepo,
		feedbackRepo:  feedbackRepo,
		cache:         cache,
		publicBaseURL: publicBaseURL,
	}
}

// CreateLink создает новую ссылку для сбора оценок.
// Код генерируется заново при коллизии уникального индекса.
func (s *DashboardService) CreateLink(ctx context.Context, scope entity.Scope, req *entity.CreateLinkRequest) (*entity.LinkResponse, error) {
	link := &entity.ReviewLink{
		ID:              uuid.New(),
		UserID:          scope.EffectiveUserID(),
		Name:            req.Name,
		GoogleReviewURL: req.GoogleReviewURL,
		Status:          entity.LinkStatusActive,
		CreatedAt:       time.Now(),
	}

	var err error
	for attempt := 0; attempt < linkCodeMaxAttempts; attempt++ {
		link.LinkCode, err = generateLinkCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate link code: %w", err)
		}

		err = s.linkRepo.Create(ctx, link)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrLinkCodeTaken) {
			return nil, fmt.Errorf("failed to create review link: %w", err)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create review link: %w", err)
	}

	metrics.LinksGenerated.Inc()

	return s.toLinkResponse(link, 0), nil
}

// ListLinks возвращает ссылки пользователя с числом собранных оценок
func (s *DashboardService) ListLinks(ctx context.Context, scope entity.Scope) ([]entity.LinkResponse, error) {
	links, err := s.linkRepo.ListByUser(ctx, scope.EffectiveUserID())
	if err != nil {
		return nil, fmt.Errorf("failed to list review links: %w", err)
	}

	result := make([]entity.LinkResponse, 0, len(links))
	for _, l := range links {
		result = append(result, *s.toLinkResponse(&l.ReviewLink, l.RatingCount))
	}

	return result, nil
}

// GetLink возвращает одну ссылку. Число оценок читается из счетчика
// в Redis, при его отсутствии считается напрямую в PostgreSQL.
func (s *DashboardService) GetLink(ctx context.Context, scope entity.Scope, linkID uuid.UUID) (*entity.LinkResponse, error) {
	link, err := s.getOwnedLink(ctx, scope, linkID)
	if err != nil {
		return nil, err
	}

	count, found, err := s.cache.GetLinkRatingCount(ctx, link.ID)
	if err != nil {
		logger.Warn().Err(err).Str("link_id", link.ID.String()).Msg("Failed to read rating count from cache")
		found = false
	}
	if !found {
		count, err = s.ratingRepo.CountByLinkID(ctx, link.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count ratings: %w", err)
		}
		// Восстанавливаем счетчик, чтобы следующие чтения шли из кеша
		if err := s.cache.SetLinkRatingCount(ctx, link.ID, count); err != nil {
			logger.Warn().Err(err).Str("link_id", link.ID.String()).Msg("Failed to repopulate rating count cache")
		}
	}

	return s.toLinkResponse(link, count), nil
}

// UpdateLink обновляет имя, целевой URL или статус ссылки
func (s *DashboardService) UpdateLink(ctx context.Context, scope entity.Scope, linkID uuid.UUID, req *entity.UpdateLinkRequest) (*entity.LinkResponse, error) {
	link, err := s.getOwnedLink(ctx, scope, linkID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		link.Name = *req.Name
	}
	if req.GoogleReviewURL != nil {
		link.GoogleReviewURL = *req.GoogleReviewURL
	}
	if req.Status != nil {
		link.Status = entity.LinkStatus(*req.Status)
	}

	if err := s.linkRepo.Update(ctx, link); err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to update review link: %w", err)
	}

	count, err := s.ratingRepo.CountByLinkID(ctx, link.ID)
	if err != nil {
		count = 0
	}

	return s.toLinkResponse(link, count), nil
}

// DeleteLink удаляет ссылку вместе с собранными оценками
func (s *DashboardService) DeleteLink(ctx context.Context, scope entity.Scope, linkID uuid.UUID) error {
	if err := s.linkRepo.Delete(ctx, linkID, scope.EffectiveUserID()); err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return ErrLinkNotFound
		}
		return fmt.Errorf("failed to delete review link: %w", err)
	}
	return nil
}

// GetProfile возвращает профиль текущего пользователя
func (s *DashboardService) GetProfile(ctx context.Context, scope entity.Scope) (*entity.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, scope.EffectiveUserID())
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile обновляет редактируемые поля профиля
func (s *DashboardService) UpdateProfile(ctx context.Context, scope entity.Scope, req *entity.UpdateProfileRequest) (*entity.Profile, error) {
	profile, err := s.GetProfile(ctx, scope)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.BusinessName != nil {
		profile.BusinessName = *req.BusinessName
	}
	if req.GoogleReviewLink != nil {
		profile.GoogleReviewLink = *req.GoogleReviewLink
	}
	if req.LogoURL != nil {
		profile.LogoURL = *req.LogoURL
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}

// SetLogo устанавливает логотип профиля; пустая строка убирает его.
// Само изображение живёт во внешнем хранилище, здесь хранится только ссылка
func (s *DashboardService) SetLogo(ctx context.Context, scope entity.Scope, logoURL string) (*entity.Profile, error) {
	return s.UpdateProfile(ctx, scope, &entity.UpdateProfileRequest{LogoURL: &logoURL})
}

// CompleteOnboarding выполняет первичную настройку аккаунта:
// имя бизнеса и ссылка на Google-отзывы в профиле, первая ссылка,
// отметка о завершении
func (s *DashboardService) CompleteOnboarding(ctx context.Context, scope entity.Scope, req *entity.OnboardingRequest) (*entity.OnboardingResponse, error) {
	profile, err := s.UpdateProfile(ctx, scope, &entity.UpdateProfileRequest{
		BusinessName:     &req.BusinessName,
		GoogleReviewLink: &req.GoogleReviewURL,
	})
	if err != nil {
		return nil, err
	}

	link, err := s.CreateLink(ctx, scope, &entity.CreateLinkRequest{
		Name:            req.LinkName,
		GoogleReviewURL: req.GoogleReviewURL,
	})
	if err != nil {
		return nil, err
	}

	if err := s.profileRepo.SetOnboardingCompleted(ctx, scope.EffectiveUserID()); err != nil {
		return nil, fmt.Errorf("failed to complete onboarding: %w", err)
	}
	profile.OnboardingCompleted = true

	return &entity.OnboardingResponse{Profile: profile, Link: link}, nil
}

// CreateDiscount создает промокод пользователя
func (s *DashboardService) CreateDiscount(ctx context.Context, scope entity.Scope, req *entity.CreateDiscountRequest) (*entity.DiscountCode, error) {
	code := &entity.DiscountCode{
		ID:        uuid.New(),
		UserID:    scope.EffectiveUserID(),
		Code:      req.Code,
		Message:   req.Message,
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	if err := s.discountRepo.Create(ctx, code); err != nil {
		return nil, fmt.Errorf("failed to create discount code: %w", err)
	}

	return code, nil
}

// ListDiscounts возвращает промокоды пользователя
func (s *DashboardService) ListDiscounts(ctx context.Context, scope entity.Scope) ([]entity.DiscountCode, error) {
	codes, err := s.discountRepo.ListByUser(ctx, scope.EffectiveUserID())
	if err != nil {
		return nil, fmt.Errorf("failed to list discount codes: %w", err)
	}
	return codes, nil
}

// UpdateDiscount обновляет промокод пользователя
func (s *DashboardService) UpdateDiscount(ctx context.Context, scope entity.Scope, id uuid.UUID, req *entity.UpdateDiscountRequest) (*entity.DiscountCode, error) {
	code, err := s.discountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDiscountNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, fmt.Errorf("failed to get discount code: %w", err)
	}

	// Чужой промокод неотличим от несуществующего
	if code.UserID != scope.EffectiveUserID() {
		return nil, ErrDiscountNotFound
	}

	if req.Code != nil {
		code.Code = *req.Code
	}
	if req.Message != nil {
		code.Message = *req.Message
	}
	if req.IsActive != nil {
		code.IsActive = *req.IsActive
	}

	if err := s.discountRepo.Update(ctx, code); err != nil {
		if errors.Is(err, repository.ErrDiscountNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, fmt.Errorf("failed to update discount code: %w", err)
	}

	return code, nil
}

// DeleteDiscount удаляет промокод пользователя
func (s *DashboardService) DeleteDiscount(ctx context.Context, scope entity.Scope, id uuid.UUID) error {
	if err := s.discountRepo.Delete(ctx, id, scope.EffectiveUserID()); err != nil {
		if errors.Is(err, repository.ErrDiscountNotFound) {
			return ErrDiscountNotFound
		}
		return fmt.Errorf("failed to delete discount code: %w", err)
	}
	return nil
}

// ListUsers возвращает всех пользователей со счетчиками (только администратор)
func (s *DashboardService) ListUsers(ctx context.Context, scope entity.Scope) ([]entity.AdminUserRow, error) {
	if !scope.IsAdmin {
		return nil, ErrNotAdmin
	}

	users, err := s.profileRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// StartImpersonation включает для администратора работу от имени пользователя
func (s *DashboardService) StartImpersonation(ctx context.Context, scope entity.Scope, targetUserID uuid.UUID) error {
	if !scope.IsAdmin {
		return ErrNotAdmin
	}

	if _, err := s.profileRepo.GetByUserID(ctx, targetUserID); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return ErrImpersonationTarget
		}
		return fmt.Errorf("failed to verify impersonation target: %w", err)
	}

	if err := s.cache.SetImpersonation(ctx, scope.UserID, targetUserID); err != nil {
		return fmt.Errorf("failed to start impersonation: %w", err)
	}

	metrics.ImpersonationActive.Inc()
	logger.Info().
		Str("admin_id", scope.UserID.String()).
		Str("target_user_id", targetUserID.String()).
		Msg("Admin impersonation started")

	return nil
}

// StopImpersonation завершает имперсонацию администратора
func (s *DashboardService) StopImpersonation(ctx context.Context, scope entity.Scope) error {
	if !scope.IsAdmin {
		return ErrNotAdmin
	}

	cleared, err := s.cache.ClearImpersonation(ctx, scope.UserID)
	if err != nil {
		return fmt.Errorf("failed to stop impersonation: %w", err)
	}

	// Повторный вызов без активной записи не должен уводить датчик в минус
	if cleared {
		metrics.ImpersonationActive.Dec()
		logger.Info().
			Str("admin_id", scope.UserID.String()).
			Msg("Admin impersonation stopped")
	}

	return nil
}

// GetImpersonationStatus возвращает текущее состояние имперсонации
func (s *DashboardService) GetImpersonationStatus(ctx context.Context, scope entity.Scope) (*entity.ImpersonationStatus, error) {
	if !scope.IsAdmin {
		return nil, ErrNotAdmin
	}

	targetID, err := s.cache.GetImpersonation(ctx, scope.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get impersonation: %w", err)
	}

	if targetID == nil {
		return &entity.ImpersonationStatus{Active: false}, nil
	}

	status := &entity.ImpersonationStatus{Active: true, UserID: targetID}
	if profile, err := s.profileRepo.GetByUserID(ctx, *targetID); err == nil {
		status.UserEmail = profile.Email
		status.BusinessName = profile.BusinessName
	}

	return status, nil
}

func (s *DashboardService) getOwnedLink(ctx context.Context, scope entity.Scope, linkID uuid.UUID) (*entity.ReviewLink, error) {
	link, err := s.linkRepo.GetByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get review link: %w", err)
	}

	// Чужая ссылка неотличима от несуществующей
	if link.UserID != scope.EffectiveUserID() {
		return nil, ErrLinkNotFound
	}

	return link, nil
}

func (s *DashboardService) toLinkResponse(link *entity.ReviewLink, ratingCount int64) *entity.LinkResponse {
	return &entity.LinkResponse{
		ID:              link.ID,
		Name:            link.Name,
		LinkCode:        link.LinkCode,
		PublicURL:       s.publicBaseURL + "/rate/" + link.LinkCode,
		GoogleReviewURL: link.GoogleReviewURL,
		Status:          link.Status,
		RatingCount:     ratingCount,
		CreatedAt:       link.CreatedAt,
	}
}

// generateLinkCode генерирует публичный код ссылки
func generateLinkCode() (string, error) {
	buf := make([]byte, linkCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	for i := range buf {
		buf[i] = linkCodeCharset[int(buf[i])%len(linkCodeCharset)]
	}

	return string(buf), nil
}
