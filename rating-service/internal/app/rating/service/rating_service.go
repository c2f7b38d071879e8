package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"revulink/pkg/logger"
	"revulink/pkg/metrics"
	"revulink/rating-service/internal/app/rating/entity"
	"revulink/rating-service/internal/app/rating/infrastructure"
	"revulink/rating-service/internal/app/rating/repository"

	"github.com/google/uuid"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrLinkNotFound   = errors.New("review link not found")
	ErrRatingNotFound = errors.New("rating not found")
	ErrInvalidRating  = errors.New("rating must be an integer between 1 and 5")
	ErrEmptyFeedback  = errors.New("feedback text is required")
)

const (
	// Порог маршрутизации: оценки >= redirectThreshold уходят на Google,
	// остальные на форму обратной связи
	redirectThreshold = 4

	// Задержки перед переходом, чтобы клиент успел увидеть подтверждение
	googleRedirectDelayMs   = 1000
	thankYouRedirectDelayMs = 2000
)

// RatingService обрабатывает публичный поток клиента:
// оценка -> маршрутизация -> приватный отзыв -> страница благодарности
type RatingService struct {
	linkRepo      repository.ReviewLinkRepository
	ratingRepo    repository.RatingRepository
	feedbackRepo  repository.FeedbackRepository
	profileRepo   repository.ProfileRepository
	discountRepo  repository.DiscountRepository
	kafkaProducer infrastructure.MessagePublisher
}

// NewRatingService создает новый сервис с внедрением зависимостей
func NewRatingService(
	linkRepo repository.ReviewLinkRepository,
	ratingRepo repository.RatingRepository,
	feedbackRepo repository.FeedbackRepository,
	profileRepo repository.ProfileRepository,
	discountRepo repository.DiscountRepository,
	kafkaProducer infrastructure.MessagePublisher,
) *RatingService {
	return &RatingService{
		linkRepo:      linkRepo,
		ratingRepo:    ratingRepo,
		feedbackRepo:  feedbackRepo,
		profileRepo:   profileRepo,
		discountRepo:  discountRepo,
		kafkaProducer: kafkaProducer,
	}
}

// GetLinkInfo возвращает данные активной ссылки для страницы оценки.
// Логотип владельца подгружается best-effort: его отсутствие не ломает страницу.
func (s *RatingService) GetLinkInfo(ctx context.Context, linkCode string) (*entity.LinkInfoResponse, error) {
	link, err := s.linkRepo.GetActiveByCode(ctx, linkCode)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get review link: %w", err)
	}

	info := &entity.LinkInfoResponse{
		LinkID: link.ID,
		Name:   link.Name,
	}

	if profile, err := s.profileRepo.GetByUserID(ctx, link.UserID); err == nil {
		info.LogoURL = profile.LogoURL
	}

	return info, nil
}

// SubmitRating сохраняет оценку и принимает решение о маршрутизации.
// 1. Оценка вне диапазона 1..5 отклоняется, ничего не сохраняется
// 2. redirected_to_google вычисляется ровно один раз при создании
// 3. Событие RATING_CREATED отправляется в Kafka (ошибка не прерывает поток)
func (s *RatingService) SubmitRating(ctx context.Context, linkCode string, stars int) (*entity.SubmitRatingResponse, error) {
	if stars < 1 || stars > 5 {
		return nil, ErrInvalidRating
	}

	link, err := s.linkRepo.GetActiveByCode(ctx, linkCode)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get review link: %w", err)
	}

	redirected := stars >= redirectThreshold

	rating := &entity.Rating{
		ID:                 uuid.New(),
		ReviewLinkID:       link.ID,
		Rating:             stars,
		RedirectedToGoogle: redirected,
		CreatedAt:          time.Now(),
	}

	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, fmt.Errorf("failed to create rating: %w", err)
	}

	metrics.RecordRatingSubmitted(stars, redirected)

	event := entity.RatingEvent{
		EventType:          "RATING_CREATED",
		RatingID:           rating.ID,
		ReviewLinkID:       link.ID,
		LinkOwnerID:        link.UserID,
		Rating:             stars,
		RedirectedToGoogle: redirected,
		Timestamp:          time.Now(),
	}

	if err := s.publishRatingEvent(ctx, event); err != nil {
		// Оценка уже сохранена, проблемы с Kafka не критичны
		logger.Warn().Err(err).Str("rating_id", rating.ID.String()).Msg("Failed to publish rating created event")
	}

	resp := &entity.SubmitRatingResponse{
		RatingID:           rating.ID,
		Rating:             stars,
		RedirectedToGoogle: redirected,
	}

	if redirected {
		// URL отдается как есть, без валидации и перезаписи
		resp.RedirectURL = link.GoogleReviewURL
		resp.RedirectDelayMs = googleRedirectDelayMs
	}

	return resp, nil
}

// GetFeedbackContext возвращает имя бизнеса и логотип для формы обратной связи
func (s *RatingService) GetFeedbackContext(ctx context.Context, ratingID uuid.UUID) (*entity.FeedbackContextResponse, error) {
	rating, err := s.ratingRepo.GetByID(ctx, ratingID)
	if err != nil {
		if errors.Is(err, repository.ErrRatingNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}

	link, err := s.linkRepo.GetByID(ctx, rating.ReviewLinkID)
	if err != nil {
		return nil, fmt.Errorf("failed to get review link: %w", err)
	}

	resp := &entity.FeedbackContextResponse{
		BusinessName: link.Name,
	}

	if profile, err := s.profileRepo.GetByUserID(ctx, link.UserID); err == nil {
		resp.LogoURL = profile.LogoURL
	}

	return resp, nil
}

// SubmitFeedback сохраняет приватный отзыв, привязанный к оценке.
// Порядок записей: сначала best-effort дозаполнение контактов на оценке,
// затем вставка отзыва. Неудача дозаполнения логируется, но не блокирует
// вставку отзыва: текст отзыва важнее контактов.
func (s *RatingService) SubmitFeedback(ctx context.Context, req *entity.SubmitFeedbackRequest) (*entity.SubmitFeedbackResponse, error) {
	if strings.TrimSpace(req.FeedbackText) == "" {
		return nil, ErrEmptyFeedback
	}

	// Проверяем существование оценки до любой записи
	if _, err := s.ratingRepo.GetByID(ctx, req.RatingID); err != nil {
		if errors.Is(err, repository.ErrRatingNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}

	if req.CustomerName != "" || req.CustomerEmail != "" {
		if err := s.ratingRepo.UpdateCustomerContact(ctx, req.RatingID, req.CustomerName, req.CustomerEmail); err != nil {
			logger.Warn().Err(err).Str("rating_id", req.RatingID.String()).Msg("Failed to backfill customer contact on rating")
		}
	}

	feedback := &entity.Feedback{
		RatingID:               req.RatingID.String(),
		FeedbackText:           req.FeedbackText,
		ImprovementSuggestions: req.ImprovementSuggestions,
		WouldRecommend:         req.WouldRecommend,
	}

	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	metrics.FeedbackSubmitted.Inc()

	return &entity.SubmitFeedbackResponse{
		Message:         "Thank you for your feedback",
		RedirectPath:    "/thank-you",
		RedirectDelayMs: thankYouRedirectDelayMs,
	}, nil
}

// GetActiveDiscount возвращает промокод для страницы благодарности.
// Отсутствие промокода не является ошибкой потока.
func (s *RatingService) GetActiveDiscount(ctx context.Context) (*entity.DiscountCode, error) {
	code, err := s.discountRepo.GetAnyActive(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNoActiveDiscount) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get discount code: %w", err)
	}

	metrics.DiscountCodesServed.Inc()

	return code, nil
}

// publishRatingEvent отправляет событие об оценке в Kafka
func (s *RatingService) publishRatingEvent(ctx context.Context, event entity.RatingEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal rating event: %w", err)
	}

	// Ключ = ReviewLinkID для партиционирования событий одной ссылки
	if err := s.kafkaProducer.PublishMessage(ctx, event.ReviewLinkID.String(), eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
