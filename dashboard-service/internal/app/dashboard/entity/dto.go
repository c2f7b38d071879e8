package entity

import (
	"time"

	"github.com/google/uuid"
)

// CreateLinkRequest - запрос на создание ссылки
type CreateLinkRequest struct {
	Name            string `json:"name" validate:"required,max=255"`
	GoogleReviewURL string `json:"google_review_url" validate:"required,url"`
}

// UpdateLinkRequest - запрос на обновление ссылки (частичный)
type UpdateLinkRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,max=255"`
	GoogleReviewURL *string `json:"google_review_url,omitempty" validate:"omitempty,url"`
	Status          *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// LinkResponse - ссылка с публичным URL и числом собранных оценок
type LinkResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	LinkCode        string     `json:"link_code"`
	PublicURL       string     `json:"public_url"`
	GoogleReviewURL string     `json:"google_review_url"`
	Status          LinkStatus `json:"status"`
	RatingCount     int64      `json:"rating_count"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ReviewsQuery - фильтры списка отзывов
type ReviewsQuery struct {
	Range  string `form:"range"`  // 7d | 30d | 90d | 1y
	Filter string `form:"filter"` // all | high | low | 1..5
	Search string `form:"search"` // подстрока по имени/email клиента и имени ссылки
	Sort   string `form:"sort"`   // newest | oldest | highest | lowest
}

// ReviewListResponse - список отзывов с общим количеством
type ReviewListResponse struct {
	Reviews []ReviewRow `json:"reviews"`
	Total   int         `json:"total"`
}

// AdminReviewRow - строка админского списка отзывов с данными владельца ссылки
type AdminReviewRow struct {
	ReviewRow
	OwnerName  string `json:"owner_name,omitempty"`
	OwnerEmail string `json:"owner_email,omitempty"`
}

// AdminReviewListResponse - отзывы всех пользователей для админки
type AdminReviewListResponse struct {
	Reviews []AdminReviewRow `json:"reviews"`
	Total   int              `json:"total"`
}

// LogoRequest - установка логотипа профиля (ссылка на внешнее хранилище)
type LogoRequest struct {
	LogoURL string `json:"logo_url" validate:"required,url"`
}

// SeriesPoint - точка временного ряда аналитики
type SeriesPoint struct {
	Period string  `json:"period"` // YYYY-MM-DD для дней и недель, YYYY-MM для месяцев
	Mean   float64 `json:"mean"`
	Count  int     `json:"count"`
}

// AnalyticsData - агрегаты по оценкам за выбранное окно.
// Ряды по дням, неделям и месяцам строятся одновременно для любого окна.
type AnalyticsData struct {
	Range           string        `json:"range"`
	TotalRatings    int           `json:"total_ratings"`
	MeanRating      float64       `json:"mean_rating"`
	GoogleRedirects int           `json:"google_redirects"`
	Histogram       map[int]int   `json:"histogram"` // всегда 5 ключей, 1..5
	Daily           []SeriesPoint `json:"daily"`
	Weekly          []SeriesPoint `json:"weekly"` // недели привязаны к воскресенью
	Monthly         []SeriesPoint `json:"monthly"`
}

// CreateDiscountRequest - запрос на создание промокода
type CreateDiscountRequest struct {
	Code    string `json:"code" validate:"required,max=64"`
	Message string `json:"message" validate:"required"`
}

// UpdateDiscountRequest - запрос на обновление промокода
type UpdateDiscountRequest struct {
	Code     *string `json:"code,omitempty" validate:"omitempty,max=64"`
	Message  *string `json:"message,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// UpdateProfileRequest - запрос на обновление профиля
type UpdateProfileRequest struct {
	FullName         *string `json:"full_name,omitempty" validate:"omitempty,max=255"`
	BusinessName     *string `json:"business_name,omitempty" validate:"omitempty,max=255"`
	GoogleReviewLink *string `json:"google_review_link,omitempty" validate:"omitempty,url"`
	LogoURL          *string `json:"logo_url,omitempty" validate:"omitempty,url"`
}

// OnboardingRequest - данные первичной настройки аккаунта
type OnboardingRequest struct {
	BusinessName    string `json:"business_name" validate:"required,max=255"`
	GoogleReviewURL string `json:"google_review_url" validate:"required,url"`
	LinkName        string `json:"link_name" validate:"required,max=255"`
}

// OnboardingResponse - результат онбординга: профиль и первая ссылка
type OnboardingResponse struct {
	Profile *Profile      `json:"profile"`
	Link    *LinkResponse `json:"link"`
}

// ImpersonationRequest - запрос администратора на вход от имени пользователя
type ImpersonationRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// ImpersonationStatus - текущее состояние имперсонации администратора
type ImpersonationStatus struct {
	Active       bool       `json:"active"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	UserEmail    string     `json:"user_email,omitempty"`
	BusinessName string     `json:"business_name,omitempty"`
}

// AdminUserRow - строка списка пользователей для админки
type AdminUserRow struct {
	Profile     Profile `json:"profile"`
	LinkCount   int64   `json:"link_count"`
	RatingCount int64   `json:"rating_count"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
