package entity

import "github.com/google/uuid"

// SubmitRatingRequest - запрос на отправку оценки
type SubmitRatingRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

// SubmitRatingResponse - решение о маршрутизации после сохранения оценки.
// При redirected_to_google=true клиент переходит на redirect_url после
// redirect_delay_ms; иначе открывает форму обратной связи с rating_id.
type SubmitRatingResponse struct {
	RatingID           uuid.UUID `json:"rating_id"`
	Rating             int       `json:"rating"`
	RedirectedToGoogle bool      `json:"redirected_to_google"`
	RedirectURL        string    `json:"redirect_url,omitempty"`
	RedirectDelayMs    int       `json:"redirect_delay_ms"`
}

// LinkInfoResponse - данные активной ссылки для страницы оценки
type LinkInfoResponse struct {
	LinkID  uuid.UUID `json:"link_id"`
	Name    string    `json:"name"`
	LogoURL string    `json:"logo_url,omitempty"`
}

// FeedbackContextResponse - данные бизнеса для формы обратной связи
type FeedbackContextResponse struct {
	BusinessName string `json:"business_name"`
	LogoURL      string `json:"logo_url,omitempty"`
}

// SubmitFeedbackRequest - запрос на отправку приватного отзыва
type SubmitFeedbackRequest struct {
	RatingID               uuid.UUID `json:"rating_id" validate:"required"`
	FeedbackText           string    `json:"feedback_text" validate:"required"`
	CustomerName           string    `json:"customer_name,omitempty"`
	CustomerEmail          string    `json:"customer_email,omitempty" validate:"omitempty,email"`
	ImprovementSuggestions string    `json:"improvement_suggestions,omitempty"`
	WouldRecommend         *bool     `json:"would_recommend,omitempty"`
}

// SubmitFeedbackResponse - подтверждение с подсказкой перехода на /thank-you
type SubmitFeedbackResponse struct {
	Message         string `json:"message"`
	RedirectPath    string `json:"redirect_path"`
	RedirectDelayMs int    `json:"redirect_delay_ms"`
}

// DiscountResponse - промокод для страницы благодарности
type DiscountResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
