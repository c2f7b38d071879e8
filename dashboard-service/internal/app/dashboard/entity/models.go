package entity

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile представляет профиль владельца бизнеса
type Profile struct {
	UserID              uuid.UUID `json:"user_id"`
	Email               string    `json:"email"`
	FullName            string    `json:"full_name,omitempty"`
	BusinessName        string    `json:"business_name,omitempty"`
	GoogleReviewLink    string    `json:"google_review_link,omitempty"`
	LogoURL             string    `json:"logo_url,omitempty"`
	IsAdmin             bool      `json:"is_admin"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	CreatedAt           time.Time `json:"created_at"`
}

// LinkStatus представляет статус ссылки
type LinkStatus string

const (
	LinkStatusActive   LinkStatus = "active"
	LinkStatusInactive LinkStatus = "inactive"
)

// ReviewLink представляет ссылку для сбора оценок
type ReviewLink struct {
	ID              uuid.UUID  `json:"id"`
	LinkCode        string     `json:"link_code"`
	UserID          uuid.UUID  `json:"user_id"`
	Name            string     `json:"name"`
	GoogleReviewURL string     `json:"google_review_url"`
	Status          LinkStatus `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Rating представляет оценку клиента
type Rating struct {
	ID                 uuid.UUID `json:"id"`
	ReviewLinkID       uuid.UUID `json:"review_link_id"`
	Rating             int       `json:"rating"`
	RedirectedToGoogle bool      `json:"redirected_to_google"`
	CustomerName       string    `json:"customer_name,omitempty"`
	CustomerEmail      string    `json:"customer_email,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// Feedback представляет приватный отзыв из MongoDB
type Feedback struct {
	ID                     primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RatingID               string             `json:"rating_id" bson:"rating_id"`
	FeedbackText           string             `json:"feedback_text" bson:"feedback_text"`
	ImprovementSuggestions string             `json:"improvement_suggestions,omitempty" bson:"improvement_suggestions,omitempty"`
	WouldRecommend         *bool              `json:"would_recommend,omitempty" bson:"would_recommend,omitempty"`
	CreatedAt              time.Time          `json:"created_at" bson:"created_at"`
}

// DiscountCode представляет промокод для страницы благодарности
type DiscountCode struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewRow - строка списка отзывов: оценка из PostgreSQL,
// текст приватного отзыва (если есть) из MongoDB
type ReviewRow struct {
	Rating   Rating    `json:"rating"`
	LinkName string    `json:"link_name"`
	OwnerID  uuid.UUID `json:"owner_id"`
	Feedback *Feedback `json:"feedback,omitempty"`
}

// Scope определяет, чьи данные видит текущий запрос.
// Для администратора с активной имперсонацией все операции
// выполняются от имени ImpersonatedUserID.
type Scope struct {
	UserID             uuid.UUID
	IsAdmin            bool
	ImpersonatedUserID *uuid.UUID
}

// EffectiveUserID возвращает владельца данных для текущего запроса
func (s Scope) EffectiveUserID() uuid.UUID {
	if s.IsAdmin && s.ImpersonatedUserID != nil {
		return *s.ImpersonatedUserID
	}
	return s.UserID
}
