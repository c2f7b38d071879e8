package entity

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewLink представляет публичную ссылку для сбора оценок
type ReviewLink struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	LinkCode        string     `json:"link_code" gorm:"type:varchar(32);uniqueIndex;not null"` // Публичный код ссылки (часть URL /rate/{code})
	UserID          uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`                // Владелец ссылки из Auth Service
	Name            string     `json:"name" gorm:"type:varchar(255);not null"`
	GoogleReviewURL string     `json:"google_review_url" gorm:"type:text;not null"` // Внешний URL страницы Google отзывов
	Status          LinkStatus `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName указывает имя таблицы для GORM
func (ReviewLink) TableName() string {
	return "review_links"
}

// LinkStatus представляет статус ссылки
type LinkStatus string

const (
	LinkStatusActive   LinkStatus = "active"
	LinkStatusInactive LinkStatus = "inactive"
)

// Rating представляет оценку, оставленную клиентом
type Rating struct {
	ID                  uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ReviewLinkID        uuid.UUID `json:"review_link_id" gorm:"type:uuid;not null;index"`
	Rating              int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"` // Оценка от 1 до 5
	RedirectedToGoogle  bool      `json:"redirected_to_google" gorm:"not null"`                     // Вычисляется один раз при создании: rating >= 4
	CustomerName        string    `json:"customer_name,omitempty" gorm:"type:varchar(255)"`         // Заполняется позже формой обратной связи
	CustomerEmail       string    `json:"customer_email,omitempty" gorm:"type:varchar(255)"`
	CreatedAt           time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName указывает имя таблицы для GORM
func (Rating) TableName() string {
	return "ratings"
}

// Feedback представляет приватный отзыв (оценка <= 3), хранится в MongoDB
type Feedback struct {
	ID                     primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RatingID               string             `json:"rating_id" bson:"rating_id"` // UUID оценки из PostgreSQL
	FeedbackText           string             `json:"feedback_text" bson:"feedback_text"`
	ImprovementSuggestions string             `json:"improvement_suggestions,omitempty" bson:"improvement_suggestions,omitempty"`
	WouldRecommend         *bool              `json:"would_recommend,omitempty" bson:"would_recommend,omitempty"` // nil = не ответил
	CreatedAt              time.Time          `json:"created_at" bson:"created_at"`
}

// Profile представляет профиль владельца (читается только для логотипа)
type Profile struct {
	UserID  uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey"`
	LogoURL string    `json:"logo_url,omitempty" gorm:"type:text"`
}

// TableName указывает имя таблицы для GORM
func (Profile) TableName() string {
	return "profiles"
}

// DiscountCode представляет промокод для страницы благодарности
type DiscountCode struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null"`
	Code      string    `json:"code" gorm:"type:varchar(64);not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName указывает имя таблицы для GORM
func (DiscountCode) TableName() string {
	return "discount_codes"
}

// RatingEvent представляет событие RATING_CREATED для Kafka
type RatingEvent struct {
	EventType          string    `json:"event_type"` // RATING_CREATED
	RatingID           uuid.UUID `json:"rating_id"`
	ReviewLinkID       uuid.UUID `json:"review_link_id"`
	LinkOwnerID        uuid.UUID `json:"link_owner_id"`
	Rating             int       `json:"rating"`
	RedirectedToGoogle bool      `json:"redirected_to_google"`
	Timestamp          time.Time `json:"timestamp"`
}
