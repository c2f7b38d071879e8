package entity

import (
	"time"

	"github.com/google/uuid"
)

// Типы событий оценок, приходящих из Kafka
const (
	EventTypeRatingCreated = "RATING_CREATED"
)

// RatingEvent представляет событие оценки из топика rating_events
// Формат совпадает с событием, которое публикует Rating Service
type RatingEvent struct {
	EventType          string    `json:"event_type"`
	RatingID           uuid.UUID `json:"rating_id"`
	ReviewLinkID       uuid.UUID `json:"review_link_id"`
	LinkOwnerID        uuid.UUID `json:"link_owner_id"`
	Rating             int       `json:"rating"`
	RedirectedToGoogle bool      `json:"redirected_to_google"`
	Timestamp          time.Time `json:"timestamp"`
}

// LinkRatingCount - количество оценок по одной ссылке, результат сверки по PostgreSQL
type LinkRatingCount struct {
	ReviewLinkID uuid.UUID `gorm:"column:review_link_id"`
	Count        int64     `gorm:"column:count"`
}
