package domain

import (
	"time"

	"github.com/google/uuid"
)

// Impression is a record of an ad being served into a slot. The token ties
// later click and conversion events back to this serve.
type Impression struct {
	ID          int64
	Token       string
	AdID        uuid.UUID
	UserID      string
	DisplayType DisplayType
	CreatedAt   time.Time
}

// Click is a record of a click event. Every click references the
// impression it came from; a click without one is an integrity violation
// and is rejected, never silently recorded.
type Click struct {
	ID           int64
	Token        string
	ImpressionID int64
	AdID         uuid.UUID
	UserID       string
	CreatedAt    time.Time
}

// Conversion is a record of a purchase or signup attributed to an
// impression. Revenue is in cents.
type Conversion struct {
	ID           int64
	ImpressionID int64
	AdID         uuid.UUID
	UserID       string
	Revenue      int64
	CreatedAt    time.Time
}
