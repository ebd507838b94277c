package port

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"repuestos-ads/internal/core/domain"
)

var (
	// ErrNotFound is returned when an advertisement, impression or other
	// record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAdActive is returned when an update targets an active ad. Active
	// ads must be paused before editing so the serving path never races a
	// concurrent configuration change.
	ErrAdActive = errors.New("advertisement is active, pause it before editing")
	// ErrInvalidTransition is returned when a status change is not allowed
	// by the lifecycle table.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrOrphanClick is returned for a click whose token has no matching
	// impression. These are data-integrity violations and are rejected.
	ErrOrphanClick = errors.New("click without matching impression")
)

// AdRepository is the outbound persistence port of the engine. The counter
// mutations must be conditional atomic increments: the cap is re-checked at
// write time so concurrent events racing past a near-exhausted budget can
// never overshoot it. Implementations must be safe for concurrent use.
type AdRepository interface {
	// ListServable returns a snapshot of all ads with status active and the
	// operator switch on, each paired with its current counters. The
	// serving path may compute against a slightly stale snapshot; the
	// recorder re-validates budgets at write time.
	ListServable(ctx context.Context) ([]domain.Candidate, error)

	// RecordImpression stores the impression and increments the ad's
	// impression counter, but only while both the impression and click
	// budgets still have headroom. It returns false, without recording
	// anything, when a budget was exhausted between selection and write.
	RecordImpression(ctx context.Context, imp *domain.Impression, set domain.DisplaySettings) (bool, error)

	// RecordClick stores the click and increments the click counter while
	// the click budget holds. A second click on the same impression is a
	// no-op returning false. Returns false when the budget is exhausted.
	RecordClick(ctx context.Context, click *domain.Click, set domain.DisplaySettings) (bool, error)

	// RecordConversion stores the conversion and adds its revenue to the
	// counters. Conversions are not capped.
	RecordConversion(ctx context.Context, conv *domain.Conversion) error

	// FindImpressionByToken returns the impression for a serve token, or
	// ErrNotFound.
	FindImpressionByToken(ctx context.Context, token string) (*domain.Impression, error)

	// GetStats aggregates events recorded in a period.
	GetStats(ctx context.Context, req StatsReq) (*StatsResp, error)

	// Admin CRUD. The engine only reads ads; these exist for the admin
	// boundary, which owns the lifecycle.
	CreateAd(ctx context.Context, ad *domain.Advertisement) error
	UpdateAd(ctx context.Context, ad *domain.Advertisement) error
	DeleteAd(ctx context.Context, id uuid.UUID) error
	GetAd(ctx context.Context, id uuid.UUID) (*domain.Advertisement, error)
	GetCounters(ctx context.Context, id uuid.UUID) (domain.Counters, error)
	ListAds(ctx context.Context) ([]domain.Advertisement, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.Status) error
}

// FrequencyStore tracks how many times each user has been served each ad
// within the capping window (one calendar day in the reference timezone).
type FrequencyStore interface {
	// Counts returns the user's serve counts for the given ads in the
	// current window. Missing entries mean zero.
	Counts(ctx context.Context, userID string, adIDs []uuid.UUID) (map[uuid.UUID]int, error)
	// Increment bumps the user's serve count for an ad after an accepted
	// impression.
	Increment(ctx context.Context, userID string, adID uuid.UUID) error
}

// StatsReq selects the aggregation period and optionally narrows to one ad.
type StatsReq struct {
	From time.Time
	To   time.Time
	AdID *uuid.UUID
}

// StatsResp carries the aggregated counters for the period with the
// derived rates recomputed from them.
type StatsResp struct {
	From     time.Time       `json:"from"`
	To       time.Time       `json:"to"`
	Tracking domain.Tracking `json:"tracking"`
}
