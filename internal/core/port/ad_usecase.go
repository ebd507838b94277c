package port

import (
	"context"

	"github.com/google/uuid"

	"repuestos-ads/internal/core/domain"
)

// AdUseCase is the primary port into the engine: the serving pipeline, the
// tracking recorder entry points and the admin operations that own the
// campaign lifecycle.
type AdUseCase interface {
	// RequestAd runs the selection pipeline for one slot request and, when
	// a winner exists, records the impression. A result with a nil AdID is
	// the valid "no ad eligible" outcome, never an error.
	RequestAd(ctx context.Context, req domain.SlotRequest) (*SelectionResult, error)

	// RegisterClick records a click for a serve token and returns the
	// navigation URL for the redirect. Accepted is false when the click
	// budget was already exhausted or the click is a duplicate; the
	// redirect still happens, the event is just not billed. An unknown
	// token yields ErrOrphanClick.
	RegisterClick(ctx context.Context, token string) (navigationURL string, accepted bool, err error)

	// RegisterConversion attributes revenue (cents) to a serve token.
	RegisterConversion(ctx context.Context, token string, revenue int64) error

	// GetStats aggregates tracking events over a period.
	GetStats(ctx context.Context, req StatsReq) (*StatsResp, error)

	// Admin operations. Updates are rejected while the ad is active and
	// status changes must follow the lifecycle table.
	CreateAd(ctx context.Context, ad *domain.Advertisement) error
	UpdateAd(ctx context.Context, ad *domain.Advertisement) error
	DeleteAd(ctx context.Context, id uuid.UUID) error
	GetAd(ctx context.Context, id uuid.UUID) (*AdDetails, error)
	ListAds(ctx context.Context) ([]domain.Advertisement, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status domain.Status) error
}

// SelectionResult is the outcome of one slot request. AdID is nil when no
// advertisement was eligible; callers render nothing in that case.
type SelectionResult struct {
	AdID     *uuid.UUID       `json:"adId"`
	Creative *domain.Creative `json:"creative,omitempty"`
	Token    string           `json:"token,omitempty"`
	ClickURL string           `json:"clickUrl,omitempty"`
}

// AdDetails is the admin read model: configuration plus the live tracking
// view derived from the counters.
type AdDetails struct {
	Ad       domain.Advertisement `json:"advertisement"`
	Tracking domain.Tracking      `json:"tracking"`
}
