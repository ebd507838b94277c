package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"repuestos-ads/internal/core/domain"
	"repuestos-ads/internal/core/port"
	"repuestos-ads/internal/metrics"
)

// AdUseCase implements port.AdUseCase. It runs the selection pipeline over
// a snapshot of campaign state, delegates all counter writes to the
// repository's conditional increments and owns the admin policy checks.
type AdUseCase struct {
	repo    port.AdRepository
	freq    port.FrequencyStore
	snap    *snapshot
	metrics *metrics.Engine
	loc     *time.Location
	logger  *slog.Logger
}

// NewAdUseCase wires the usecase. loc is the engine's reference timezone
// for all schedule math; snapshotTTL bounds how stale the candidate
// snapshot may get (zero reads through on every request).
func NewAdUseCase(
	repo port.AdRepository,
	freq port.FrequencyStore,
	m *metrics.Engine,
	loc *time.Location,
	snapshotTTL time.Duration,
	logger *slog.Logger,
) *AdUseCase {
	u := &AdUseCase{
		repo:    repo,
		freq:    freq,
		metrics: m,
		loc:     loc,
		logger:  logger,
	}
	u.snap = newSnapshot(repo.ListServable, snapshotTTL)
	return u
}

// RequestAd runs the pipeline: eligibility, schedule, budget, rank, then
// the conditional impression write. When the write refuses a winner
// (budget exhausted between selection and write) the next ranked candidate
// is tried, so a late-exhaustion race degrades to the runner-up instead of
// a broken slot. A nil AdID in the result means no ad was eligible.
func (u *AdUseCase) RequestAd(ctx context.Context, req domain.SlotRequest) (*port.SelectionResult, error) {
	at := req.Timestamp
	if at.IsZero() {
		at = time.Now()
	}

	cands, err := u.snap.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	cands = domain.FilterEligible(cands, req)
	cands = domain.FilterScheduled(cands, at, u.loc)

	counts, err := u.frequencyCounts(ctx, req, cands)
	if err != nil {
		// Serving without frequency data beats serving nothing; the caps
		// are re-applied as soon as the store recovers.
		u.logger.Warn("frequency lookup failed, skipping cap", slog.Any("error", err))
		counts = map[uuid.UUID]int{}
	}
	cands = domain.FilterBudget(cands, counts)

	for _, c := range domain.Rank(cands) {
		imp := &domain.Impression{
			Token:       uuid.NewString(),
			AdID:        c.Ad.ID,
			UserID:      req.UserID,
			DisplayType: req.DisplayType,
		}
		accepted, err := u.repo.RecordImpression(ctx, imp, c.Ad.Display)
		if err != nil {
			return nil, fmt.Errorf("record impression: %w", err)
		}
		if !accepted {
			u.metrics.ImpressionsRejected.Inc()
			u.logger.Debug("impression refused, budget just exhausted",
				slog.String("ad_id", c.Ad.ID.String()))
			continue
		}
		u.metrics.ImpressionsAccepted.Inc()
		u.metrics.SelectionsServed.Inc()

		if req.UserID != "" {
			if err := u.freq.Increment(ctx, req.UserID, c.Ad.ID); err != nil {
				u.logger.Warn("frequency increment failed", slog.Any("error", err))
			}
		}

		adID := c.Ad.ID
		creative := c.Ad.Creative
		return &port.SelectionResult{
			AdID:     &adID,
			Creative: &creative,
			Token:    imp.Token,
			ClickURL: "/api/v1/ad/click/" + imp.Token,
		}, nil
	}

	u.metrics.SelectionsNoFill.Inc()
	return &port.SelectionResult{}, nil
}

// frequencyCounts resolves per-ad serve counts for the requesting user.
// A count supplied on the request wins; otherwise the frequency store is
// consulted. Anonymous requests are uncapped.
func (u *AdUseCase) frequencyCounts(ctx context.Context, req domain.SlotRequest, cands []domain.Candidate) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(cands))
	if req.UserFrequencyCount != nil {
		for _, c := range cands {
			counts[c.Ad.ID] = *req.UserFrequencyCount
		}
		return counts, nil
	}
	if req.UserID == "" || len(cands) == 0 {
		return counts, nil
	}
	ids := make([]uuid.UUID, len(cands))
	for i, c := range cands {
		ids[i] = c.Ad.ID
	}
	return u.freq.Counts(ctx, req.UserID, ids)
}

// RegisterClick records a click for a serve token. The navigation URL is
// returned even when the click is not accepted: the user already saw the
// ad and breaking their navigation would punish the wrong party. Orphan
// clicks (no matching impression) surface as port.ErrOrphanClick.
func (u *AdUseCase) RegisterClick(ctx context.Context, token string) (string, bool, error) {
	imp, err := u.repo.FindImpressionByToken(ctx, token)
	if errors.Is(err, port.ErrNotFound) {
		u.metrics.OrphanClicks.Inc()
		u.logger.Error("orphan click rejected", slog.String("token", token))
		return "", false, port.ErrOrphanClick
	}
	if err != nil {
		return "", false, err
	}

	ad, err := u.repo.GetAd(ctx, imp.AdID)
	if err != nil {
		return "", false, err
	}

	click := &domain.Click{
		Token:        uuid.NewString(),
		ImpressionID: imp.ID,
		AdID:         imp.AdID,
		UserID:       imp.UserID,
	}
	accepted, err := u.repo.RecordClick(ctx, click, ad.Display)
	if err != nil {
		return "", false, err
	}
	if accepted {
		u.metrics.ClicksAccepted.Inc()
	} else {
		u.metrics.ClicksRejected.Inc()
	}
	return ad.Creative.NavigationURL, accepted, nil
}

// RegisterConversion attributes revenue to a serve token. Conversions are
// uncapped; they only feed the tracking counters.
func (u *AdUseCase) RegisterConversion(ctx context.Context, token string, revenue int64) error {
	imp, err := u.repo.FindImpressionByToken(ctx, token)
	if errors.Is(err, port.ErrNotFound) {
		return port.ErrOrphanClick
	}
	if err != nil {
		return err
	}
	conv := &domain.Conversion{
		ImpressionID: imp.ID,
		AdID:         imp.AdID,
		UserID:       imp.UserID,
		Revenue:      revenue,
	}
	if err := u.repo.RecordConversion(ctx, conv); err != nil {
		return err
	}
	u.metrics.Conversions.Inc()
	return nil
}

// GetStats aggregates tracking events over a period.
func (u *AdUseCase) GetStats(ctx context.Context, req port.StatsReq) (*port.StatsResp, error) {
	return u.repo.GetStats(ctx, req)
}

// CreateAd validates and stores a new advertisement. New ads always enter
// the lifecycle as drafts.
func (u *AdUseCase) CreateAd(ctx context.Context, ad *domain.Advertisement) error {
	if ad.ID == uuid.Nil {
		ad.ID = uuid.New()
	}
	ad.Status = domain.StatusDraft
	if err := ad.Validate(); err != nil {
		return err
	}
	return u.repo.CreateAd(ctx, ad)
}

// UpdateAd validates and stores configuration changes. Active ads are
// rejected: pausing first closes the race window between the editor and
// concurrent serving decisions.
func (u *AdUseCase) UpdateAd(ctx context.Context, ad *domain.Advertisement) error {
	existing, err := u.repo.GetAd(ctx, ad.ID)
	if err != nil {
		return err
	}
	if existing.Status == domain.StatusActive {
		return port.ErrAdActive
	}
	ad.Status = existing.Status
	if err := ad.Validate(); err != nil {
		return err
	}
	if err := u.repo.UpdateAd(ctx, ad); err != nil {
		return err
	}
	u.snap.Invalidate()
	return nil
}

// DeleteAd removes an advertisement and its counters and events.
func (u *AdUseCase) DeleteAd(ctx context.Context, id uuid.UUID) error {
	if err := u.repo.DeleteAd(ctx, id); err != nil {
		return err
	}
	u.snap.Invalidate()
	return nil
}

// GetAd returns the configuration plus the live tracking view.
func (u *AdUseCase) GetAd(ctx context.Context, id uuid.UUID) (*port.AdDetails, error) {
	ad, err := u.repo.GetAd(ctx, id)
	if err != nil {
		return nil, err
	}
	counters, err := u.repo.GetCounters(ctx, id)
	if err != nil {
		return nil, err
	}
	return &port.AdDetails{Ad: *ad, Tracking: domain.TrackingFrom(counters)}, nil
}

// ListAds returns all advertisements.
func (u *AdUseCase) ListAds(ctx context.Context) ([]domain.Advertisement, error) {
	return u.repo.ListAds(ctx)
}

// ChangeStatus moves an ad through its lifecycle, enforcing the
// transition table.
func (u *AdUseCase) ChangeStatus(ctx context.Context, id uuid.UUID, status domain.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", port.ErrInvalidTransition, status)
	}
	existing, err := u.repo.GetAd(ctx, id)
	if err != nil {
		return err
	}
	if !existing.Status.CanTransition(status) {
		return fmt.Errorf("%w: %s -> %s", port.ErrInvalidTransition, existing.Status, status)
	}
	if err := u.repo.SetStatus(ctx, id, status); err != nil {
		return err
	}
	u.snap.Invalidate()
	return nil
}
