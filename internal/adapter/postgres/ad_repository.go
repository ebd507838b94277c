package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"repuestos-ads/internal/core/domain"
	"repuestos-ads/internal/core/port"
)

// AdRepository implements port.AdRepository using pgxpool for PostgreSQL.
// Counters live in ad_counters, separate from the advertisements row, and
// every counter write is a conditional increment that re-checks the cap in
// the UPDATE itself, so concurrent events cannot overshoot a budget no
// matter how stale the selecting snapshot was.
type AdRepository struct {
	pool *pgxpool.Pool
}

// NewAdRepository returns a new repository instance.
func NewAdRepository(pool *pgxpool.Pool) *AdRepository {
	return &AdRepository{pool: pool}
}

// errRefused steers the deferred commit into a rollback on the
// refused-write paths. It never leaves this package.
var errRefused = errors.New("write refused")

const adColumns = `
	a.id, a.store_id,
	a.title, a.description, a.content, a.image_url, a.video_url, a.navigation_url,
	a.display_type, a.target_platform, a.audience, a.schedule,
	a.max_impressions, a.max_clicks, a.frequency, a.priority, a.is_active,
	a.status, a.created_at, a.updated_at`

func scanAd(row pgx.Row) (domain.Advertisement, error) {
	var (
		ad          domain.Advertisement
		audienceRaw []byte
		scheduleRaw []byte
	)
	err := row.Scan(
		&ad.ID, &ad.StoreID,
		&ad.Creative.Title, &ad.Creative.Description, &ad.Creative.Content,
		&ad.Creative.ImageURL, &ad.Creative.VideoURL, &ad.Creative.NavigationURL,
		&ad.DisplayType, &ad.TargetPlatform, &audienceRaw, &scheduleRaw,
		&ad.Display.MaxImpressions, &ad.Display.MaxClicks,
		&ad.Display.Frequency, &ad.Display.Priority, &ad.Display.IsActive,
		&ad.Status, &ad.CreatedAt, &ad.UpdatedAt,
	)
	if err != nil {
		return ad, err
	}
	if err = json.Unmarshal(audienceRaw, &ad.Audience); err != nil {
		return ad, fmt.Errorf("decode audience: %w", err)
	}
	if err = json.Unmarshal(scheduleRaw, &ad.Schedule); err != nil {
		return ad, fmt.Errorf("decode schedule: %w", err)
	}
	return ad, nil
}

// ListServable returns every active, switched-on ad joined with its
// current counters. This is the snapshot the selection pipeline runs over.
func (r *AdRepository) ListServable(ctx context.Context) ([]domain.Candidate, error) {
	query := `
        SELECT` + adColumns + `,
            c.impressions, c.clicks, c.conversions, c.revenue
        FROM advertisements a
        JOIN ad_counters c ON c.ad_id = a.id
        WHERE a.status = 'active' AND a.is_active`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Candidate, error) {
		var (
			cand        domain.Candidate
			audienceRaw []byte
			scheduleRaw []byte
		)
		err := row.Scan(
			&cand.Ad.ID, &cand.Ad.StoreID,
			&cand.Ad.Creative.Title, &cand.Ad.Creative.Description, &cand.Ad.Creative.Content,
			&cand.Ad.Creative.ImageURL, &cand.Ad.Creative.VideoURL, &cand.Ad.Creative.NavigationURL,
			&cand.Ad.DisplayType, &cand.Ad.TargetPlatform, &audienceRaw, &scheduleRaw,
			&cand.Ad.Display.MaxImpressions, &cand.Ad.Display.MaxClicks,
			&cand.Ad.Display.Frequency, &cand.Ad.Display.Priority, &cand.Ad.Display.IsActive,
			&cand.Ad.Status, &cand.Ad.CreatedAt, &cand.Ad.UpdatedAt,
			&cand.Counters.Impressions, &cand.Counters.Clicks,
			&cand.Counters.Conversions, &cand.Counters.Revenue,
		)
		if err != nil {
			return cand, err
		}
		if err = json.Unmarshal(audienceRaw, &cand.Ad.Audience); err != nil {
			return cand, fmt.Errorf("decode audience: %w", err)
		}
		if err = json.Unmarshal(scheduleRaw, &cand.Ad.Schedule); err != nil {
			return cand, fmt.Errorf("decode schedule: %w", err)
		}
		return cand, nil
	})
}

// RecordImpression increments the impression counter and inserts the
// impression row in one transaction. The UPDATE carries the cap checks, so
// zero affected rows means the budget was exhausted between selection and
// write; nothing is recorded and false is returned.
func (r *AdRepository) RecordImpression(ctx context.Context, imp *domain.Impression, set domain.DisplaySettings) (accepted bool, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			if errors.Is(err, errRefused) {
				err = nil
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, `
        UPDATE ad_counters SET impressions = impressions + 1
        WHERE ad_id = $1
          AND ($2 = 0 OR impressions < $2)
          AND ($3 = 0 OR clicks < $3)`,
		imp.AdID, set.MaxImpressions, set.MaxClicks)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, errRefused
	}

	imp.CreatedAt = time.Now().UTC()
	err = tx.QueryRow(ctx, `
        INSERT INTO impressions (token, ad_id, user_id, display_type, created_at)
        VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		imp.Token, imp.AdID, imp.UserID, imp.DisplayType, imp.CreatedAt).Scan(&imp.ID)
	if err != nil {
		return false, err
	}
	return true, nil
}

// RecordClick increments the click counter and inserts the click row. The
// UNIQUE constraint on impression_id makes a second click on the same
// impression a no-op: the insert affects no row and the counter stays
// untouched. A refused counter update (cap reached) rolls everything back.
func (r *AdRepository) RecordClick(ctx context.Context, click *domain.Click, set domain.DisplaySettings) (accepted bool, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			if errors.Is(err, errRefused) {
				err = nil
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	click.CreatedAt = time.Now().UTC()
	tag, err := tx.Exec(ctx, `
        INSERT INTO clicks (token, impression_id, ad_id, user_id, created_at)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (impression_id) DO NOTHING`,
		click.Token, click.ImpressionID, click.AdID, click.UserID, click.CreatedAt)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		// duplicate click, already counted
		return false, errRefused
	}

	tag, err = tx.Exec(ctx, `
        UPDATE ad_counters SET clicks = clicks + 1
        WHERE ad_id = $1 AND ($2 = 0 OR clicks < $2)`,
		click.AdID, set.MaxClicks)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		// click budget exhausted, drop the click row too
		return false, errRefused
	}
	return true, nil
}

// RecordConversion inserts the conversion row and adds its revenue to the
// counters. Conversions are uncapped.
func (r *AdRepository) RecordConversion(ctx context.Context, conv *domain.Conversion) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	conv.CreatedAt = time.Now().UTC()
	err = tx.QueryRow(ctx, `
        INSERT INTO conversions (impression_id, ad_id, user_id, revenue, created_at)
        VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		conv.ImpressionID, conv.AdID, conv.UserID, conv.Revenue, conv.CreatedAt).Scan(&conv.ID)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
        UPDATE ad_counters SET conversions = conversions + 1, revenue = revenue + $2
        WHERE ad_id = $1`,
		conv.AdID, conv.Revenue)
	return err
}

// FindImpressionByToken returns the impression for a serve token.
func (r *AdRepository) FindImpressionByToken(ctx context.Context, token string) (*domain.Impression, error) {
	var imp domain.Impression
	err := r.pool.QueryRow(ctx, `
        SELECT id, token, ad_id, user_id, display_type, created_at
        FROM impressions WHERE token = $1`, token).
		Scan(&imp.ID, &imp.Token, &imp.AdID, &imp.UserID, &imp.DisplayType, &imp.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &imp, nil
}

// GetStats aggregates events recorded in a period from the event tables.
func (r *AdRepository) GetStats(ctx context.Context, req port.StatsReq) (*port.StatsResp, error) {
	args := []any{req.From, req.To}
	whereAd := ""
	if req.AdID != nil {
		whereAd = "AND ad_id = $3"
		args = append(args, *req.AdID)
	}

	var c domain.Counters
	err := r.pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT COALESCE(count(*),0) FROM impressions
        WHERE created_at >= $1 AND created_at <= $2 %s`, whereAd), args...).
		Scan(&c.Impressions)
	if err != nil {
		return nil, err
	}
	err = r.pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT COALESCE(count(*),0) FROM clicks
        WHERE created_at >= $1 AND created_at <= $2 %s`, whereAd), args...).
		Scan(&c.Clicks)
	if err != nil {
		return nil, err
	}
	err = r.pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT COALESCE(count(*),0), COALESCE(sum(revenue),0) FROM conversions
        WHERE created_at >= $1 AND created_at <= $2 %s`, whereAd), args...).
		Scan(&c.Conversions, &c.Revenue)
	if err != nil {
		return nil, err
	}
	return &port.StatsResp{From: req.From, To: req.To, Tracking: domain.TrackingFrom(c)}, nil
}

// CreateAd inserts the advertisement and its zeroed counter row.
func (r *AdRepository) CreateAd(ctx context.Context, ad *domain.Advertisement) (err error) {
	audience, err := json.Marshal(ad.Audience)
	if err != nil {
		return err
	}
	schedule, err := json.Marshal(ad.Schedule)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	now := time.Now().UTC()
	ad.CreatedAt = now
	ad.UpdatedAt = now
	_, err = tx.Exec(ctx, `
        INSERT INTO advertisements
            (id, store_id, title, description, content, image_url, video_url, navigation_url,
             display_type, target_platform, audience, schedule,
             max_impressions, max_clicks, frequency, priority, is_active,
             status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)`,
		ad.ID, ad.StoreID,
		ad.Creative.Title, ad.Creative.Description, ad.Creative.Content,
		ad.Creative.ImageURL, ad.Creative.VideoURL, ad.Creative.NavigationURL,
		ad.DisplayType, ad.TargetPlatform, audience, schedule,
		ad.Display.MaxImpressions, ad.Display.MaxClicks,
		ad.Display.Frequency, ad.Display.Priority, ad.Display.IsActive,
		ad.Status, ad.CreatedAt, ad.UpdatedAt)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `INSERT INTO ad_counters (ad_id) VALUES ($1)`, ad.ID)
	return err
}

// UpdateAd stores configuration changes. Counters are untouched.
func (r *AdRepository) UpdateAd(ctx context.Context, ad *domain.Advertisement) error {
	audience, err := json.Marshal(ad.Audience)
	if err != nil {
		return err
	}
	schedule, err := json.Marshal(ad.Schedule)
	if err != nil {
		return err
	}
	ad.UpdatedAt = time.Now().UTC()
	tag, err := r.pool.Exec(ctx, `
        UPDATE advertisements SET
            store_id = $2, title = $3, description = $4, content = $5,
            image_url = $6, video_url = $7, navigation_url = $8,
            display_type = $9, target_platform = $10, audience = $11, schedule = $12,
            max_impressions = $13, max_clicks = $14, frequency = $15, priority = $16,
            is_active = $17, updated_at = $18
        WHERE id = $1`,
		ad.ID, ad.StoreID,
		ad.Creative.Title, ad.Creative.Description, ad.Creative.Content,
		ad.Creative.ImageURL, ad.Creative.VideoURL, ad.Creative.NavigationURL,
		ad.DisplayType, ad.TargetPlatform, audience, schedule,
		ad.Display.MaxImpressions, ad.Display.MaxClicks,
		ad.Display.Frequency, ad.Display.Priority, ad.Display.IsActive,
		ad.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrNotFound
	}
	return nil
}

// DeleteAd removes the advertisement; counters and events cascade.
func (r *AdRepository) DeleteAd(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM advertisements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrNotFound
	}
	return nil
}

// GetAd returns an advertisement by id.
func (r *AdRepository) GetAd(ctx context.Context, id uuid.UUID) (*domain.Advertisement, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+adColumns+` FROM advertisements a WHERE a.id = $1`, id)
	ad, err := scanAd(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

// GetCounters returns the counter row for an ad.
func (r *AdRepository) GetCounters(ctx context.Context, id uuid.UUID) (domain.Counters, error) {
	var c domain.Counters
	err := r.pool.QueryRow(ctx, `
        SELECT impressions, clicks, conversions, revenue
        FROM ad_counters WHERE ad_id = $1`, id).
		Scan(&c.Impressions, &c.Clicks, &c.Conversions, &c.Revenue)
	if errors.Is(err, pgx.ErrNoRows) {
		return c, port.ErrNotFound
	}
	return c, err
}

// ListAds returns all advertisements, newest first.
func (r *AdRepository) ListAds(ctx context.Context) ([]domain.Advertisement, error) {
	rows, err := r.pool.Query(ctx, `SELECT`+adColumns+` FROM advertisements a ORDER BY a.created_at DESC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Advertisement, error) {
		return scanAd(row)
	})
}

// SetStatus updates the lifecycle state.
func (r *AdRepository) SetStatus(ctx context.Context, id uuid.UUID, status domain.Status) error {
	tag, err := r.pool.Exec(ctx, `
        UPDATE advertisements SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrNotFound
	}
	return nil
}
