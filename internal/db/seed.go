package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts demo advertisements so a fresh environment has something
// to serve: one open-targeted footer ad, one search card restricted to
// premium android users with a tight morning slot, and a budget-capped
// fullscreen ad.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	today := time.Now().UTC().Format("2006-01-02")
	nextMonth := time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02")

	type demo struct {
		title          string
		displayType    string
		targetPlatform string
		audience       map[string]any
		schedule       map[string]any
		maxImpressions int64
		maxClicks      int64
		frequency      int
		priority       int
	}

	demos := []demo{
		{
			title:          "Free shipping weekend",
			displayType:    "footer",
			targetPlatform: "both",
			audience:       map[string]any{},
			schedule: map[string]any{
				"startDate": today, "endDate": nextMonth,
				"startTime": "00:00", "endTime": "23:59",
			},
			frequency: 5, priority: 3,
		},
		{
			title:          "Premium brake pads promo",
			displayType:    "search_card",
			targetPlatform: "android",
			audience: map[string]any{
				"loyaltyLevels": []string{"gold", "platinum"},
				"interests":     []string{"brakes", "maintenance"},
			},
			schedule: map[string]any{
				"startDate": today, "endDate": nextMonth,
				"startTime": "08:00", "endTime": "18:00",
				"daysOfWeek": []int{1, 2, 3, 4, 5},
				"timeSlots":  []map[string]string{{"start": "09:00", "end": "11:00"}},
			},
			maxClicks: 500, frequency: 3, priority: 8,
		},
		{
			title:          "New store opening",
			displayType:    "fullscreen",
			targetPlatform: "both",
			audience:       map[string]any{"locations": []string{"caracas", "valencia"}},
			schedule: map[string]any{
				"startDate": today, "endDate": nextMonth,
				"startTime": "10:00", "endTime": "22:00",
			},
			maxImpressions: 10000, frequency: 1, priority: 6,
		},
	}

	for i, d := range demos {
		id := uuid.New()
		audience, _ := json.Marshal(d.audience)
		schedule, _ := json.Marshal(d.schedule)
		_, err := db.Exec(ctx, `
            INSERT INTO advertisements
                (id, store_id, title, description, content,
                 display_type, target_platform, audience, schedule,
                 max_impressions, max_clicks, frequency, priority, is_active, status)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,TRUE,'active')
            ON CONFLICT DO NOTHING`,
			id, uuid.New(), d.title,
			fmt.Sprintf("Demo advertisement %d", i+1), "Visit the store for details.",
			d.displayType, d.targetPlatform, audience, schedule,
			d.maxImpressions, d.maxClicks, d.frequency, d.priority)
		if err != nil {
			return err
		}
		_, err = db.Exec(ctx, `INSERT INTO ad_counters (ad_id) VALUES ($1) ON CONFLICT DO NOTHING`, id)
		if err != nil {
			return err
		}
	}
	return nil
}
