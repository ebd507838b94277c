package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// FrequencyStore implements port.FrequencyStore on Redis. Each user gets
// one hash per capping day in the reference timezone; fields are ad ids,
// values are serve counts. The hash expires on its own well after the day
// ends, so stale windows never need explicit cleanup.
type FrequencyStore struct {
	rdb *redis.Client
	loc *time.Location
}

// NewFrequencyStore returns a store counting in loc's calendar days.
func NewFrequencyStore(rdb *redis.Client, loc *time.Location) *FrequencyStore {
	return &FrequencyStore{rdb: rdb, loc: loc}
}

const windowTTL = 48 * time.Hour

func (s *FrequencyStore) key(userID string) string {
	day := time.Now().In(s.loc).Format("2006-01-02")
	return fmt.Sprintf("freq:%s:%s", userID, day)
}

// Counts returns the user's serve counts for the given ads in the current
// window. Missing fields mean zero.
func (s *FrequencyStore) Counts(ctx context.Context, userID string, adIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	result := make(map[uuid.UUID]int, len(adIDs))
	if len(adIDs) == 0 {
		return result, nil
	}

	fields := make([]string, len(adIDs))
	for i, id := range adIDs {
		fields[i] = id.String()
	}
	vals, err := s.rdb.HMGet(ctx, s.key(userID), fields...).Result()
	if err != nil {
		return nil, fmt.Errorf("frequency counts: %w", err)
	}

	for i, val := range vals {
		if val == nil {
			continue
		}
		// go-redis returns hash values as strings
		if str, ok := val.(string); ok {
			if n, err := strconv.Atoi(str); err == nil {
				result[adIDs[i]] = n
			}
		}
	}
	return result, nil
}

// Increment bumps the user's serve count for an ad in the current window.
func (s *FrequencyStore) Increment(ctx context.Context, userID string, adID uuid.UUID) error {
	key := s.key(userID)
	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, key, adID.String(), 1)
	pipe.Expire(ctx, key, windowTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("frequency increment: %w", err)
	}
	return nil
}
