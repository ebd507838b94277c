package usecase

import (
	"context"
	"sync"
	"time"

	"repuestos-ads/internal/core/domain"
)

// snapshot caches the servable candidate set for a bounded staleness
// window. Selection reading a slightly stale snapshot is fine: the
// recorder re-validates budgets at write time. A TTL of zero disables
// caching and every request reads through.
type snapshot struct {
	fetch func(ctx context.Context) ([]domain.Candidate, error)
	ttl   time.Duration

	mu        sync.Mutex
	cands     []domain.Candidate
	fetchedAt time.Time
}

func newSnapshot(fetch func(ctx context.Context) ([]domain.Candidate, error), ttl time.Duration) *snapshot {
	return &snapshot{fetch: fetch, ttl: ttl}
}

// Load returns the cached candidate set, refreshing it when older than ttl.
func (s *snapshot) Load(ctx context.Context) ([]domain.Candidate, error) {
	if s.ttl <= 0 {
		return s.fetch(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cands != nil && time.Since(s.fetchedAt) < s.ttl {
		return s.cands, nil
	}
	cands, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	s.cands = cands
	s.fetchedAt = time.Now()
	return cands, nil
}

// Invalidate drops the cached set so the next request re-reads. Called
// after every admin write so configuration changes show up immediately.
func (s *snapshot) Invalidate() {
	s.mu.Lock()
	s.cands = nil
	s.mu.Unlock()
}
