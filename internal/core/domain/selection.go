package domain

import (
	"bytes"
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Candidate pairs an advertisement with a snapshot of its counters. The
// selection stages below are pure functions over candidate slices; only the
// tracking recorder ever mutates state.
type Candidate struct {
	Ad       Advertisement
	Counters Counters
}

// FilterEligible narrows candidates to those legal for the request: active
// lifecycle, operator switch on, matching placement surface, platform
// (exact or "both") and every non-empty audience dimension satisfied.
// An ad with all audience dimensions empty matches every request.
func FilterEligible(cands []Candidate, req SlotRequest) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Ad.Status != StatusActive || !c.Ad.Display.IsActive {
			continue
		}
		if c.Ad.DisplayType != req.DisplayType {
			continue
		}
		if !c.Ad.TargetPlatform.Serves(req.Platform) {
			continue
		}
		if !c.Ad.Audience.Matches(req.Audience) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FilterScheduled keeps candidates whose schedule admits serving at the
// given instant, evaluated in the engine's reference timezone.
func FilterScheduled(cands []Candidate, at time.Time, loc *time.Location) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Ad.Schedule.Matches(at, loc) {
			out = append(out, c)
		}
	}
	return out
}

// FilterBudget keeps candidates with impression budget, click budget and
// per-user frequency headroom. freq maps ad id to how many times the
// requesting user has already been served that ad; a missing entry counts
// as zero.
func FilterBudget(cands []Candidate, freq map[uuid.UUID]int) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if BudgetAvailable(c.Ad.Display, c.Counters, freq[c.Ad.ID]) {
			out = append(out, c)
		}
	}
	return out
}

// Rank orders candidates best first: priority descending, then fewest
// served impressions (under-served ads surface first, approximating fair
// rotation), then earliest creation, then id. The final id comparison makes
// the order total, so identical inputs always rank identically. The input
// slice is not modified.
func Rank(cands []Candidate) []Candidate {
	ranked := slices.Clone(cands)
	slices.SortFunc(ranked, func(a, b Candidate) int {
		if a.Ad.Display.Priority != b.Ad.Display.Priority {
			return cmp.Compare(b.Ad.Display.Priority, a.Ad.Display.Priority)
		}
		if a.Counters.Impressions != b.Counters.Impressions {
			return cmp.Compare(a.Counters.Impressions, b.Counters.Impressions)
		}
		if !a.Ad.CreatedAt.Equal(b.Ad.CreatedAt) {
			if a.Ad.CreatedAt.Before(b.Ad.CreatedAt) {
				return -1
			}
			return 1
		}
		return bytes.Compare(a.Ad.ID[:], b.Ad.ID[:])
	})
	return ranked
}

// SelectWinner returns the best-ranked candidate, or nil when no ad is
// eligible for the slot. Callers must treat nil as a valid empty result.
func SelectWinner(cands []Candidate) *Candidate {
	if len(cands) == 0 {
		return nil
	}
	ranked := Rank(cands)
	return &ranked[0]
}
