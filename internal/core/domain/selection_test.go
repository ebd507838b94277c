package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func servableAd(displayType DisplayType, platform Platform, priority int) Advertisement {
	return Advertisement{
		ID:             uuid.New(),
		StoreID:        uuid.New(),
		Creative:       Creative{Title: "demo"},
		DisplayType:    displayType,
		TargetPlatform: platform,
		Display:        DisplaySettings{Frequency: 10, Priority: priority, IsActive: true},
		Status:         StatusActive,
		CreatedAt:      time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestFilterEligible(t *testing.T) {
	req := SlotRequest{DisplayType: DisplayFooter, Platform: PlatformAndroid}

	base := servableAd(DisplayFooter, PlatformAndroid, 5)

	paused := base
	paused.Status = StatusPaused

	switchedOff := base
	switchedOff.Display.IsActive = false

	wrongSurface := base
	wrongSurface.DisplayType = DisplayFullscreen

	wrongPlatform := base
	wrongPlatform.TargetPlatform = PlatformIOS

	bothPlatforms := base
	bothPlatforms.TargetPlatform = PlatformBoth

	targeted := base
	targeted.Audience = Audience{Locations: []string{"santiago"}}

	cands := []Candidate{
		{Ad: base},
		{Ad: paused},
		{Ad: switchedOff},
		{Ad: wrongSurface},
		{Ad: wrongPlatform},
		{Ad: bothPlatforms},
		{Ad: targeted},
	}

	got := FilterEligible(cands, req)
	require.Len(t, got, 2)
	require.Equal(t, base.ID, got[0].Ad.ID)
	require.Equal(t, bothPlatforms.ID, got[1].Ad.ID)

	req.Audience = AudienceAttrs{Location: "santiago"}
	got = FilterEligible(cands, req)
	require.Len(t, got, 3)
}

func TestRankPriorityDescending(t *testing.T) {
	low := Candidate{Ad: servableAd(DisplayFooter, PlatformBoth, 3)}
	high := Candidate{Ad: servableAd(DisplayFooter, PlatformBoth, 8)}

	ranked := Rank([]Candidate{low, high})
	require.Equal(t, high.Ad.ID, ranked[0].Ad.ID)
	require.Equal(t, low.Ad.ID, ranked[1].Ad.ID)
}

func TestRankTieBreakFewestImpressions(t *testing.T) {
	served := Candidate{Ad: servableAd(DisplayFooter, PlatformBoth, 5), Counters: Counters{Impressions: 7}}
	fresh := Candidate{Ad: servableAd(DisplayFooter, PlatformBoth, 5), Counters: Counters{Impressions: 3}}

	ranked := Rank([]Candidate{served, fresh})
	require.Equal(t, fresh.Ad.ID, ranked[0].Ad.ID)
}

func TestRankTieBreakCreatedAt(t *testing.T) {
	older := Candidate{Ad: servableAd(DisplayFooter, PlatformBoth, 5)}
	newer := Candidate{Ad: servableAd(DisplayFooter, PlatformBoth, 5)}
	newer.Ad.CreatedAt = older.Ad.CreatedAt.Add(time.Hour)

	ranked := Rank([]Candidate{newer, older})
	require.Equal(t, older.Ad.ID, ranked[0].Ad.ID)
}

func TestRankIsDeterministic(t *testing.T) {
	// identical priority, impressions and createdAt fall through to the id
	a := Candidate{Ad: servableAd(DisplayFooter, PlatformBoth, 5)}
	b := Candidate{Ad: servableAd(DisplayFooter, PlatformBoth, 5)}

	first := Rank([]Candidate{a, b})
	second := Rank([]Candidate{b, a})
	require.Equal(t, first[0].Ad.ID, second[0].Ad.ID)
	require.Equal(t, first[1].Ad.ID, second[1].Ad.ID)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	low := Candidate{Ad: servableAd(DisplayFooter, PlatformBoth, 1)}
	high := Candidate{Ad: servableAd(DisplayFooter, PlatformBoth, 9)}
	in := []Candidate{low, high}

	Rank(in)
	require.Equal(t, low.Ad.ID, in[0].Ad.ID)
}

func TestFilterBudget(t *testing.T) {
	capped := Candidate{Ad: servableAd(DisplayFooter, PlatformBoth, 5)}
	capped.Ad.Display.MaxImpressions = 10
	capped.Counters.Impressions = 10

	open := Candidate{Ad: servableAd(DisplayFooter, PlatformBoth, 5)}

	fatigued := Candidate{Ad: servableAd(DisplayFooter, PlatformBoth, 5)}
	fatigued.Ad.Display.Frequency = 2

	freq := map[uuid.UUID]int{fatigued.Ad.ID: 2}
	got := FilterBudget([]Candidate{capped, open, fatigued}, freq)
	require.Len(t, got, 1)
	require.Equal(t, open.Ad.ID, got[0].Ad.ID)
}

func TestSelectWinnerEmpty(t *testing.T) {
	require.Nil(t, SelectWinner(nil))
	require.Nil(t, SelectWinner([]Candidate{}))
}

func TestStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusDraft, StatusPending},
		{StatusPending, StatusApproved},
		{StatusPending, StatusRejected},
		{StatusApproved, StatusActive},
		{StatusActive, StatusPaused},
		{StatusActive, StatusCompleted},
		{StatusPaused, StatusActive},
		{StatusPaused, StatusCompleted},
	}
	for _, tc := range allowed {
		require.True(t, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to Status }{
		{StatusDraft, StatusActive},
		{StatusPending, StatusActive},
		{StatusRejected, StatusPending},
		{StatusCompleted, StatusActive},
		{StatusActive, StatusDraft},
		{StatusApproved, StatusPaused},
	}
	for _, tc := range denied {
		require.False(t, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}
