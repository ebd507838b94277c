package domain

// Counters are the monotonically increasing tracking counters of one
// advertisement. They live in their own storage row keyed by ad id so the
// high-contention counters never share a lock domain with the slow-changing
// configuration. Revenue is in integer currency units (cents).
type Counters struct {
	Impressions int64 `json:"impressions"`
	Clicks      int64 `json:"clicks"`
	Conversions int64 `json:"conversions"`
	Revenue     int64 `json:"revenue"`
}

// BudgetAvailable reports whether an ad may serve another impression given
// its counters and how often the requesting user has already seen it in the
// capping window. Three independent checks, all must hold:
//
//   - impression budget: MaxImpressions == 0 or still below the cap
//   - click budget: an ad whose clicks are exhausted stops serving
//     impressions too, clicks being the scarcer resource
//   - frequency: the user's count is below the per-user cap
//
// Failing a check excludes the ad for this request only; it never touches
// the lifecycle status.
func BudgetAvailable(set DisplaySettings, c Counters, userFrequencyCount int) bool {
	if set.MaxImpressions > 0 && c.Impressions >= set.MaxImpressions {
		return false
	}
	if set.MaxClicks > 0 && c.Clicks >= set.MaxClicks {
		return false
	}
	if set.Frequency > 0 && userFrequencyCount >= set.Frequency {
		return false
	}
	return true
}
