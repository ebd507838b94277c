package domain

// Tracking is the reporting view over an ad's counters. The rate fields are
// always recomputed from the counters, never stored as independent truth.
type Tracking struct {
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	Revenue     int64   `json:"revenue"`
	CTR         float64 `json:"ctr"`
	CPM         float64 `json:"cpm"`
	CPC         float64 `json:"cpc"`
}

// TrackingFrom derives the rate metrics from raw counters. CTR is a
// percentage; CPM and CPC are in currency units (counters keep cents).
func TrackingFrom(c Counters) Tracking {
	t := Tracking{
		Impressions: c.Impressions,
		Clicks:      c.Clicks,
		Conversions: c.Conversions,
		Revenue:     c.Revenue,
	}
	revenue := float64(c.Revenue) / 100
	if c.Impressions > 0 {
		t.CTR = round3(float64(c.Clicks) / float64(c.Impressions) * 100)
		t.CPM = round2(revenue / float64(c.Impressions) * 1000)
	}
	if c.Clicks > 0 {
		t.CPC = round2(revenue / float64(c.Clicks))
	}
	return t
}

func round2(f float64) float64 { return float64(int64(f*100+0.5)) / 100 }
func round3(f float64) float64 { return float64(int64(f*1000+0.5)) / 1000 }
