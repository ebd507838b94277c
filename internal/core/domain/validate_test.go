package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validAd() Advertisement {
	ad := servableAd(DisplayFooter, PlatformBoth, 5)
	ad.Schedule = Schedule{
		StartDate: Date{Year: 2026, Month: time.January, Day: 1},
		EndDate:   Date{Year: 2026, Month: time.December, Day: 31},
		StartTime: 0,
		EndTime:   MinutesPerDay - 1,
	}
	return ad
}

func TestAdvertisementValidate(t *testing.T) {
	valid := validAd()
	require.NoError(t, valid.Validate())

	cases := map[string]func(*Advertisement){
		"missing title":    func(a *Advertisement) { a.Creative.Title = "" },
		"unknown surface":  func(a *Advertisement) { a.DisplayType = "banner" },
		"unknown platform": func(a *Advertisement) { a.TargetPlatform = "windows" },
		"missing dates":    func(a *Advertisement) { a.Schedule.StartDate = Date{} },
		"zero priority":    func(a *Advertisement) { a.Display.Priority = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			ad := validAd()
			mutate(&ad)
			require.ErrorIs(t, ad.Validate(), ErrInvalidConfig)
		})
	}
}

func TestDisplaySettingsValidate(t *testing.T) {
	ok := DisplaySettings{MaxImpressions: 0, MaxClicks: 0, Frequency: 1, Priority: 10}
	require.NoError(t, ok.Validate())

	cases := map[string]DisplaySettings{
		"negative maxImpressions": {MaxImpressions: -1, Frequency: 1, Priority: 5},
		"negative maxClicks":      {MaxClicks: -1, Frequency: 1, Priority: 5},
		"zero frequency":          {Frequency: 0, Priority: 5},
		"priority too high":       {Frequency: 1, Priority: 11},
	}
	for name, set := range cases {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, set.Validate(), ErrInvalidConfig)
		})
	}
}
