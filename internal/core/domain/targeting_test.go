package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAudienceOpenTargetingMatchesEverything(t *testing.T) {
	var a Audience
	require.True(t, a.Matches(AudienceAttrs{}))
	require.True(t, a.Matches(AudienceAttrs{
		Role: "buyer", Location: "caracas", Interests: []string{"tires"},
	}))
}

func TestAudienceDimensionConjunction(t *testing.T) {
	a := Audience{
		UserRoles:     []string{"buyer"},
		LoyaltyLevels: []string{"gold", "platinum"},
	}
	attrs := AudienceAttrs{Role: "buyer", LoyaltyLevel: "gold"}
	require.True(t, a.Matches(attrs))

	// one failing non-empty dimension excludes, regardless of the others
	attrs.LoyaltyLevel = "bronze"
	require.False(t, a.Matches(attrs))

	attrs = AudienceAttrs{Role: "seller", LoyaltyLevel: "gold"}
	require.False(t, a.Matches(attrs))
}

func TestAudienceEmptyDimensionNeverExcludes(t *testing.T) {
	a := Audience{Locations: []string{"valencia"}}
	// roles empty: a request with any role passes that dimension
	require.True(t, a.Matches(AudienceAttrs{Role: "whatever", Location: "valencia"}))
	require.False(t, a.Matches(AudienceAttrs{Role: "whatever", Location: "caracas"}))
}

func TestAudienceInterestsIntersect(t *testing.T) {
	a := Audience{Interests: []string{"brakes", "tires"}}
	require.True(t, a.Matches(AudienceAttrs{Interests: []string{"oil", "tires"}}))
	require.False(t, a.Matches(AudienceAttrs{Interests: []string{"oil"}}))
	require.False(t, a.Matches(AudienceAttrs{}))
}

func TestAudienceAllDimensions(t *testing.T) {
	a := Audience{
		UserRoles:        []string{"buyer"},
		LoyaltyLevels:    []string{"gold"},
		Locations:        []string{"caracas"},
		DeviceTypes:      []string{"phone"},
		OperatingSystems: []string{"android 14"},
		AgeRanges:        []string{"25-34"},
		Interests:        []string{"brakes"},
	}
	full := AudienceAttrs{
		Role: "buyer", LoyaltyLevel: "gold", Location: "caracas",
		DeviceType: "phone", OS: "android 14", AgeRange: "25-34",
		Interests: []string{"brakes"},
	}
	require.True(t, a.Matches(full))

	for name, mutate := range map[string]func(*AudienceAttrs){
		"role":     func(x *AudienceAttrs) { x.Role = "seller" },
		"loyalty":  func(x *AudienceAttrs) { x.LoyaltyLevel = "silver" },
		"location": func(x *AudienceAttrs) { x.Location = "merida" },
		"device":   func(x *AudienceAttrs) { x.DeviceType = "tablet" },
		"os":       func(x *AudienceAttrs) { x.OS = "ios 17" },
		"age":      func(x *AudienceAttrs) { x.AgeRange = "35-44" },
		"interest": func(x *AudienceAttrs) { x.Interests = []string{"paint"} },
	} {
		attrs := full
		mutate(&attrs)
		require.False(t, a.Matches(attrs), "dimension %s should exclude", name)
	}
}
