package domain

import "slices"

// Audience is a conjunction of set-membership filters. An empty set leaves
// that dimension unrestricted; a non-empty set requires the request's value
// to be a member. Dimensions combine with AND, values within a set with OR.
type Audience struct {
	UserRoles        []string `json:"userRoles,omitempty"`
	LoyaltyLevels    []string `json:"loyaltyLevels,omitempty"`
	Locations        []string `json:"locations,omitempty"`
	DeviceTypes      []string `json:"deviceTypes,omitempty"`
	OperatingSystems []string `json:"operatingSystems,omitempty"`
	AgeRanges        []string `json:"ageRanges,omitempty"`
	Interests        []string `json:"interests,omitempty"`
}

// AudienceAttrs are the attributes observed for the requesting user.
// Interests is the only multi-valued attribute; it matches when it shares
// at least one element with the ad's interest set.
type AudienceAttrs struct {
	Role         string   `json:"role"`
	LoyaltyLevel string   `json:"loyaltyLevel"`
	Location     string   `json:"location"`
	DeviceType   string   `json:"deviceType"`
	OS           string   `json:"os"`
	AgeRange     string   `json:"ageRange"`
	Interests    []string `json:"interests"`
}

// Matches reports whether attrs satisfies every non-empty dimension of a.
func (a Audience) Matches(attrs AudienceAttrs) bool {
	if !dimensionMatches(a.UserRoles, attrs.Role) {
		return false
	}
	if !dimensionMatches(a.LoyaltyLevels, attrs.LoyaltyLevel) {
		return false
	}
	if !dimensionMatches(a.Locations, attrs.Location) {
		return false
	}
	if !dimensionMatches(a.DeviceTypes, attrs.DeviceType) {
		return false
	}
	if !dimensionMatches(a.OperatingSystems, attrs.OS) {
		return false
	}
	if !dimensionMatches(a.AgeRanges, attrs.AgeRange) {
		return false
	}
	if len(a.Interests) > 0 {
		match := false
		for _, v := range a.Interests {
			if slices.Contains(attrs.Interests, v) {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	return true
}

func dimensionMatches(set []string, value string) bool {
	return len(set) == 0 || slices.Contains(set, value)
}
