package domain

import (
	"time"

	"github.com/google/uuid"
)

// DisplayType is the placement surface an advertisement occupies. Each ad
// is bound to exactly one surface and a slot request asks for exactly one.
type DisplayType string

const (
	DisplayFullscreen DisplayType = "fullscreen"
	DisplayFooter     DisplayType = "footer"
	DisplayMidScreen  DisplayType = "mid_screen"
	DisplaySearchCard DisplayType = "search_card"
)

// Valid reports whether d is a known placement surface.
func (d DisplayType) Valid() bool {
	switch d {
	case DisplayFullscreen, DisplayFooter, DisplayMidScreen, DisplaySearchCard:
		return true
	}
	return false
}

// Platform is the mobile platform an ad targets. PlatformBoth is only
// valid on the advertisement side; requests carry a concrete platform.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformBoth    Platform = "both"
)

// Valid reports whether p is a known target platform.
func (p Platform) Valid() bool {
	switch p {
	case PlatformAndroid, PlatformIOS, PlatformBoth:
		return true
	}
	return false
}

// Serves reports whether an ad targeting p may serve a request from req.
func (p Platform) Serves(req Platform) bool {
	return p == PlatformBoth || p == req
}

// Status is the lifecycle state of an advertisement. Only StatusActive ads
// are ever candidates for serving; every other state short-circuits
// eligibility. Transitions are driven by the admin boundary, never by the
// serving path.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// transitions is the lifecycle table. Rejected and completed are terminal.
var transitions = map[Status][]Status{
	StatusDraft:    {StatusPending},
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusActive},
	StatusActive:   {StatusPaused, StatusCompleted},
	StatusPaused:   {StatusActive, StatusCompleted},
}

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected,
		StatusActive, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

// CanTransition reports whether the lifecycle permits moving from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Creative holds the renderable content of an advertisement.
type Creative struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Content       string `json:"content"`
	ImageURL      string `json:"imageUrl,omitempty"`
	VideoURL      string `json:"videoUrl,omitempty"`
	NavigationURL string `json:"navigationUrl,omitempty"`
}

// DisplaySettings are the serving limits configured per advertisement.
// A zero MaxImpressions or MaxClicks means unlimited. Frequency is the
// maximum serves to one user per capping day. Priority ranges 1..10,
// higher wins ties. IsActive is an operator kill switch independent of
// the lifecycle status.
type DisplaySettings struct {
	MaxImpressions int64 `json:"maxImpressions"`
	MaxClicks      int64 `json:"maxClicks"`
	Frequency      int   `json:"frequency"`
	Priority       int   `json:"priority"`
	IsActive       bool  `json:"isActive"`
}

// Advertisement is the aggregate root of a campaign. Configuration fields
// are immutable while the ad is active; counters live separately in
// Counters and are written only by the tracking recorder.
type Advertisement struct {
	ID             uuid.UUID       `json:"id"`
	StoreID        uuid.UUID       `json:"storeId"`
	Creative       Creative        `json:"creative"`
	DisplayType    DisplayType     `json:"displayType"`
	TargetPlatform Platform        `json:"targetPlatform"`
	Audience       Audience        `json:"targetAudience"`
	Schedule       Schedule        `json:"schedule"`
	Display        DisplaySettings `json:"displaySettings"`
	Status         Status          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}
