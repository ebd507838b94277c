package domain

import "time"

// SlotRequest is a single opportunity to show one advertisement. The HTTP
// layer constructs it from request data and passes it into the usecase.
// Timestamp may be zero, meaning "now". UserFrequencyCount is optional:
// when an upstream gateway already tracks per-user serves it supplies the
// count here, otherwise the engine consults its own frequency store.
type SlotRequest struct {
	DisplayType        DisplayType   `json:"displayType"`
	Platform           Platform      `json:"platform"`
	Timestamp          time.Time     `json:"timestamp,omitzero"`
	Audience           AudienceAttrs `json:"audience"`
	UserID             string        `json:"userId"`
	UserFrequencyCount *int          `json:"userFrequencyCount,omitempty"`
}
