package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig marks a malformed advertisement configuration. The admin
// boundary rejects these at write time; the serving path assumes validated
// input and never re-checks.
var ErrInvalidConfig = errors.New("invalid advertisement configuration")

// Validate checks the full advertisement configuration. It is called on
// every admin create and update.
func (a *Advertisement) Validate() error {
	if a.Creative.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidConfig)
	}
	if !a.DisplayType.Valid() {
		return fmt.Errorf("%w: unknown display type %q", ErrInvalidConfig, a.DisplayType)
	}
	if !a.TargetPlatform.Valid() {
		return fmt.Errorf("%w: unknown target platform %q", ErrInvalidConfig, a.TargetPlatform)
	}
	if err := a.Schedule.Validate(); err != nil {
		return err
	}
	return a.Display.Validate()
}

// Validate checks schedule ordering. Slots must sit inside the daily
// window since they refine it.
func (s Schedule) Validate() error {
	if s.StartDate.IsZero() || s.EndDate.IsZero() {
		return fmt.Errorf("%w: schedule dates are required", ErrInvalidConfig)
	}
	if s.EndDate.Before(s.StartDate) {
		return fmt.Errorf("%w: endDate %s before startDate %s", ErrInvalidConfig, s.EndDate, s.StartDate)
	}
	if !s.StartTime.Valid() || !s.EndTime.Valid() {
		return fmt.Errorf("%w: time of day out of range", ErrInvalidConfig)
	}
	if s.EndTime < s.StartTime {
		return fmt.Errorf("%w: endTime %s before startTime %s", ErrInvalidConfig, s.EndTime, s.StartTime)
	}
	for _, d := range s.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: weekday %d out of range", ErrInvalidConfig, d)
		}
	}
	for _, slot := range s.TimeSlots {
		if slot.End < slot.Start {
			return fmt.Errorf("%w: time slot %s-%s ends before it starts", ErrInvalidConfig, slot.Start, slot.End)
		}
		if slot.Start < s.StartTime || slot.End > s.EndTime {
			return fmt.Errorf("%w: time slot %s-%s outside daily window %s-%s",
				ErrInvalidConfig, slot.Start, slot.End, s.StartTime, s.EndTime)
		}
	}
	return nil
}

// Validate checks the serving limits.
func (s DisplaySettings) Validate() error {
	if s.MaxImpressions < 0 {
		return fmt.Errorf("%w: maxImpressions must not be negative", ErrInvalidConfig)
	}
	if s.MaxClicks < 0 {
		return fmt.Errorf("%w: maxClicks must not be negative", ErrInvalidConfig)
	}
	if s.Frequency < 1 {
		return fmt.Errorf("%w: frequency must be at least 1", ErrInvalidConfig)
	}
	if s.Priority < 1 || s.Priority > 10 {
		return fmt.Errorf("%w: priority %d outside 1..10", ErrInvalidConfig, s.Priority)
	}
	return nil
}
