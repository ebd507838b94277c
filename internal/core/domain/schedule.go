package domain

import (
	"fmt"
	"slices"
	"strconv"
	"time"
)

// Date is a calendar date without a timezone. Schedule dates are compared
// in the engine's single reference timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool { return o.Before(d) }

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool { return d.Year == 0 && d.Month == 0 && d.Day == 0 }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("date %q: %w", s, err)
	}
	*d = DateOf(t)
	return nil
}

// TimeOfDay is minutes since midnight. Schedule windows have minute
// granularity; sub-minute request times truncate downward, so a request
// inside the start minute matches while one in the minute before does not.
type TimeOfDay int

// MinutesPerDay bounds a valid TimeOfDay (0 .. 23:59).
const MinutesPerDay = 24 * 60

// TimeOfDayAt extracts the time of day of t in t's location.
func TimeOfDayAt(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("time of day %q: %w", s, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// Valid reports whether t falls within a single day.
func (t TimeOfDay) Valid() bool { return t >= 0 && t < MinutesPerDay }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// MarshalJSON encodes the time as "HH:MM".
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

// UnmarshalJSON decodes an "HH:MM" string.
func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("time of day: %w", err)
	}
	v, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// TimeSlot is an extra serving window within a day, inclusive at both ends.
type TimeSlot struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// Contains reports whether t falls inside the slot.
func (s TimeSlot) Contains(t TimeOfDay) bool {
	return t >= s.Start && t <= s.End
}

// Schedule is the serving calendar of an advertisement: an inclusive date
// range, an inclusive daily time window, an optional weekday set (0=Sunday,
// empty = every day) and optional time slots. When slots are present they
// are the only sub-windows within the daily window where the ad may serve;
// they refine the daily window, never widen it.
type Schedule struct {
	StartDate  Date       `json:"startDate"`
	EndDate    Date       `json:"endDate"`
	StartTime  TimeOfDay  `json:"startTime"`
	EndTime    TimeOfDay  `json:"endTime"`
	DaysOfWeek []int      `json:"daysOfWeek,omitempty"`
	TimeSlots  []TimeSlot `json:"timeSlots,omitempty"`
}

// Matches reports whether the schedule admits serving at the given instant.
// All calendar math happens in loc, the engine's reference timezone.
func (s Schedule) Matches(at time.Time, loc *time.Location) bool {
	local := at.In(loc)

	d := DateOf(local)
	if d.Before(s.StartDate) || d.After(s.EndDate) {
		return false
	}

	if len(s.DaysOfWeek) > 0 && !slices.Contains(s.DaysOfWeek, int(local.Weekday())) {
		return false
	}

	tod := TimeOfDayAt(local)
	if tod < s.StartTime || tod > s.EndTime {
		return false
	}

	if len(s.TimeSlots) > 0 {
		for _, slot := range s.TimeSlots {
			if slot.Contains(tod) {
				return true
			}
		}
		return false
	}
	return true
}
