package serviceavail

import (
	"time"

	"github.com/bookli/scheduling-backend/internal/pkg/apperror"
	"github.com/bookli/scheduling-backend/internal/pkg/timeutil"
)

var (
	ErrNotFound         = apperror.NotFound("availability settings not found")
	ErrServiceNotOwned  = apperror.NotFound("service does not belong to this provider")
	ErrInvalidTimeRange = apperror.Validation("start time must be before end time")
)

// Platform defaults, the lowest tier of the resolution chain.
const (
	DefaultDurationMinutes  = 60
	DefaultBufferMinutes    = 15
	DefaultMaxAdvanceDays   = 30
	DefaultMinNoticeMinutes = 120
	DefaultMaxBookingsADay  = 1
)

// DayHours is a per-weekday override of the provider's working hours.
type DayHours struct {
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	BreakStart *string `json:"break_start,omitempty"`
	BreakEnd   *string `json:"break_end,omitempty"`
}

// Settings is the per-(provider, service) override row. At most one exists
// per pair; absent fields fall back to the service's own attributes, then to
// the platform defaults.
type Settings struct {
	ID                        string
	ProviderID                string
	ServiceID                 string
	CustomDurationMinutes     *int
	CustomBufferMinutes       *int
	PreparationMinutes        *int
	CleanupMinutes            *int
	AvailableDays             []time.Weekday // empty = no restriction
	CustomHours               map[time.Weekday]DayHours
	MaxBookingsPerDay         *int
	RequiresSpecialScheduling bool
	UnavailableFrom           *string // "YYYY-MM-DD"
	UnavailableUntil          *string
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// Validate checks date and custom-hours fields.
func (s *Settings) Validate() error {
	for _, d := range []*string{s.UnavailableFrom, s.UnavailableUntil} {
		if d == nil {
			continue
		}
		if _, err := timeutil.ParseDate(*d); err != nil {
			return apperror.Validation(err.Error())
		}
	}

	for _, h := range s.CustomHours {
		start, err := timeutil.ParseClock(h.StartTime)
		if err != nil {
			return apperror.Validation(err.Error())
		}
		end, err := timeutil.ParseClock(h.EndTime)
		if err != nil {
			return apperror.Validation(err.Error())
		}
		if start >= end {
			return ErrInvalidTimeRange
		}
	}
	return nil
}

// HasCustomSettings reports whether any override field deviates from the
// defaults. Used by admin surfaces only, never by the slot algorithm.
func (s *Settings) HasCustomSettings() bool {
	return s.CustomDurationMinutes != nil ||
		s.CustomBufferMinutes != nil ||
		s.PreparationMinutes != nil ||
		s.CleanupMinutes != nil ||
		len(s.AvailableDays) > 0 ||
		len(s.CustomHours) > 0 ||
		s.MaxBookingsPerDay != nil ||
		s.RequiresSpecialScheduling ||
		s.UnavailableFrom != nil ||
		s.UnavailableUntil != nil
}

// TemporarilyUnavailableOn reports whether the date falls inside the
// temporary-unavailability window.
func (s *Settings) TemporarilyUnavailableOn(date time.Time) bool {
	if s.UnavailableFrom == nil || s.UnavailableUntil == nil {
		return false
	}
	from, err1 := timeutil.ParseDate(*s.UnavailableFrom)
	until, err2 := timeutil.ParseDate(*s.UnavailableUntil)
	if err1 != nil || err2 != nil {
		return false
	}
	return !date.Before(from) && !date.After(until)
}

// EffectiveSettings is the fully resolved scheduling configuration for a
// (provider, service) pair.
type EffectiveSettings struct {
	ProviderID                string
	ServiceID                 string
	DurationMinutes           int
	BufferMinutes             int
	PreparationMinutes        int
	CleanupMinutes            int
	AvailableDays             []time.Weekday // empty = all weekdays allowed
	CustomHours               map[time.Weekday]DayHours
	MaxBookingsPerDay         int
	MaxAdvanceDays            int
	MinNoticeMinutes          int
	RequiresSpecialScheduling bool
	UnavailableFrom           *string
	UnavailableUntil          *string
	Price                     *float64
}

// AllowsWeekday reports whether the service may be booked on the weekday.
func (e *EffectiveSettings) AllowsWeekday(d time.Weekday) bool {
	if len(e.AvailableDays) == 0 {
		return true
	}
	for _, allowed := range e.AvailableDays {
		if allowed == d {
			return true
		}
	}
	return false
}

// HoursFor returns the custom per-day hours override, if any.
func (e *EffectiveSettings) HoursFor(d time.Weekday) (DayHours, bool) {
	h, ok := e.CustomHours[d]
	return h, ok
}

// StepMinutes is the calendar space one slot occupies: the sellable duration
// plus buffer, preparation and cleanup padding.
func (e *EffectiveSettings) StepMinutes() int {
	return e.DurationMinutes + e.BufferMinutes + e.PreparationMinutes + e.CleanupMinutes
}

// TemporarilyUnavailableOn reports whether the date falls inside the
// temporary-unavailability window.
func (e *EffectiveSettings) TemporarilyUnavailableOn(date time.Time) bool {
	if e.UnavailableFrom == nil || e.UnavailableUntil == nil {
		return false
	}
	from, err1 := timeutil.ParseDate(*e.UnavailableFrom)
	until, err2 := timeutil.ParseDate(*e.UnavailableUntil)
	if err1 != nil || err2 != nil {
		return false
	}
	return !date.Before(from) && !date.After(until)
}
