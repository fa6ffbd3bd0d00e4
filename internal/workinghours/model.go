package workinghours

import (
	"time"

	"github.com/bookli/scheduling-backend/internal/pkg/apperror"
	"github.com/bookli/scheduling-backend/internal/pkg/timeutil"
)

var (
	ErrNotFound         = apperror.NotFound("working hours not found for that weekday")
	ErrInvalidTimeRange = apperror.Validation("start time must be before end time")
	ErrInvalidBreak     = apperror.Validation("break must lie within working hours and break start must be before break end")
)

// Default template applied when a provider has no working hours yet:
// Monday through Friday 09:00-17:00, weekends inactive.
const (
	DefaultStartTime       = "09:00"
	DefaultEndTime         = "17:00"
	DefaultTimezone        = "UTC"
	DefaultMaxBookingsADay = 8
)

// WorkingHours is one weekday's operating template for a provider.
// Exactly one record exists per (provider, weekday).
type WorkingHours struct {
	ID                string
	ProviderID        string
	Weekday           time.Weekday
	Active            bool
	StartTime         string // "HH:MM"
	EndTime           string // "HH:MM"
	BreakStart        *string
	BreakEnd          *string
	Timezone          string
	MaxBookingsPerDay int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Validate checks start<end and break containment.
func (w *WorkingHours) Validate() error {
	start, err := timeutil.ParseClock(w.StartTime)
	if err != nil {
		return apperror.Validation(err.Error())
	}
	end, err := timeutil.ParseClock(w.EndTime)
	if err != nil {
		return apperror.Validation(err.Error())
	}
	if start >= end {
		return ErrInvalidTimeRange
	}

	if (w.BreakStart == nil) != (w.BreakEnd == nil) {
		return ErrInvalidBreak
	}
	if w.BreakStart != nil {
		bs, err := timeutil.ParseClock(*w.BreakStart)
		if err != nil {
			return apperror.Validation(err.Error())
		}
		be, err := timeutil.ParseClock(*w.BreakEnd)
		if err != nil {
			return apperror.Validation(err.Error())
		}
		if bs >= be || bs < start || be > end {
			return ErrInvalidBreak
		}
	}

	return nil
}

// Break returns the break window in minutes from midnight, or ok=false when none is set.
func (w *WorkingHours) Break() (start, end int, ok bool) {
	if w.BreakStart == nil || w.BreakEnd == nil {
		return 0, 0, false
	}
	bs, err := timeutil.ParseClock(*w.BreakStart)
	if err != nil {
		return 0, 0, false
	}
	be, err := timeutil.ParseClock(*w.BreakEnd)
	if err != nil {
		return 0, 0, false
	}
	return bs, be, true
}

// DefaultWeek builds the system default template for a provider.
func DefaultWeek(providerID string) []*WorkingHours {
	week := make([]*WorkingHours, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		active := d != time.Sunday && d != time.Saturday
		week = append(week, &WorkingHours{
			ProviderID:        providerID,
			Weekday:           d,
			Active:            active,
			StartTime:         DefaultStartTime,
			EndTime:           DefaultEndTime,
			Timezone:          DefaultTimezone,
			MaxBookingsPerDay: DefaultMaxBookingsADay,
		})
	}
	return week
}
