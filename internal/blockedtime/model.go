package blockedtime

import (
	"time"

	"github.com/bookli/scheduling-backend/internal/pkg/apperror"
	"github.com/bookli/scheduling-backend/internal/pkg/timeutil"
)

var (
	ErrNotFound         = apperror.NotFound("blocked time not found")
	ErrMissingTimes     = apperror.Validation("start and end times are required unless the block is all-day")
	ErrInvalidTimeRange = apperror.Validation("start time must be before end time")
	ErrInvalidBlockType = apperror.Validation("invalid block type")
	ErrOverlap          = apperror.Conflict("blocked time overlaps an existing active block")
)

type BlockType string

const (
	TypeVacation    BlockType = "vacation"
	TypePersonal    BlockType = "personal"
	TypeMaintenance BlockType = "maintenance"
	TypeHoliday     BlockType = "holiday"
	TypeEmergency   BlockType = "emergency"
	TypeOther       BlockType = "other"
)

func (t BlockType) Valid() bool {
	switch t {
	case TypeVacation, TypePersonal, TypeMaintenance, TypeHoliday, TypeEmergency, TypeOther:
		return true
	}
	return false
}

type RecurringPattern string

const (
	RecurWeekly  RecurringPattern = "weekly"
	RecurMonthly RecurringPattern = "monthly"
)

// BlockedTime is a declared unavailability window for a provider.
// All-day blocks have no start/end times; partial blocks require both.
type BlockedTime struct {
	ID               string
	ProviderID       string
	Date             string // "YYYY-MM-DD"
	StartTime        *string
	EndTime          *string
	AllDay           bool
	Type             BlockType
	Reason           string
	Active           bool
	RecurringPattern *RecurringPattern
	RecurringEndDate *string // "YYYY-MM-DD"
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Interval is a block's time window in minutes from midnight.
// An all-day block covers the whole day.
type Interval struct {
	Start  int
	End    int
	AllDay bool
}

// Validate enforces the time-field policy for partial blocks.
func (b *BlockedTime) Validate() error {
	if !b.Type.Valid() {
		return ErrInvalidBlockType
	}
	if _, err := timeutil.ParseDate(b.Date); err != nil {
		return apperror.Validation(err.Error())
	}
	if b.RecurringEndDate != nil {
		if _, err := timeutil.ParseDate(*b.RecurringEndDate); err != nil {
			return apperror.Validation(err.Error())
		}
	}

	if b.AllDay {
		return nil
	}
	if b.StartTime == nil || b.EndTime == nil {
		return ErrMissingTimes
	}
	start, err := timeutil.ParseClock(*b.StartTime)
	if err != nil {
		return apperror.Validation(err.Error())
	}
	end, err := timeutil.ParseClock(*b.EndTime)
	if err != nil {
		return apperror.Validation(err.Error())
	}
	if start >= end {
		return ErrInvalidTimeRange
	}
	return nil
}

// Interval returns the block's window. Call Validate first; malformed times
// degrade to an all-day interval so conflict checks stay conservative.
func (b *BlockedTime) Interval() Interval {
	if b.AllDay || b.StartTime == nil || b.EndTime == nil {
		return Interval{Start: 0, End: timeutil.MinutesPerDay, AllDay: true}
	}
	start, err1 := timeutil.ParseClock(*b.StartTime)
	end, err2 := timeutil.ParseClock(*b.EndTime)
	if err1 != nil || err2 != nil {
		return Interval{Start: 0, End: timeutil.MinutesPerDay, AllDay: true}
	}
	return Interval{Start: start, End: end}
}

// ConflictsWith reports whether two blocks on the same date collide.
// An all-day block conflicts with every other block that day; partial blocks
// conflict when their half-open windows intersect.
func (b *BlockedTime) ConflictsWith(other *BlockedTime) bool {
	if b.Date != other.Date {
		return false
	}
	if b.AllDay || other.AllDay {
		return true
	}
	bi, oi := b.Interval(), other.Interval()
	return timeutil.Overlaps(bi.Start, bi.End, oi.Start, oi.End)
}

// IsActiveOn interprets the block (including any recurrence) against a
// concrete date. Weekly recurrence repeats on the same weekday, monthly on the
// same day of month, both bounded by RecurringEndDate. Slot generation only
// ever sees concrete dates; this is the sole place recurrence is interpreted.
func (b *BlockedTime) IsActiveOn(date time.Time) bool {
	if !b.Active {
		return false
	}

	anchor, err := timeutil.ParseDate(b.Date)
	if err != nil {
		return false
	}
	if anchor.Equal(date) {
		return true
	}

	if b.RecurringPattern == nil || date.Before(anchor) {
		return false
	}
	if b.RecurringEndDate != nil {
		end, err := timeutil.ParseDate(*b.RecurringEndDate)
		if err != nil || date.After(end) {
			return false
		}
	}

	switch *b.RecurringPattern {
	case RecurWeekly:
		return date.Weekday() == anchor.Weekday()
	case RecurMonthly:
		return date.Day() == anchor.Day()
	}
	return false
}
