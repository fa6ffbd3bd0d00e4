package slot

import (
	"time"

	"github.com/bookli/scheduling-backend/internal/pkg/apperror"
	"github.com/bookli/scheduling-backend/internal/pkg/timeutil"
)

var (
	ErrNotFound         = apperror.NotFound("time slot not found")
	ErrSlotHasBookings  = apperror.Invariant("time slot still has bookings")
	ErrCapacityFull     = apperror.Conflict("time slot is fully booked")
	ErrSlotExists       = apperror.Conflict("time slot already exists for this start time")
	ErrNoBookings       = apperror.Invariant("time slot has no bookings to release")
	ErrInvalidDateRange = apperror.Validation("from date must not be after to date")
	ErrRangeTooLarge    = apperror.Validation("date range must not exceed one year")
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusBooked    Status = "booked"
	StatusBlocked   Status = "blocked"
	StatusBreak     Status = "break"
)

// TimeSlot is the smallest bookable calendar unit. Its end time includes the
// buffer/preparation/cleanup padding; DurationMinutes is only the sellable
// service time.
type TimeSlot struct {
	ID              string
	ProviderID      string
	ServiceID       *string
	Date            string // "YYYY-MM-DD"
	StartTime       string // "HH:MM"
	EndTime         string // "HH:MM"
	DurationMinutes int
	BufferMinutes   int
	Status          Status
	MaxBookings     int
	CurrentBookings int
	CustomPrice     *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Window returns the slot's interval in minutes from midnight.
func (t *TimeSlot) Window() (start, end int) {
	start, _ = timeutil.ParseClock(t.StartTime)
	end, _ = timeutil.ParseClock(t.EndTime)
	return start, end
}

// Bookable reports whether the slot can still accept a booking.
func (t *TimeSlot) Bookable() bool {
	return t.Status == StatusAvailable && t.CurrentBookings < t.MaxBookings
}
