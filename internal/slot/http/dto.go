package http

import (
	"time"

	"github.com/bookli/scheduling-backend/internal/slot"
)

type GenerateSlotsBody struct {
	FromDate            string  `json:"from_date" binding:"required,datetime=2006-01-02"`
	ToDate              string  `json:"to_date" binding:"required,datetime=2006-01-02"`
	ServiceID           *string `json:"service_id" binding:"omitempty,uuid"`
	SlotDurationMinutes int     `json:"slot_duration_minutes" binding:"omitempty,min=1"`
	BufferMinutes       *int    `json:"buffer_minutes" binding:"omitempty,min=0"`
	MaxBookings         int     `json:"max_bookings" binding:"omitempty,min=1"`
	SkipExistingSlots   bool    `json:"skip_existing_slots"`
}

// AvailabilityQuery covers both the single-date and range reads.
type AvailabilityQuery struct {
	Date      string  `form:"date" binding:"omitempty,datetime=2006-01-02"`
	From      string  `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string  `form:"to" binding:"omitempty,datetime=2006-01-02"`
	ServiceID *string `form:"service_id" binding:"omitempty,uuid"`
}

type TimeSlotResponse struct {
	ID              string    `json:"id"`
	ProviderID      string    `json:"provider_id"`
	ServiceID       *string   `json:"service_id,omitempty"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	BufferMinutes   int       `json:"buffer_minutes"`
	Status          string    `json:"status"`
	MaxBookings     int       `json:"max_bookings"`
	CurrentBookings int       `json:"current_bookings"`
	CustomPrice     *float64  `json:"custom_price,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewTimeSlotResponse(s *slot.TimeSlot) TimeSlotResponse {
	return TimeSlotResponse{
		ID:              s.ID,
		ProviderID:      s.ProviderID,
		ServiceID:       s.ServiceID,
		Date:            s.Date,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		DurationMinutes: s.DurationMinutes,
		BufferMinutes:   s.BufferMinutes,
		Status:          string(s.Status),
		MaxBookings:     s.MaxBookings,
		CurrentBookings: s.CurrentBookings,
		CustomPrice:     s.CustomPrice,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func newSlotList(slots []*slot.TimeSlot) []TimeSlotResponse {
	items := make([]TimeSlotResponse, len(slots))
	for i, s := range slots {
		items[i] = NewTimeSlotResponse(s)
	}
	return items
}

type GenerateSlotsResponse struct {
	Generated int                `json:"generated"`
	Slots     []TimeSlotResponse `json:"slots"`
}

type DayAvailabilityResponse struct {
	Date           string             `json:"date"`
	IsAvailable    bool               `json:"is_available"`
	WorkingHours   *slot.HoursSummary `json:"working_hours,omitempty"`
	AvailableSlots []TimeSlotResponse `json:"available_slots"`
	TotalSlots     int                `json:"total_slots"`
	BookedSlots    int                `json:"booked_slots"`
}

func NewDayAvailabilityResponse(d *slot.DayAvailability) DayAvailabilityResponse {
	return DayAvailabilityResponse{
		Date:           d.Date,
		IsAvailable:    d.IsAvailable,
		WorkingHours:   d.WorkingHours,
		AvailableSlots: newSlotList(d.AvailableSlots),
		TotalSlots:     d.TotalSlots,
		BookedSlots:    d.BookedSlots,
	}
}
