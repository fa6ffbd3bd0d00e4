package http

import (
	"github.com/bookli/scheduling-backend/internal/pkg/timeutil"
	"github.com/bookli/scheduling-backend/internal/serviceavail"
)

type DayHoursBody struct {
	StartTime  string  `json:"start_time" binding:"required"`
	EndTime    string  `json:"end_time" binding:"required"`
	BreakStart *string `json:"break_start"`
	BreakEnd   *string `json:"break_end"`
}

type UpsertSettingsBody struct {
	CustomDurationMinutes     *int                    `json:"custom_duration_minutes" binding:"omitempty,min=1"`
	CustomBufferMinutes       *int                    `json:"custom_buffer_minutes" binding:"omitempty,min=0"`
	PreparationMinutes        *int                    `json:"preparation_minutes" binding:"omitempty,min=0"`
	CleanupMinutes            *int                    `json:"cleanup_minutes" binding:"omitempty,min=0"`
	AvailableDays             []string                `json:"available_days" binding:"omitempty,dive,oneof=sunday monday tuesday wednesday thursday friday saturday"`
	CustomHours               map[string]DayHoursBody `json:"custom_hours"`
	MaxBookingsPerDay         *int                    `json:"max_bookings_per_day" binding:"omitempty,min=1"`
	RequiresSpecialScheduling bool                    `json:"requires_special_scheduling"`
	UnavailableFrom           *string                 `json:"unavailable_from" binding:"omitempty,datetime=2006-01-02"`
	UnavailableUntil          *string                 `json:"unavailable_until" binding:"omitempty,datetime=2006-01-02"`
}

func (b UpsertSettingsBody) toRequest() serviceavail.UpsertRequest {
	var hours map[string]serviceavail.DayHours
	if len(b.CustomHours) > 0 {
		hours = make(map[string]serviceavail.DayHours, len(b.CustomHours))
		for day, h := range b.CustomHours {
			hours[day] = serviceavail.DayHours{
				StartTime:  h.StartTime,
				EndTime:    h.EndTime,
				BreakStart: h.BreakStart,
				BreakEnd:   h.BreakEnd,
			}
		}
	}
	return serviceavail.UpsertRequest{
		CustomDurationMinutes:     b.CustomDurationMinutes,
		CustomBufferMinutes:       b.CustomBufferMinutes,
		PreparationMinutes:        b.PreparationMinutes,
		CleanupMinutes:            b.CleanupMinutes,
		AvailableDays:             b.AvailableDays,
		CustomHours:               hours,
		MaxBookingsPerDay:         b.MaxBookingsPerDay,
		RequiresSpecialScheduling: b.RequiresSpecialScheduling,
		UnavailableFrom:           b.UnavailableFrom,
		UnavailableUntil:          b.UnavailableUntil,
	}
}

// EffectiveSettingsResponse is the fully resolved configuration a client
// should use when presenting booking options.
type EffectiveSettingsResponse struct {
	ProviderID                string                  `json:"provider_id"`
	ServiceID                 string                  `json:"service_id"`
	DurationMinutes           int                     `json:"duration_minutes"`
	BufferMinutes             int                     `json:"buffer_minutes"`
	PreparationMinutes        int                     `json:"preparation_minutes"`
	CleanupMinutes            int                     `json:"cleanup_minutes"`
	AvailableDays             []string                `json:"available_days,omitempty"`
	CustomHours               map[string]DayHoursBody `json:"custom_hours,omitempty"`
	MaxBookingsPerDay         int                     `json:"max_bookings_per_day"`
	MaxAdvanceDays            int                     `json:"max_advance_days"`
	MinNoticeMinutes          int                     `json:"min_notice_minutes"`
	RequiresSpecialScheduling bool                    `json:"requires_special_scheduling"`
	UnavailableFrom           *string                 `json:"unavailable_from,omitempty"`
	UnavailableUntil          *string                 `json:"unavailable_until,omitempty"`
	Price                     *float64                `json:"price,omitempty"`
}

func NewEffectiveSettingsResponse(e *serviceavail.EffectiveSettings) EffectiveSettingsResponse {
	resp := EffectiveSettingsResponse{
		ProviderID:                e.ProviderID,
		ServiceID:                 e.ServiceID,
		DurationMinutes:           e.DurationMinutes,
		BufferMinutes:             e.BufferMinutes,
		PreparationMinutes:        e.PreparationMinutes,
		CleanupMinutes:            e.CleanupMinutes,
		MaxBookingsPerDay:         e.MaxBookingsPerDay,
		MaxAdvanceDays:            e.MaxAdvanceDays,
		MinNoticeMinutes:          e.MinNoticeMinutes,
		RequiresSpecialScheduling: e.RequiresSpecialScheduling,
		UnavailableFrom:           e.UnavailableFrom,
		UnavailableUntil:          e.UnavailableUntil,
		Price:                     e.Price,
	}
	for _, d := range e.AvailableDays {
		resp.AvailableDays = append(resp.AvailableDays, timeutil.WeekdayName(d))
	}
	if len(e.CustomHours) > 0 {
		resp.CustomHours = make(map[string]DayHoursBody, len(e.CustomHours))
		for day, h := range e.CustomHours {
			resp.CustomHours[timeutil.WeekdayName(day)] = DayHoursBody{
				StartTime:  h.StartTime,
				EndTime:    h.EndTime,
				BreakStart: h.BreakStart,
				BreakEnd:   h.BreakEnd,
			}
		}
	}
	return resp
}
