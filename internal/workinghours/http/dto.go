package http

import (
	"time"

	"github.com/bookli/scheduling-backend/internal/pkg/apperror"
	"github.com/bookli/scheduling-backend/internal/pkg/timeutil"
	"github.com/bookli/scheduling-backend/internal/workinghours"
)

// DayBody is one weekday's template in a PUT request.
type DayBody struct {
	Weekday           string  `json:"weekday" binding:"required"`
	Active            bool    `json:"active"`
	StartTime         string  `json:"start_time" binding:"required"`
	EndTime           string  `json:"end_time" binding:"required"`
	BreakStart        *string `json:"break_start"`
	BreakEnd          *string `json:"break_end"`
	Timezone          string  `json:"timezone"`
	MaxBookingsPerDay int     `json:"max_bookings_per_day"`
}

func (b DayBody) toRequest() (workinghours.UpdateRequest, error) {
	wd, err := timeutil.ParseWeekday(b.Weekday)
	if err != nil {
		return workinghours.UpdateRequest{}, apperror.Validation(err.Error())
	}
	return workinghours.UpdateRequest{
		Weekday:           wd,
		Active:            b.Active,
		StartTime:         b.StartTime,
		EndTime:           b.EndTime,
		BreakStart:        b.BreakStart,
		BreakEnd:          b.BreakEnd,
		Timezone:          b.Timezone,
		MaxBookingsPerDay: b.MaxBookingsPerDay,
	}, nil
}

// UpsertWeekBody replaces the full weekly template.
type UpsertWeekBody struct {
	Days []DayBody `json:"days" binding:"required,min=1,max=7,dive"`
}

type WorkingHoursResponse struct {
	ID                string    `json:"id"`
	Weekday           string    `json:"weekday"`
	Active            bool      `json:"active"`
	StartTime         string    `json:"start_time"`
	EndTime           string    `json:"end_time"`
	BreakStart        *string   `json:"break_start,omitempty"`
	BreakEnd          *string   `json:"break_end,omitempty"`
	Timezone          string    `json:"timezone"`
	MaxBookingsPerDay int       `json:"max_bookings_per_day"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func NewWorkingHoursResponse(w *workinghours.WorkingHours) WorkingHoursResponse {
	return WorkingHoursResponse{
		ID:                w.ID,
		Weekday:           timeutil.WeekdayName(w.Weekday),
		Active:            w.Active,
		StartTime:         w.StartTime,
		EndTime:           w.EndTime,
		BreakStart:        w.BreakStart,
		BreakEnd:          w.BreakEnd,
		Timezone:          w.Timezone,
		MaxBookingsPerDay: w.MaxBookingsPerDay,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
}

func newWeekResponse(week []*workinghours.WorkingHours) []WorkingHoursResponse {
	items := make([]WorkingHoursResponse, len(week))
	for i, w := range week {
		items[i] = NewWorkingHoursResponse(w)
	}
	return items
}
