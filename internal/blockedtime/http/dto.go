package http

import (
	"time"

	"github.com/bookli/scheduling-backend/internal/blockedtime"
	"github.com/bookli/scheduling-backend/internal/pkg/request"
)

// ListBlockedTimesRequest defines query parameters for listing blocks.
type ListBlockedTimesRequest struct {
	request.ListParams
	FromDate   string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	ToDate     string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	ActiveOnly bool   `form:"active_only"`
}

type CreateBlockedTimeBody struct {
	Date             string  `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime        *string `json:"start_time"`
	EndTime          *string `json:"end_time"`
	AllDay           bool    `json:"all_day"`
	Type             string  `json:"type" binding:"required,oneof=vacation personal maintenance holiday emergency other"`
	Reason           string  `json:"reason"`
	RecurringPattern *string `json:"recurring_pattern" binding:"omitempty,oneof=weekly monthly"`
	RecurringEndDate *string `json:"recurring_end_date" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateBlockedTimeBody struct {
	Date             *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	StartTime        *string `json:"start_time"`
	EndTime          *string `json:"end_time"`
	AllDay           *bool   `json:"all_day"`
	Type             *string `json:"type" binding:"omitempty,oneof=vacation personal maintenance holiday emergency other"`
	Reason           *string `json:"reason"`
	Active           *bool   `json:"active"`
	RecurringPattern *string `json:"recurring_pattern" binding:"omitempty,oneof=weekly monthly"`
	RecurringEndDate *string `json:"recurring_end_date" binding:"omitempty,datetime=2006-01-02"`
}

type BlockedTimeResponse struct {
	ID               string    `json:"id"`
	Date             string    `json:"date"`
	StartTime        *string   `json:"start_time,omitempty"`
	EndTime          *string   `json:"end_time,omitempty"`
	AllDay           bool      `json:"all_day"`
	Type             string    `json:"type"`
	Reason           string    `json:"reason,omitempty"`
	Active           bool      `json:"active"`
	RecurringPattern *string   `json:"recurring_pattern,omitempty"`
	RecurringEndDate *string   `json:"recurring_end_date,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewBlockedTimeResponse(b *blockedtime.BlockedTime) BlockedTimeResponse {
	resp := BlockedTimeResponse{
		ID:               b.ID,
		Date:             b.Date,
		StartTime:        b.StartTime,
		EndTime:          b.EndTime,
		AllDay:           b.AllDay,
		Type:             string(b.Type),
		Reason:           b.Reason,
		Active:           b.Active,
		RecurringEndDate: b.RecurringEndDate,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
	if b.RecurringPattern != nil {
		p := string(*b.RecurringPattern)
		resp.RecurringPattern = &p
	}
	return resp
}

func recurringPattern(s *string) *blockedtime.RecurringPattern {
	if s == nil {
		return nil
	}
	p := blockedtime.RecurringPattern(*s)
	return &p
}

func blockType(s *string) *blockedtime.BlockType {
	if s == nil {
		return nil
	}
	t := blockedtime.BlockType(*s)
	return &t
}
