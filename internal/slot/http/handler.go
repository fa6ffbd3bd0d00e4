package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bookli/scheduling-backend/internal/auth"
	"github.com/bookli/scheduling-backend/internal/pkg/apperror"
	"github.com/bookli/scheduling-backend/internal/pkg/response"
	"github.com/bookli/scheduling-backend/internal/slot"
)

type Handler struct {
	service      slot.Service
	generator    *slot.Generator
	availability slot.AvailabilityService
}

func NewHandler(service slot.Service, generator *slot.Generator, availability slot.AvailabilityService) *Handler {
	return &Handler{service: service, generator: generator, availability: availability}
}

func (h *Handler) Generate(c *gin.Context) {
	var body GenerateSlotsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}

	providerID := auth.GetProviderID(c)
	slots, err := h.generator.Generate(c.Request.Context(), providerID, body.FromDate, body.ToDate, slot.GenerateOptions{
		ServiceID:           body.ServiceID,
		SlotDurationMinutes: body.SlotDurationMinutes,
		BufferMinutes:       body.BufferMinutes,
		MaxBookings:         body.MaxBookings,
		SkipExistingSlots:   body.SkipExistingSlots,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, GenerateSlotsResponse{
		Generated: len(slots),
		Slots:     newSlotList(slots),
	})
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, apperror.Validation("invalid UUID"))
		return
	}

	providerID := auth.GetProviderID(c)
	if err := h.service.Delete(c.Request.Context(), id, providerID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Reserve is called by the booking service when an appointment is created.
func (h *Handler) Reserve(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, apperror.Validation("invalid UUID"))
		return
	}

	s, err := h.service.Reserve(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewTimeSlotResponse(s))
}

// Release is called by the booking service when an appointment is cancelled.
func (h *Handler) Release(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, apperror.Validation("invalid UUID"))
		return
	}

	s, err := h.service.Release(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewTimeSlotResponse(s))
}

// Availability is the public browse endpoint. With ?date it returns a single
// day; with ?from and ?to it returns the whole range.
func (h *Handler) Availability(c *gin.Context) {
	providerID := c.Param("providerId")
	if _, err := uuid.Parse(providerID); err != nil {
		response.Error(c, apperror.Validation("invalid UUID"))
		return
	}

	var query AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters"))
		return
	}

	ctx := c.Request.Context()

	switch {
	case query.Date != "":
		day, err := h.availability.ForDate(ctx, providerID, query.Date, query.ServiceID)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, NewDayAvailabilityResponse(day))

	case query.From != "" && query.To != "":
		days, err := h.availability.ForRange(ctx, providerID, query.From, query.To, query.ServiceID)
		if err != nil {
			response.Error(c, err)
			return
		}
		items := make([]DayAvailabilityResponse, len(days))
		for i, d := range days {
			items[i] = NewDayAvailabilityResponse(d)
		}
		c.JSON(http.StatusOK, items)

	default:
		response.Error(c, apperror.Validation("either date or from/to is required"))
	}
}
