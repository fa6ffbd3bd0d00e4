package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookli/scheduling-backend/internal/auth"
	"github.com/bookli/scheduling-backend/internal/pkg/apperror"
	"github.com/bookli/scheduling-backend/internal/pkg/response"
	"github.com/bookli/scheduling-backend/internal/pkg/timeutil"
	"github.com/bookli/scheduling-backend/internal/workinghours"
)

type Handler struct {
	service workinghours.Service
}

func NewHandler(service workinghours.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Get(c *gin.Context) {
	providerID := auth.GetProviderID(c)

	week, err := h.service.Get(c.Request.Context(), providerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, newWeekResponse(week))
}

func (h *Handler) Upsert(c *gin.Context) {
	var body UpsertWeekBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}

	reqs := make([]workinghours.UpdateRequest, 0, len(body.Days))
	for _, day := range body.Days {
		req, err := day.toRequest()
		if err != nil {
			response.Error(c, err)
			return
		}
		reqs = append(reqs, req)
	}

	providerID := auth.GetProviderID(c)
	week, err := h.service.Upsert(c.Request.Context(), providerID, reqs)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, newWeekResponse(week))
}

func (h *Handler) UpsertDay(c *gin.Context) {
	var body DayBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}
	// The path parameter wins over anything in the body.
	body.Weekday = c.Param("weekday")

	req, err := body.toRequest()
	if err != nil {
		response.Error(c, err)
		return
	}

	providerID := auth.GetProviderID(c)
	wh, err := h.service.UpsertOne(c.Request.Context(), providerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewWorkingHoursResponse(wh))
}

func (h *Handler) RemoveDay(c *gin.Context) {
	wd, err := timeutil.ParseWeekday(c.Param("weekday"))
	if err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	providerID := auth.GetProviderID(c)
	if err := h.service.Remove(c.Request.Context(), providerID, wd); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
