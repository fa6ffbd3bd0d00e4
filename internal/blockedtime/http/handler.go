package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bookli/scheduling-backend/internal/auth"
	"github.com/bookli/scheduling-backend/internal/blockedtime"
	"github.com/bookli/scheduling-backend/internal/pkg/apperror"
	"github.com/bookli/scheduling-backend/internal/pkg/response"
)

type Handler struct {
	service blockedtime.Service
}

func NewHandler(service blockedtime.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var query ListBlockedTimesRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters"))
		return
	}

	providerID := auth.GetProviderID(c)
	blocks, total, err := h.service.List(c.Request.Context(), providerID, blockedtime.Filter{
		FromDate:   query.FromDate,
		ToDate:     query.ToDate,
		ActiveOnly: query.ActiveOnly,
		Page:       query.Page,
		PageSize:   query.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BlockedTimeResponse, len(blocks))
	for i, b := range blocks {
		items[i] = NewBlockedTimeResponse(b)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, query.Page, query.PageSize, total))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBlockedTimeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}

	providerID := auth.GetProviderID(c)
	b, err := h.service.Create(c.Request.Context(), providerID, blockedtime.CreateRequest{
		Date:             body.Date,
		StartTime:        body.StartTime,
		EndTime:          body.EndTime,
		AllDay:           body.AllDay,
		Type:             blockedtime.BlockType(body.Type),
		Reason:           body.Reason,
		RecurringPattern: recurringPattern(body.RecurringPattern),
		RecurringEndDate: body.RecurringEndDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBlockedTimeResponse(b))
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, apperror.Validation("invalid UUID"))
		return
	}

	var body UpdateBlockedTimeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}

	providerID := auth.GetProviderID(c)
	b, err := h.service.Update(c.Request.Context(), id, providerID, blockedtime.UpdateRequest{
		Date:             body.Date,
		StartTime:        body.StartTime,
		EndTime:          body.EndTime,
		AllDay:           body.AllDay,
		Type:             blockType(body.Type),
		Reason:           body.Reason,
		Active:           body.Active,
		RecurringPattern: recurringPattern(body.RecurringPattern),
		RecurringEndDate: body.RecurringEndDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBlockedTimeResponse(b))
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
