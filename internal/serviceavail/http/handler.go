package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bookli/scheduling-backend/internal/auth"
	"github.com/bookli/scheduling-backend/internal/pkg/apperror"
	"github.com/bookli/scheduling-backend/internal/pkg/response"
	"github.com/bookli/scheduling-backend/internal/serviceavail"
)

type Handler struct {
	service serviceavail.Service
}

func NewHandler(service serviceavail.Service) *Handler {
	return &Handler{service: service}
}

func serviceIDParam(c *gin.Context) (string, bool) {
	id := c.Param("serviceId")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, apperror.Validation("invalid UUID"))
		return "", false
	}
	return id, true
}

// GetEffective returns the resolved settings: overrides layered on the
// service's base attributes layered on platform defaults.
func (h *Handler) GetEffective(c *gin.Context) {
	serviceID, ok := serviceIDParam(c)
	if !ok {
		return
	}

	providerID := auth.GetProviderID(c)
	eff, err := h.service.GetEffective(c.Request.Context(), providerID, serviceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewEffectiveSettingsResponse(eff))
}

func (h *Handler) Upsert(c *gin.Context) {
	serviceID, ok := serviceIDParam(c)
	if !ok {
		return
	}

	var body UpsertSettingsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}

	providerID := auth.GetProviderID(c)
	if _, err := h.service.Upsert(c.Request.Context(), providerID, serviceID, body.toRequest()); err != nil {
		response.Error(c, err)
		return
	}

	eff, err := h.service.GetEffective(c.Request.Context(), providerID, serviceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewEffectiveSettingsResponse(eff))
}

func (h *Handler) Delete(c *gin.Context) {
	serviceID, ok := serviceIDParam(c)
	if !ok {
		return
	}

	providerID := auth.GetProviderID(c)
	if err := h.service.Delete(c.Request.Context(), providerID, serviceID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
