package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, providerMiddleware gin.HandlerFunc) {
	group := g.Group("/providers/me/services/:serviceId/availability-settings")

	group.Use(authMiddleware, providerMiddleware)
	{
		group.GET("", h.GetEffective)
		group.PUT("", h.Upsert)
		group.DELETE("", h.Delete)
	}
}
