package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, providerMiddleware gin.HandlerFunc) {
	group := g.Group("/providers/me/working-hours")

	group.Use(authMiddleware, providerMiddleware)
	{
		group.GET("", h.Get)
		group.PUT("", h.Upsert)
		group.PUT("/:weekday", h.UpsertDay)
		group.DELETE("/:weekday", h.RemoveDay)
	}
}
