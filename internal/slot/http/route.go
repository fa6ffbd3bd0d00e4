package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, providerMiddleware gin.HandlerFunc) {
	provider := g.Group("/providers/me/slots")
	provider.Use(authMiddleware, providerMiddleware)
	{
		provider.POST("/generate", h.Generate)
		provider.DELETE("/:id", h.Delete)
	}

	// Reserve/release are service-to-service calls from the booking system;
	// they carry a JWT but are not tied to the provider's own identity.
	slots := g.Group("/slots")
	slots.Use(authMiddleware)
	{
		slots.POST("/:id/reserve", h.Reserve)
		slots.POST("/:id/release", h.Release)
	}

	// Public browse endpoint, no auth.
	g.GET("/availability/:providerId", h.Availability)
}
