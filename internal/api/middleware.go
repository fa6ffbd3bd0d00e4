package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookli/scheduling-backend/internal/auth"
	"github.com/bookli/scheduling-backend/internal/catalog"
)

// RequireProvider ensures the authenticated subject is a known, active provider.
// It MUST be used after auth.AuthRequired middleware.
func RequireProvider(catalogService catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		providerID := auth.GetProviderID(c)
		if providerID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		p, err := catalogService.GetProvider(c.Request.Context(), providerID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "provider not found"})
			return
		}

		if !p.Active {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: provider is deactivated"})
			return
		}

		c.Next()
	}
}
