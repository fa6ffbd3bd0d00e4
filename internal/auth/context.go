package auth

import "github.com/gin-gonic/gin"

// GetProviderID returns the authenticated provider's ID or empty string.
func GetProviderID(c *gin.Context) string {
	if v, ok := c.Get("providerID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetEmail returns the authenticated provider's email or empty string.
func GetEmail(c *gin.Context) string {
	if v, ok := c.Get("email"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
