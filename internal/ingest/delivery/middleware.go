package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AccountMiddleware resolves the tenant for account-scoped routes from the
// X-Account-ID header
func AccountMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID := c.GetHeader("X-Account-ID")
		if accountID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "X-Account-ID header required"})
			c.Abort()
			return
		}

		c.Set("accountID", accountID)
		c.Next()
	}
}

// WebhookTokenMiddleware rejects webhook calls that do not carry the shared
// token. An empty configured token disables the check.
func WebhookTokenMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token != "" && c.GetHeader("X-Webhook-Token") != token {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook token"})
			c.Abort()
			return
		}
		c.Next()
	}
}
