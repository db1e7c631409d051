package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireWalletOwner lets a request through only when the token subject is the uid the
// wallet store is signed in as. It must run after AuthMiddleware.
func RequireWalletOwner(ownerUID func() string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID, ok := GetUserIDFromContext(c)
		if !ok {
			logger.Error("User ID not found in context")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		owner := ownerUID()
		if owner == "" {
			logger.Warn("Wallet accessed while no user is signed in")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No user is signed in to the wallet"})
			return
		}
		if owner != userID {
			logger.Warn("Wallet accessed by a user other than its owner", slog.String("owner_uid", owner))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Wallet belongs to another user"})
			return
		}

		c.Next()
	}
}
