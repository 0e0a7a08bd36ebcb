package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"

	"qr-order-backend/utils"
)

// AuthMiddleware guards staff endpoints. Expects "Authorization: Bearer
// <token>" signed for an admin account.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondAppError(c, utils.AuthError("Authorization header missing"))
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondAppError(c, utils.AuthError("Invalid authorization format"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.RespondAppError(c, utils.AuthError("Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set("admin_id", claims.AdminID)
		c.Set("username", claims.Username)
		c.Next()
	}
}
