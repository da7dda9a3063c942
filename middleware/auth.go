package middleware

import (
	"net/http"
	"strings"

	"museumgate/utils"

	"github.com/gin-gonic/gin"
)

// StaffAuthMiddleware guards the staff-only endpoints (approve, cancel,
// purge, walk-in registration). Session issuance lives in the auth
// collaborator; this only validates the bearer token it minted.
func StaffAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		staffID, role, err := utils.ExtractStaffFromToken(tokenString)
		if err != nil || staffID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}
		if role != "staff" && role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Staff access required",
				"code":  0,
			})
			return
		}

		c.Set("staffID", staffID)
		c.Set("staffRole", role)
		c.Next()
	}
}
