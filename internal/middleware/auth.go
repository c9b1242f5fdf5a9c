package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole runs after UserAuth and rejects requests whose token role is
// not in the allowed set.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		roleValue, _ := role.(string)

		match := false
		for _, r := range allowedRoles {
			if roleValue == r {
				match = true
				break
			}
		}
		if !match {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}

// SellerAuth guards seller-only routes.
func SellerAuth(secret string) []gin.HandlerFunc {
	return []gin.HandlerFunc{UserAuth(secret), RequireRole("seller")}
}
