package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sustentai/ods-platform/pkg/response"
	"github.com/sustentai/ods-platform/pkg/utils"
)

// Admin lets only tokens carrying the admin claim through.
func Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := utils.GetClaimsFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Invalid token claims"})
			return
		}
		if !claims.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorResponse{Error: "admin only"})
			return
		}
		c.Next()
	}
}
