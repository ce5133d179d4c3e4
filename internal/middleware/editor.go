package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/technews/technews-backend/internal/common"
)

// RequireEditor checks that the authenticated caller is an editor or admin
func RequireEditor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetUserRole(c).Privileged() {
			common.ErrorResponse(c, http.StatusForbidden, "editor role required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
