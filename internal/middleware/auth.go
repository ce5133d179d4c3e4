package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/technews/technews-backend/internal/common"
	"github.com/technews/technews-backend/internal/domain"
	"github.com/technews/technews-backend/pkg/jwt"
)

// JWTAuth JWT authentication middleware
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.ErrorResponse(c, 401, "Missing authorization header", nil)
			c.Abort()
			return
		}

		// 2. Parse Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.ErrorResponse(c, 401, "Invalid authorization header format", nil)
			c.Abort()
			return
		}

		tokenString := parts[1]

		// 3. Verify token
		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, 401, "Token expired", err)
			} else {
				common.ErrorResponse(c, 401, "Invalid token", err)
			}
			c.Abort()
			return
		}

		// 4. Store caller identity in context
		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}
	if str, ok := userID.(string); ok {
		return str
	}
	return ""
}

// GetUserRole extracts the caller's role from context
func GetUserRole(c *gin.Context) domain.Role {
	role, exists := c.Get("role")
	if !exists {
		return domain.RoleAuthor
	}
	if str, ok := role.(string); ok && str != "" {
		return domain.Role(str)
	}
	return domain.RoleAuthor
}

// GetActor builds the workflow actor from the authenticated context
func GetActor(c *gin.Context) domain.Actor {
	return domain.Actor{ID: GetUserID(c), Role: GetUserRole(c)}
}
