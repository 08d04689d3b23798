package handler

import (
	"net/http"
	"strings"

	"github.com/cropsight/auth-service/internal/dto"
	"github.com/cropsight/auth-service/internal/service"
	"github.com/gin-gonic/gin"
)

// ContextUserIDKey is the gin context key the authenticated user id is stored
// under.
const ContextUserIDKey = "user_id"

const msgUnauthorized = "Authorization required"

// AuthMiddleware validates the bearer session token and attaches the
// authenticated user id to the request context. This is the only gate in
// front of protected endpoints; everything else is public by design.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: msgUnauthorized})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: msgUnauthorized})
			c.Abort()
			return
		}

		userID, err := authService.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}
