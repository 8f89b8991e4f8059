package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/WooodHead/blog-be-next/internal/config"
	"github.com/WooodHead/blog-be-next/internal/repository"
	"github.com/WooodHead/blog-be-next/internal/security"
)

const (
	ContextClaimsKey = "access_claims"
	ContextUserKey   = "current_user"
)

// Auth validates the bearer token and loads the current user. The
// token is stateless; there is no server-side session to consult.
func Auth(cfg *config.AppConfig, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := security.ParseAccessToken(tokenStr, cfg.Security.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user_not_found"})
			return
		}

		c.Set(ContextClaimsKey, *claims)
		c.Set(ContextUserKey, user)

		c.Next()
	}
}
