package middleware

import (
	"net/http"
	"strings"

	"anoa.com/hennahub/internal/entity"
	"anoa.com/hennahub/pkg/apperror"
	"anoa.com/hennahub/pkg/response"
	"anoa.com/hennahub/pkg/token"
	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	tokens *token.Issuer
}

func NewAuthMiddleware(tokens *token.Issuer) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	// Fallback to query parameter "token" (useful for event streams)
	return c.Query("token")
}

func setActor(c *gin.Context, actor entity.Actor) {
	c.Set(response.ContextUserID, actor.UserID.String())
	c.Set(response.ContextRole, actor.Role)
	c.Set(response.ContextSuperuser, actor.IsSuperuser)
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required", "kind": apperror.KindUnauthorized})
			return
		}

		actor, err := m.tokens.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "kind": apperror.KindUnauthorized})
			return
		}

		setActor(c, actor)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through otherwise.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			if actor, err := m.tokens.Parse(tokenString); err == nil {
				setActor(c, actor)
			}
		}
		c.Next()
	}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := response.GetActor(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated", "kind": apperror.KindUnauthorized})
			return
		}

		if !actor.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required", "kind": apperror.KindForbidden})
			return
		}

		c.Next()
	}
}
