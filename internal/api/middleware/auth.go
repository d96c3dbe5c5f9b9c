package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/service"
	"reviewhub/internal/authz"
)

const actorKey = "actor"

// Identify resolves the request actor from the Authorization header. A
// missing header yields the anonymous actor rather than an error; a header
// that is present but unusable is rejected outright.
func Identify(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(actorKey, authz.Actor{})
			c.Next()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(actorKey, authz.Actor{
			ID:            claims.UserID,
			Role:          claims.Role,
			Superuser:     claims.Superuser,
			Authenticated: true,
		})
		c.Next()
	}
}

// GetActor returns the actor set by Identify; absent means anonymous.
func GetActor(c *gin.Context) authz.Actor {
	if v, exists := c.Get(actorKey); exists {
		if actor, ok := v.(authz.Actor); ok {
			return actor
		}
	}
	return authz.Actor{}
}

// Authorize enforces a collection-level policy check before any handler or
// object fetch runs. Anonymous actors get 401, authenticated ones 403.
func Authorize(action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		if authz.Allowed(actor, action) {
			c.Next()
			return
		}
		if !actor.Authenticated {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		} else {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		}
		c.Abort()
	}
}

// MethodNotAllowed unconditionally rejects the request. Full-replace updates
// are never supported; PATCH is the only update mode.
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
}
