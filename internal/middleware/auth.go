package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hsato-11/teamcond/pkg/token"
)

const (
	AuthPlayerIDKey = "auth_player_id"
	AuthNameKey     = "auth_name"
	AuthRoleKey     = "auth_role"
)

const (
	RoleAdmin  = "admin"
	RolePlayer = "player"
)

// AuthMiddleware validates the bearer token and stores the session identity
// in the request context. Identity lives only in the token claims; there are
// no server-side session flags.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || strings.ToLower(bearerToken[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format. Expected: Bearer <token>"})
			return
		}

		claims, err := token.ValidateJWT(bearerToken[1], jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token: " + err.Error()})
			return
		}

		c.Set(AuthPlayerIDKey, claims.PlayerID)
		c.Set(AuthNameKey, claims.Name)
		c.Set(AuthRoleKey, claims.Role)
		c.Next()
	}
}

// RoleMiddleware rejects requests whose session role is not in requiredRoles.
func RoleMiddleware(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := GetRoleFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
			return
		}

		for _, required := range requiredRoles {
			if strings.EqualFold(role, required) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":    "Forbidden",
			"message":  "You don't have permission to access this resource",
			"required": requiredRoles,
		})
	}
}

// AdminMiddleware is a convenience middleware for admin-only access.
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(RoleAdmin)
}

// GetPlayerIDFromContext extracts the authenticated player's ID. The admin
// session carries ID 0.
func GetPlayerIDFromContext(c *gin.Context) (uint, error) {
	playerID, exists := c.Get(AuthPlayerIDKey)
	if !exists {
		return 0, errors.New("player ID not found in context")
	}
	id, ok := playerID.(uint)
	if !ok {
		return 0, errors.New("player ID in context has unexpected type")
	}
	return id, nil
}

// GetNameFromContext extracts the authenticated session's display name.
func GetNameFromContext(c *gin.Context) (string, error) {
	name, exists := c.Get(AuthNameKey)
	if !exists {
		return "", errors.New("name not found in context")
	}
	s, ok := name.(string)
	if !ok {
		return "", errors.New("name in context has unexpected type")
	}
	return s, nil
}

// GetRoleFromContext extracts the authenticated session's role.
func GetRoleFromContext(c *gin.Context) (string, error) {
	role, exists := c.Get(AuthRoleKey)
	if !exists {
		return "", errors.New("role not found in context")
	}
	s, ok := role.(string)
	if !ok {
		return "", errors.New("role in context has unexpected type")
	}
	return s, nil
}

// IsAdmin reports whether the current session carries the admin role.
func IsAdmin(c *gin.Context) bool {
	role, err := GetRoleFromContext(c)
	return err == nil && strings.EqualFold(role, RoleAdmin)
}
