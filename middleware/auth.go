package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/antqd/davveroo/auth"
	"github.com/antqd/davveroo/config"
)

const (
	CtxUserID = "userID"
	CtxRoles  = "userRoles"
)

// AuthMiddleware verifies the bearer token and stores the user id and role
// set on the context.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := bearerClaims(cfg, c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
			return
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRoles, claims.Roles)
		c.Next()
	}
}

// RequireRoles passes requests whose role set intersects the allowed list.
// Must run after AuthMiddleware.
func RequireRoles(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, exists := c.Get(CtxRoles)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
			return
		}
		have, _ := roles.([]string)
		for _, a := range allowed {
			for _, r := range have {
				if r == a {
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
	}
}

// UserID returns the authenticated user id stored by AuthMiddleware.
func UserID(c *gin.Context) int64 {
	id, _ := c.Get(CtxUserID)
	v, _ := id.(int64)
	return v
}

// Roles returns the authenticated role set stored by AuthMiddleware.
func Roles(c *gin.Context) []string {
	roles, _ := c.Get(CtxRoles)
	v, _ := roles.([]string)
	return v
}

func bearerClaims(cfg *config.Config, c *gin.Context) (*auth.Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errMissingBearer
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && strings.EqualFold(parts[0], "bearer")) {
		return nil, errMissingBearer
	}
	return auth.ValidateToken(cfg, parts[1])
}
