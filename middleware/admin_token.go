package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/antqd/davveroo/config"
)

var errMissingBearer = errors.New("missing bearer token")

// AdminOrStaticToken guards admin-only endpoints that the SPA may also call
// with the shared static token instead of a JWT. Accepts, in order:
// the x-admin-token header, a ?token= query parameter, or a bearer token
// whose role set contains admin. A blank configured token disables the
// static path entirely.
func AdminOrStaticToken(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.AdminStaticToken != "" {
			supplied := strings.TrimSpace(c.GetHeader("x-admin-token"))
			if supplied == "" {
				supplied = strings.TrimSpace(c.Query("token"))
			}
			if supplied != "" && supplied == cfg.AdminStaticToken {
				c.Next()
				return
			}
		}

		claims, err := bearerClaims(cfg, c)
		if err == nil && claims.HasRole("admin") {
			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxRoles, claims.Roles)
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
	}
}
