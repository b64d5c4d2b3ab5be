package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antqd/davveroo/auth"
	"github.com/antqd/davveroo/config"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
}

func authedRouter(cfg *config.Config, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{AuthMiddleware(cfg)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "uid": UserID(c), "roles": Roles(c)})
	})
	r.GET("/probe", chain...)
	return r
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	r := authedRouter(testConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"unauthorized"}`, w.Body.String())
}

func TestAuthMiddlewareRejectsBadScheme(t *testing.T) {
	r := authedRouter(testConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Basic abc123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewarePassesValidToken(t *testing.T) {
	cfg := testConfig()
	token, err := auth.GenerateToken(cfg, 12, []string{"seller"})
	require.NoError(t, err)

	r := authedRouter(cfg)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":12`)
	assert.Contains(t, w.Body.String(), `"seller"`)
}

func TestRequireRolesForbidsWrongRole(t *testing.T) {
	cfg := testConfig()
	token, err := auth.GenerateToken(cfg, 3, []string{"customer"})
	require.NoError(t, err)

	r := authedRouter(cfg, RequireRoles("seller", "admin"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"forbidden"}`, w.Body.String())
}

func TestRequireRolesPassesMatchingRole(t *testing.T) {
	cfg := testConfig()
	token, err := auth.GenerateToken(cfg, 3, []string{"customer", "admin"})
	require.NoError(t, err)

	r := authedRouter(cfg, RequireRoles("seller", "admin"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
