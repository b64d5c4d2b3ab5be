package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antqd/davveroo/auth"
	"github.com/antqd/davveroo/config"
)

func buildAdminRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/guarded", AdminOrStaticToken(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAdminOrStaticTokenHeader(t *testing.T) {
	cfg := testConfig()
	cfg.AdminStaticToken = "Expo2026"
	r := buildAdminRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
	req.Header.Set("x-admin-token", "Expo2026")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminOrStaticTokenQueryParam(t *testing.T) {
	cfg := testConfig()
	cfg.AdminStaticToken = "Expo2026"
	r := buildAdminRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/guarded?token=Expo2026", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminOrStaticTokenAcceptsAdminJWT(t *testing.T) {
	cfg := testConfig()
	token, err := auth.GenerateToken(cfg, 1, []string{"admin"})
	require.NoError(t, err)
	r := buildAdminRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminOrStaticTokenRejectsNonAdminJWT(t *testing.T) {
	cfg := testConfig()
	cfg.AdminStaticToken = "Expo2026"
	token, err := auth.GenerateToken(cfg, 1, []string{"seller"})
	require.NoError(t, err)
	r := buildAdminRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOrStaticTokenRejectsWrongToken(t *testing.T) {
	cfg := testConfig()
	cfg.AdminStaticToken = "Expo2026"
	r := buildAdminRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
	req.Header.Set("x-admin-token", "guess")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOrStaticTokenDisabledWhenBlank(t *testing.T) {
	cfg := testConfig() // no static token configured
	r := buildAdminRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
	req.Header.Set("x-admin-token", "")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
