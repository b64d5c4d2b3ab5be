package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterTripsAfterLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	assert.False(t, rl.Limit("1.2.3.4"))
	assert.False(t, rl.Limit("1.2.3.4"))
	assert.False(t, rl.Limit("1.2.3.4"))
	assert.True(t, rl.Limit("1.2.3.4"))

	// Other keys are tracked independently.
	assert.False(t, rl.Limit("5.6.7.8"))
}

func TestRateLimiterWindowExpires(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	assert.False(t, rl.Limit("k"))
	assert.True(t, rl.Limit("k"))
	time.Sleep(15 * time.Millisecond)
	assert.False(t, rl.Limit("k"))
}

func TestRateLimiterMiddlewareResponds429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(1, time.Minute)
	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"too_many_attempts"}`, w.Body.String())
}
