package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/antqd/davveroo/logging"
	"github.com/antqd/davveroo/models"
)

// TopSellers returns the current month's leaderboard snapshot. Public.
func (h *Handlers) TopSellers(c *gin.Context) {
	items, err := models.ListTopSellers(c.Request.Context(), models.MonthKey(time.Now()))
	if err != nil {
		logging.Logger.Error("top sellers list failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "server_error")
		return
	}
	respondOK(c, gin.H{"items": items})
}

// SaveTopSellers replaces one month's snapshot wholesale. Guarded by
// middleware.AdminOrStaticToken.
func (h *Handlers) SaveTopSellers(c *gin.Context) {
	var req struct {
		MonthKey string                  `json:"month_key"`
		Items    []models.TopSellerEntry `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body")
		return
	}

	monthKey := req.MonthKey
	if len(monthKey) >= 7 {
		monthKey = monthKey[:7]
	} else {
		monthKey = models.MonthKey(time.Now())
	}

	cleaned := models.CleanTopSellerEntries(req.Items)
	if err := models.ReplaceTopSellers(c.Request.Context(), monthKey, cleaned); err != nil {
		logging.Logger.Error("top sellers save failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "server_error")
		return
	}
	respondOK(c, gin.H{"month_key": monthKey, "saved": len(cleaned)})
}
