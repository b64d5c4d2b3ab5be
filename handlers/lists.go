package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/antqd/davveroo/logging"
	"github.com/antqd/davveroo/models"
)

// Support lists consumed by the SPA forms; left open like the original.

func (h *Handlers) ListAgents(c *gin.Context) {
	items, err := models.ListAgents(c.Request.Context())
	if err != nil {
		logging.Logger.Error("agents list failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "server_error")
		return
	}
	respondOK(c, gin.H{"items": items})
}

func (h *Handlers) ListProducts(c *gin.Context) {
	items, err := models.ListActiveProducts(c.Request.Context())
	if err != nil {
		logging.Logger.Error("products list failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "server_error")
		return
	}
	respondOK(c, gin.H{"items": items})
}

func (h *Handlers) SearchCustomers(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	items, err := models.SearchCustomers(c.Request.Context(), q)
	if err != nil {
		logging.Logger.Error("customer search failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "server_error")
		return
	}
	respondOK(c, gin.H{"items": items})
}
