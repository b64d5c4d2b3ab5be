package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/antqd/davveroo/database"
)

func (h *Handlers) Ping(c *gin.Context) {
	respondOK(c, gin.H{"ping": "pong"})
}

func (h *Handlers) HealthDB(c *gin.Context) {
	var one int
	if err := database.Pool.QueryRow(c.Request.Context(), "SELECT 1").Scan(&one); err != nil {
		respondError(c, http.StatusInternalServerError, "db_error")
		return
	}
	respondOK(c, gin.H{"db": one})
}
