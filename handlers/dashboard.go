package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/antqd/davveroo/middleware"
	"github.com/antqd/davveroo/models"
)

// Dashboard serves the customer board. Sellers are pinned to their own
// agent; admins may filter with ?agent_id= or see everything.
func (h *Handlers) Dashboard(c *gin.Context) {
	var agentID *int64

	roles := middleware.Roles(c)
	isAdmin := contains(roles, "admin")

	if isAdmin {
		if raw := c.Query("agent_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				respondError(c, http.StatusBadRequest, "invalid_agent_id")
				return
			}
			agentID = &id
		}
	} else {
		// Seller: scope to the agent tied to their account. A seller with
		// no agent assigned keeps the unfiltered board the original served.
		user, err := models.GetUserByID(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respondError(c, http.StatusInternalServerError, "server_error")
			return
		}
		agentID = user.AgentID
	}

	items, err := h.ledger.Dashboard(c.Request.Context(), agentID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	respondOK(c, gin.H{"items": items})
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
