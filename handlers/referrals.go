package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CreateReferral is the invite-a-friend endpoint: any authenticated user
// may register a friend against an existing customer.
func (h *Handlers) CreateReferral(c *gin.Context) {
	var req struct {
		ReferrerCustomerID int64   `json:"referrer_customer_id"`
		FriendFullName     string  `json:"friend_full_name"`
		FriendEmail        *string `json:"friend_email"`
		AgentID            *int64  `json:"agent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body")
		return
	}
	friendName := strings.TrimSpace(req.FriendFullName)
	if req.ReferrerCustomerID == 0 || friendName == "" {
		respondError(c, http.StatusBadRequest, "referrer_customer_id_and_friend_full_name_required")
		return
	}

	referralID, friendID, err := h.ledger.CreateReferral(
		c.Request.Context(), req.ReferrerCustomerID, friendName, req.FriendEmail, req.AgentID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	respondOK(c, gin.H{"referral_id": referralID, "friend_customer_id": friendID})
}
