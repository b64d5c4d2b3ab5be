package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/antqd/davveroo/ledger"
)

// CreateCustomer creates a customer, optionally linked to the referrer who
// brought them in. Sellers and admins only.
func (h *Handlers) CreateCustomer(c *gin.Context) {
	var req struct {
		FullName     string  `json:"full_name"`
		Email        *string `json:"email"`
		Phone        *string `json:"phone"`
		AgentID      *int64  `json:"agent_id"`
		RegisteredBy *int64  `json:"registered_by_customer_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body")
		return
	}
	if strings.TrimSpace(req.FullName) == "" {
		respondError(c, http.StatusBadRequest, "full_name_required")
		return
	}

	id, err := h.ledger.CreateCustomer(c.Request.Context(), ledger.NewCustomer{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        req.Email,
		Phone:        req.Phone,
		AgentID:      req.AgentID,
		RegisteredBy: req.RegisteredBy,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	respondOK(c, gin.H{"id": id})
}

// CustomerCredit returns the net redeemable credit for a customer.
func (h *Handlers) CustomerCredit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	credit, err := h.ledger.CustomerCredit(c.Request.Context(), id)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	respondOK(c, gin.H{"credit_eur": credit})
}

// CustomerReferrals lists a customer's referrals, newest first.
func (h *Handlers) CustomerReferrals(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	items, err := h.ledger.ListCustomerReferrals(c.Request.Context(), id)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	respondOK(c, gin.H{"items": items})
}

// RedeemCredit pays out part of a customer's credit. Rejected when the
// amount exceeds what is currently redeemable.
func (h *Handlers) RedeemCredit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		AmountCents int64  `json:"amount_cents"`
		Method      string `json:"method"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body")
		return
	}

	remaining, err := h.ledger.RedeemCredit(c.Request.Context(), id, req.AmountCents, req.Method)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	respondOK(c, gin.H{"credit_eur": remaining})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_id")
		return 0, false
	}
	return id, true
}
