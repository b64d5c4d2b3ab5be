package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/antqd/davveroo/ledger"
)

// RecordPurchase creates a purchase; an active one unlocks the customer's
// pending referral. Sellers and admins only.
func (h *Handlers) RecordPurchase(c *gin.Context) {
	var req struct {
		CustomerID  int64      `json:"customer_id"`
		ProductID   int64      `json:"product_id"`
		Status      string     `json:"status"`
		Amount      *float64   `json:"amount"`
		PurchasedAt *time.Time `json:"purchased_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.CustomerID == 0 || req.ProductID == 0 {
		respondError(c, http.StatusBadRequest, "customer_id_and_product_id_required")
		return
	}

	id, err := h.ledger.RecordPurchase(c.Request.Context(), ledger.NewPurchase{
		CustomerID:  req.CustomerID,
		ProductID:   req.ProductID,
		Status:      req.Status,
		Amount:      req.Amount,
		PurchasedAt: req.PurchasedAt,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	respondOK(c, gin.H{"id": id})
}
