package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/antqd/davveroo/config"
	"github.com/antqd/davveroo/ledger"
	"github.com/antqd/davveroo/logging"
)

// Handlers bundles the HTTP surface around the ledger. Constructed once in
// main and registered on the router.
type Handlers struct {
	cfg    *config.Config
	ledger *ledger.Ledger
}

func New(cfg *config.Config, l *ledger.Ledger) *Handlers {
	return &Handlers{cfg: cfg, ledger: l}
}

// respondOK writes the canonical success envelope: {ok:true, ...payload}.
func respondOK(c *gin.Context, payload gin.H) {
	out := gin.H{"ok": true}
	for k, v := range payload {
		out[k] = v
	}
	c.JSON(http.StatusOK, out)
}

func respondError(c *gin.Context, status int, code string) {
	c.JSON(status, gin.H{"ok": false, "error": code})
}

// respondLedgerError maps the ledger error taxonomy onto HTTP statuses.
// Persistence failures stay opaque to the caller.
func respondLedgerError(c *gin.Context, err error) {
	var (
		validation *ledger.ValidationError
		reference  *ledger.InvalidReferenceError
		conflict   *ledger.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		respondError(c, http.StatusBadRequest, validation.Code)
	case errors.As(err, &reference):
		respondError(c, http.StatusBadRequest, reference.Code())
	case errors.As(err, &conflict):
		respondError(c, http.StatusConflict, conflict.Code)
	default:
		logging.Logger.Error("ledger operation failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "server_error")
	}
}
