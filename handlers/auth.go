package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/antqd/davveroo/auth"
	"github.com/antqd/davveroo/logging"
	"github.com/antqd/davveroo/middleware"
	"github.com/antqd/davveroo/models"
)

// Register creates a user, defaulting the role set to customer. The
// optional customer_id ties the login to its customer row instead of
// assuming the two id spaces coincide.
func (h *Handlers) Register(c *gin.Context) {
	var req struct {
		Name       string   `json:"name"`
		Email      string   `json:"email"`
		Password   string   `json:"password"`
		Roles      []string `json:"roles"`
		CustomerID *int64   `json:"customer_id"`
		AgentID    *int64   `json:"agent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body")
		return
	}

	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "name_email_password_required")
		return
	}
	roles := models.NormalizeRoles(req.Roles)

	taken, err := models.EmailTaken(c.Request.Context(), email)
	if err != nil {
		logging.Logger.Error("email lookup failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "server_error")
		return
	}
	if taken {
		respondError(c, http.StatusConflict, "email_exists")
		return
	}

	user, err := models.CreateUser(c.Request.Context(), name, email, req.Password, roles, req.CustomerID, req.AgentID)
	if err != nil {
		logging.Logger.Error("user create failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "server_error")
		return
	}

	token, err := auth.GenerateToken(h.cfg, user.ID, user.Roles)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "server_error")
		return
	}
	respondOK(c, gin.H{"token": token, "user": user})
}

func (h *Handlers) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "email_password_required")
		return
	}

	user, err := models.FindUserByEmail(c.Request.Context(), email)
	if err != nil || !models.CheckPasswordHash(req.Password, user.Password) {
		respondError(c, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	token, err := auth.GenerateToken(h.cfg, user.ID, user.Roles)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "server_error")
		return
	}
	user.Password = ""
	respondOK(c, gin.H{"token": token, "user": user})
}

func (h *Handlers) Me(c *gin.Context) {
	user, err := models.GetUserByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, http.StatusNotFound, "not_found")
		return
	}
	respondOK(c, gin.H{"user": user})
}
