package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/auth"
	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/config"
	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/registry"
)

// SessionHandler is the only public endpoint besides the health check:
// it authenticates a client against the central registry and issues
// the signed credential that every other endpoint requires. The caller
// doesn't have a token yet — that's what this endpoint produces.
type SessionHandler struct {
	clients registry.ClientStore
	cfg     *config.Config
	logger  *zap.Logger
}

func NewSessionHandler(clients registry.ClientStore, cfg *config.Config, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{clients: clients, cfg: cfg, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/session.
//
// Login works against the registry's own clients table, never a tenant
// database: at this point no tenant connection exists yet. The issued
// token's client id is what the db-context middleware later resolves
// into connection parameters.
func (h *SessionHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	client, err := h.clients.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		// Same response for unknown email and wrong password, so the
		// endpoint doesn't leak which clients exist.
		respondMessage(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte(req.Password)); err != nil {
		respondMessage(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// The registry account is the tenant's admin identity; per-user
	// accounts live inside the tenant database and get their ids
	// stamped into tokens by the (out of scope) user-management flows.
	token, err := auth.GenerateToken(client.ID, client.ID, client.Email, "admin", h.cfg.JWTSecret, h.cfg.JWTTTL)
	if err != nil {
		h.logger.Error("failed to sign token", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.Info("client logged in",
		zap.String("client_id", client.ID.String()),
		zap.String("company", client.CompanyName),
	)
	respondData(c, http.StatusOK, gin.H{"token": token})
}
