package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/middleware"
)

// LeadHandler is representative of the tenant-scoped controllers: it
// holds no database reference of its own and works entirely through
// the model registry the db-context middleware bound to the request.
type LeadHandler struct {
	logger *zap.Logger
}

func NewLeadHandler(logger *zap.Logger) *LeadHandler {
	return &LeadHandler{logger: logger}
}

// List handles GET /api/v1/leads.
func (h *LeadHandler) List(c *gin.Context) {
	leads, ok := model(c, h.logger, "Lead")
	if !ok {
		return
	}

	rows, err := leads.Select(c.Request.Context(), "")
	if err != nil {
		respondQueryError(c, h.logger, err)
		return
	}
	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		respondQueryError(c, h.logger, err)
		return
	}
	respondData(c, http.StatusOK, records)
}

type createLeadRequest struct {
	Title       string  `json:"title" binding:"required"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email" binding:"omitempty,email"`
	Phone       string  `json:"phone"`
	CompanyName string  `json:"company_name"`
	Value       float64 `json:"estimated_value"`
}

// Create handles POST /api/v1/leads.
func (h *LeadHandler) Create(c *gin.Context) {
	var req createLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	leads, ok := model(c, h.logger, "Lead")
	if !ok {
		return
	}

	claims := middleware.GetClaims(c)
	record, err := leads.Insert(c.Request.Context(), map[string]any{
		"id":              uuid.New(),
		"title":           req.Title,
		"first_name":      req.FirstName,
		"last_name":       req.LastName,
		"email":           req.Email,
		"phone":           req.Phone,
		"company_name":    req.CompanyName,
		"estimated_value": req.Value,
		"owner_id":        claims.UserID,
	})
	if err != nil {
		respondQueryError(c, h.logger, err)
		return
	}
	respondData(c, http.StatusCreated, record)
}

// Get handles GET /api/v1/leads/:id.
func (h *LeadHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid lead id")
		return
	}

	leads, ok := model(c, h.logger, "Lead")
	if !ok {
		return
	}

	record, err := leads.GetByID(c.Request.Context(), id)
	if err != nil {
		respondQueryError(c, h.logger, err)
		return
	}
	respondData(c, http.StatusOK, record)
}

// Delete handles DELETE /api/v1/leads/:id. Notes and documents hang
// off the lead with cascade semantics, so they go with it.
func (h *LeadHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid lead id")
		return
	}

	leads, ok := model(c, h.logger, "Lead")
	if !ok {
		return
	}

	if err := leads.Delete(c.Request.Context(), id); err != nil {
		respondQueryError(c, h.logger, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": id})
}
