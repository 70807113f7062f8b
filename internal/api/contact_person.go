package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/middleware"
)

type ContactPersonHandler struct {
	logger *zap.Logger
}

func NewContactPersonHandler(logger *zap.Logger) *ContactPersonHandler {
	return &ContactPersonHandler{logger: logger}
}

// List handles GET /api/v1/contact-persons.
func (h *ContactPersonHandler) List(c *gin.Context) {
	contacts, ok := model(c, h.logger, "ContactPerson")
	if !ok {
		return
	}

	rows, err := contacts.Select(c.Request.Context(), "")
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

type createContactPersonRequest struct {
	FirstName      string     `json:"first_name" binding:"required"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email" binding:"omitempty,email"`
	Phone          string     `json:"phone"`
	OrganizationID *uuid.UUID `json:"organization_id"`
}

// Create handles POST /api/v1/contact-persons. OrganizationID is
// optional: a contact person may exist without an organization.
func (h *ContactPersonHandler) Create(c *gin.Context) {
	var req createContactPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	contacts, ok := model(c, h.logger, "ContactPerson")
	if !ok {
		return
	}

	claims := middleware.GetClaims(c)
	record, err := contacts.Insert(c.Request.Context(), map[string]any{
		"id":              uuid.New(),
		"first_name":      req.FirstName,
		"last_name":       req.LastName,
		"email":           req.Email,
		"phone":           req.Phone,
		"organization_id": req.OrganizationID,
		"owner_id":        claims.UserID,
	})
	if err != nil {
		respondQueryError(c, h.logger, err)
		return
	}
	respondData(c, http.StatusCreated, record)
}
