package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/middleware"
)

type OrganizationHandler struct {
	logger *zap.Logger
}

func NewOrganizationHandler(logger *zap.Logger) *OrganizationHandler {
	return &OrganizationHandler{logger: logger}
}

// List handles GET /api/v1/organizations.
func (h *OrganizationHandler) List(c *gin.Context) {
	orgs, ok := model(c, h.logger, "Organization")
	if !ok {
		return
	}

	rows, err := orgs.Select(c.Request.Context(), "")
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

type createOrganizationRequest struct {
	Name    string `json:"name" binding:"required"`
	Website string `json:"website"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Create handles POST /api/v1/organizations.
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	orgs, ok := model(c, h.logger, "Organization")
	if !ok {
		return
	}

	claims := middleware.GetClaims(c)
	record, err := orgs.Insert(c.Request.Context(), map[string]any{
		"id":       uuid.New(),
		"name":     req.Name,
		"website":  req.Website,
		"phone":    req.Phone,
		"address":  req.Address,
		"owner_id": claims.UserID,
	})
	if err != nil {
		respondQueryError(c, h.logger, err)
		return
	}
	respondData(c, http.StatusCreated, record)
}

// ContactPersons handles GET /api/v1/organizations/:id/contact-persons
// by traversing the declared Organization→ContactPersons relation.
func (h *OrganizationHandler) ContactPersons(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid organization id")
		return
	}

	orgs, ok := model(c, h.logger, "Organization")
	if !ok {
		return
	}

	rows, err := orgs.Related(c.Request.Context(), "ContactPersons", id)
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
