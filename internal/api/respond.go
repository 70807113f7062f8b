package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/entity"
	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/middleware"
)

// All handlers answer the same envelope: {"success": ..., either
// "data" or "message"}. The db-context middleware uses the identical
// error shape, so clients parse one format everywhere.

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// model fetches an entity accessor from the request's registry.
// ErrUnknownEntity here is a programming error in the handler itself —
// log it loudly and answer 500; there is nothing the caller can fix.
func model(c *gin.Context, logger *zap.Logger, name string) (*entity.Model, bool) {
	reg := middleware.GetModels(c)
	if reg == nil {
		logger.Error("handler reached without bound model registry", zap.String("entity", name))
		respondMessage(c, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}

	m, err := reg.Model(name)
	if err != nil {
		logger.Error("unknown entity requested by handler",
			zap.String("entity", name),
			zap.Error(err),
		)
		respondMessage(c, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	return m, true
}

// respondQueryError maps data-access failures: a missing row is the
// caller's 404, anything else is a 500.
func respondQueryError(c *gin.Context, logger *zap.Logger, err error) {
	if errors.Is(err, pgx.ErrNoRows) {
		respondMessage(c, http.StatusNotFound, "Record not found")
		return
	}
	logger.Error("query failed", zap.Error(err))
	respondMessage(c, http.StatusInternalServerError, "Internal server error")
}
