package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kmbaye/pricetracker/internal/domain/models"
)

// respondError maps domain errors to HTTP statuses: validation 400, missing
// entity 404, anything else is treated as a backing-store failure and
// surfaced as 502 without retrying.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		logger.Error("backing store failure", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "backing store failure"})
	}
}
