package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kmbaye/pricetracker/internal/auth"
	"github.com/kmbaye/pricetracker/internal/domain/models"
	"github.com/kmbaye/pricetracker/internal/service/pricing"
)

// PricingHandler exposes the observation engine over HTTP.
type PricingHandler struct {
	svc    pricing.Engine
	logger *zap.Logger
}

// NewPricingHandler constructs the HTTP handler adapter.
func NewPricingHandler(svc pricing.Engine, logger *zap.Logger) *PricingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PricingHandler{svc: svc, logger: logger}
}

// RecordObservation reconciles a price report. 201 when the tuple was new,
// 200 when an existing observation was updated in place.
func (h *PricingHandler) RecordObservation(c *gin.Context) {
	var in models.CreatePriceEntryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entry, err := h.svc.RecordObservation(c.Request.Context(), auth.UserID(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if entry.CreatedAt.Equal(entry.UpdatedAt) {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"data": entry})
}

// ListEntries returns the user's observations, newest first. A positive
// ?days= query narrows to the recent window.
func (h *PricingHandler) ListEntries(c *gin.Context) {
	userID := auth.UserID(c)

	var entries []models.PriceEntry
	var err error
	if raw := c.Query("days"); raw != "" {
		days, convErr := strconv.Atoi(raw)
		if convErr != nil || days <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		entries, err = h.svc.RecentEntries(c.Request.Context(), userID, days)
	} else {
		entries, err = h.svc.ListEntries(c.Request.Context(), userID)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if entries == nil {
		entries = []models.PriceEntry{}
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// RemoveObservation deletes one observation.
func (h *PricingHandler) RemoveObservation(c *gin.Context) {
	if err := h.svc.RemoveObservation(c.Request.Context(), c.Param("id"), auth.UserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// BestPrice returns the cheapest observation for a product, 404 when the
// product has none.
func (h *PricingHandler) BestPrice(c *gin.Context) {
	entry, err := h.svc.BestPrice(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no price entries for product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entry})
}

// Comparison returns a product's observations across stores, cheapest first.
func (h *PricingHandler) Comparison(c *gin.Context) {
	entries, err := h.svc.Comparison(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if entries == nil {
		entries = []models.PriceEntry{}
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// Trend reports the direction between the product's two most recently updated
// observations. "defined" is false when fewer than two exist.
func (h *PricingHandler) Trend(c *gin.Context) {
	direction, ok, err := h.svc.ProductTrend(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trend": direction, "defined": ok})
}

// BestPrices returns the cheapest observation per product across the user's
// whole collection.
func (h *PricingHandler) BestPrices(c *gin.Context) {
	best, err := h.svc.BestPricesByProduct(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": best})
}

// Stats summarizes the user's collection.
func (h *PricingHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Statistics(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}
