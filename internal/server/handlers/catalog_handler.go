package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kmbaye/pricetracker/internal/auth"
	"github.com/kmbaye/pricetracker/internal/domain/models"
	"github.com/kmbaye/pricetracker/internal/service/catalog"
)

// CatalogHandler exposes product and store management over HTTP.
type CatalogHandler struct {
	svc    catalog.Manager
	logger *zap.Logger
}

// NewCatalogHandler constructs the HTTP handler adapter.
func NewCatalogHandler(svc catalog.Manager, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{svc: svc, logger: logger}
}

// AddProduct creates or merges a product for the authenticated user.
func (h *CatalogHandler) AddProduct(c *gin.Context) {
	var in models.CreateProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := h.svc.AddProduct(c.Request.Context(), auth.UserID(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListProducts returns the user's products, optionally filtered by category.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.svc.ListProducts(c.Request.Context(), auth.UserID(c), c.Query("category"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	c.JSON(http.StatusOK, gin.H{"data": products})
}

// GetProduct returns one product.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.svc.GetProduct(c.Request.Context(), c.Param("id"), auth.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}

// UpdateProduct applies a partial update to one product.
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var in models.UpdateProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.UpdateProduct(c.Request.Context(), c.Param("id"), auth.UserID(c), in); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveProduct deletes a product and cascades over its price entries. The
// seeded default product is refused here; the catalog service itself does not
// enforce the guard.
func (h *CatalogHandler) RemoveProduct(c *gin.Context) {
	userID := auth.UserID(c)
	id := c.Param("id")

	product, err := h.svc.GetProduct(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if strings.EqualFold(product.Name, catalog.DefaultProductName) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "default product cannot be removed"})
		return
	}

	if err := h.svc.RemoveProduct(c.Request.Context(), id, userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddStore creates or merges a store for the authenticated user.
func (h *CatalogHandler) AddStore(c *gin.Context) {
	var in models.CreateStoreInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := h.svc.AddStore(c.Request.Context(), auth.UserID(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListStores returns the user's stores, optionally filtered by location.
func (h *CatalogHandler) ListStores(c *gin.Context) {
	stores, err := h.svc.ListStores(c.Request.Context(), auth.UserID(c), c.Query("location"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if stores == nil {
		stores = []models.Store{}
	}

	c.JSON(http.StatusOK, gin.H{"data": stores})
}

// GetStore returns one store.
func (h *CatalogHandler) GetStore(c *gin.Context) {
	store, err := h.svc.GetStore(c.Request.Context(), c.Param("id"), auth.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": store})
}

// UpdateStore applies a partial update to one store.
func (h *CatalogHandler) UpdateStore(c *gin.Context) {
	var in models.UpdateStoreInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.UpdateStore(c.Request.Context(), c.Param("id"), auth.UserID(c), in); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveStore deletes a store and cascades over its price entries, refusing
// the seeded default store.
func (h *CatalogHandler) RemoveStore(c *gin.Context) {
	userID := auth.UserID(c)
	id := c.Param("id")

	store, err := h.svc.GetStore(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if strings.EqualFold(store.Name, catalog.DefaultStoreName) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "default store cannot be removed"})
		return
	}

	if err := h.svc.RemoveStore(c.Request.Context(), id, userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Bootstrap seeds the starter catalog for a fresh user. Safe to call on every
// login.
func (h *CatalogHandler) Bootstrap(c *gin.Context) {
	if err := h.svc.BootstrapIfEmpty(c.Request.Context(), auth.UserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
