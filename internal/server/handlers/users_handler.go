package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kmbaye/pricetracker/internal/auth"
	"github.com/kmbaye/pricetracker/internal/domain/models"
	"github.com/kmbaye/pricetracker/internal/service/users"
)

// UsersHandler exposes the authenticated user's own profile.
type UsersHandler struct {
	svc    users.ProfileService
	logger *zap.Logger
}

// NewUsersHandler constructs the HTTP handler adapter.
func NewUsersHandler(svc users.ProfileService, logger *zap.Logger) *UsersHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UsersHandler{svc: svc, logger: logger}
}

// Me returns the caller's profile.
func (h *UsersHandler) Me(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

// UpsertMe merges the caller's identity-provider profile, typically invoked
// right after login.
func (h *UsersHandler) UpsertMe(c *gin.Context) {
	var in models.UpsertUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.UpsertUser(c.Request.Context(), auth.UserID(c), in); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
