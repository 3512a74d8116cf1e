package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/StoryNest/storynest-go/internal/application/services"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/logging"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/performance"
)

// UserHandlers contains all account management HTTP handlers
type UserHandlers struct {
	userService *services.UserService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewUserHandlers creates user handlers with injected dependencies
func NewUserHandlers(userService *services.UserService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *UserHandlers {
	return &UserHandlers{
		userService: userService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetUsers handles GET /api/v1/users - lists all accounts
func (h *UserHandlers) GetUsers(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_users_request")
	defer marker.Complete()

	users, err := h.userService.List()
	if err != nil {
		h.logger.Auth().Error("Failed to list accounts", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load accounts"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, users)
}

// PostUser handles POST /api/v1/users - provisions an account
func (h *UserHandlers) PostUser(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		Role  string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	user, tempPassword, err := h.userService.Create(req.Email, req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The temporary password is shown once so the admin can hand it over
	// when email delivery is not configured.
	c.JSON(http.StatusCreated, gin.H{
		"user":         user,
		"tempPassword": tempPassword,
	})
}

// PutUserRole handles PUT /api/v1/users/:id/role
func (h *UserHandlers) PutUserRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.userService.UpdateRole(c.Param("id"), req.Role); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteUser handles DELETE /api/v1/users/:id
func (h *UserHandlers) DeleteUser(c *gin.Context) {
	if err := h.userService.Delete(c.Param("id")); err != nil {
		h.logger.Auth().Error("Account delete failed", "error", err.Error(), "id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
