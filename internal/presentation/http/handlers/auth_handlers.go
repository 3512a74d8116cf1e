// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/StoryNest/storynest-go/internal/application/services"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/logging"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/performance"
	"github.com/StoryNest/storynest-go/internal/infrastructure/security"
)

const authCookieMaxAge = 86400 // 24 hours in seconds

// AuthHandlers contains all authentication-related HTTP handlers
type AuthHandlers struct {
	authService *services.AuthService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(authService *services.AuthService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// LoginRequest represents the structure for login requests
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// PostLogin handles POST /api/v1/auth/login - admin/editor authentication
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_login_request")
	defer marker.Complete()
	h.logger.Auth().Debug("Received login request", "method", c.Request.Method, "path", c.Request.URL.Path)

	var loginReq LoginRequest
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		h.logger.Auth().Error("Login request JSON binding failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.authService.Authenticate(loginReq.Email, loginReq.Password)
	if err != nil {
		h.logger.Auth().Error("Login failed with internal error", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication unavailable"})
		return
	}

	if !result.Success {
		h.logger.Auth().Warn("Login attempt failed", "error", result.Error, "duration", time.Since(start))
		marker.SetSuccess(false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": result.Error})
		return
	}

	// Set role-specific HTTP-only cookie
	cookieName := "admin_auth"
	if result.Role == "editor" {
		cookieName = "editor_auth"
	}

	c.SetCookie(
		cookieName,       // name (admin_auth or editor_auth)
		result.Token,     // value
		authCookieMaxAge, // maxAge
		"/",              // path
		"",               // domain (empty for current domain)
		false,            // secure (set to true in production)
		true,             // httpOnly
	)

	h.logger.Auth().Info("Login successful", "role", result.Role, "duration", time.Since(start))
	marker.SetSuccess(true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"role":    result.Role,
		"message": "Login successful",
	})
}

// PostLogout handles POST /api/v1/auth/logout - clears authentication cookies
func (h *AuthHandlers) PostLogout(c *gin.Context) {
	// Clear both admin and editor auth cookies by setting them to expired
	c.SetCookie("admin_auth", "", -1, "/", "", false, true)
	c.SetCookie("editor_auth", "", -1, "/", "", false, true)

	h.logger.Auth().Info("Logout completed")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logout successful",
	})
}

// GetAuthStatus handles GET /api/v1/auth/status - checks current authentication status
func (h *AuthHandlers) GetAuthStatus(c *gin.Context) {
	token, method := extractToken(c)

	if token == "" {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	claims, ok := h.authService.ValidateAdminOrEditor(token)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"method":        method,
		"role":          security.RoleFromClaims(claims),
		"email":         claims["email"],
	})
}

// AuthMiddleware admits any admin or editor token.
func (h *AuthHandlers) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := extractToken(c)
		if token != "" {
			if claims, ok := h.authService.ValidateAdminOrEditor(token); ok {
				c.Set("role", security.RoleFromClaims(claims))
				c.Set("userId", security.UserIDFromClaims(claims))
				c.Next()
				return
			}
		}

		h.logger.Auth().Warn("Unauthorized access attempt", "path", c.Request.URL.Path)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		c.Abort()
	}
}

// AdminOnlyMiddleware admits admin tokens only.
func (h *AuthHandlers) AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := extractToken(c)
		if token != "" {
			if claims, ok := h.authService.ValidateAdmin(token); ok {
				c.Set("role", security.RoleFromClaims(claims))
				c.Set("userId", security.UserIDFromClaims(claims))
				c.Next()
				return
			}
		}

		h.logger.Auth().Warn("Unauthorized admin access attempt", "path", c.Request.URL.Path)
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		c.Abort()
	}
}

// extractToken pulls the auth token from the Authorization header or,
// failing that, the role cookies.
func extractToken(c *gin.Context) (token, method string) {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer "), "bearer"
	}

	if adminCookie, err := c.Cookie("admin_auth"); err == nil && adminCookie != "" {
		return adminCookie, "cookie"
	}
	if editorCookie, err := c.Cookie("editor_auth"); err == nil && editorCookie != "" {
		return editorCookie, "cookie"
	}
	return "", ""
}
