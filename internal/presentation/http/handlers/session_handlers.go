package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/StoryNest/storynest-go/internal/application/services"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/logging"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/performance"
)

// SessionHandlers contains the reading-session HTTP handlers
type SessionHandlers struct {
	sessionService *services.SessionService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewSessionHandlers creates session handlers with injected dependencies
func NewSessionHandlers(sessionService *services.SessionService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SessionHandlers {
	return &SessionHandlers{
		sessionService: sessionService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// PostSession handles POST /api/v1/sessions - records a reading session
// reported by the reader app. userId and bookId are both optional.
func (h *SessionHandlers) PostSession(c *gin.Context) {
	marker := h.perfTracker.StartOperation("post_session_request")
	defer marker.Complete()

	var req struct {
		UserID    string `json:"userId"`
		BookID    string `json:"bookId"`
		Completed bool   `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	session, err := h.sessionService.Record(req.UserID, req.BookID, req.Completed)
	if err != nil {
		h.logger.Analytics().Error("Failed to record reading session", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record session"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusCreated, session)
}

// GetSessions handles GET /api/v1/sessions - lists recorded sessions
func (h *SessionHandlers) GetSessions(c *gin.Context) {
	sessions, err := h.sessionService.List()
	if err != nil {
		h.logger.Analytics().Error("Failed to list reading sessions", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sessions"})
		return
	}
	c.JSON(http.StatusOK, sessions)
}
