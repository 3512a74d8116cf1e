package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/StoryNest/storynest-go/internal/infrastructure/messaging"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/logging"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/performance"
)

// OpsHandlers exposes the live log stream, performance metrics, and
// runtime log-level controls used by the console's operations page.
type OpsHandlers struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	upgrader    websocket.Upgrader
}

// NewOpsHandlers creates ops handlers with injected dependencies
func NewOpsHandlers(logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *OpsHandlers {
	return &OpsHandlers{
		logger:      logger,
		perfTracker: perfTracker,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The console runs on a separate origin in development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// StreamLogs handles GET /api/v1/logs/stream - upgrades to a websocket
// and forwards broadcast log entries matching the requested filters.
func (h *OpsHandlers) StreamLogs(c *gin.Context) {
	filters := logging.AppliedFilters{
		Channel: logging.Channel(c.DefaultQuery("channel", "all")),
		Level:   parseLevel(c.DefaultQuery("level", "info")),
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.System().Error("Log stream upgrade failed", "error", err.Error())
		return
	}

	h.logger.System().Info("Log stream client connected", "channel", filters.Channel)
	go messaging.NewOpsClient(conn, filters).Run()
}

// GetMetrics handles GET /api/v1/ops/metrics - overall tracker stats,
// in-flight operations, and recently completed markers. The window
// defaults to an hour; an operation prefix narrows the recent list.
func (h *OpsHandlers) GetMetrics(c *gin.Context) {
	within, err := time.ParseDuration(c.DefaultQuery("within", "1h"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid within duration"})
		return
	}

	var recent []performance.Marker
	if prefix := c.Query("prefix"); prefix != "" {
		recent = h.perfTracker.GetRecentMetricsFor(prefix, within)
	} else {
		recent = h.perfTracker.GetRecentMetrics(within)
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":  h.perfTracker.GetOverallStats(),
		"active": h.perfTracker.GetActiveOperations(),
		"recent": recent,
	})
}

// GetLogLevels handles GET /api/v1/logs/levels
func (h *OpsHandlers) GetLogLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"levels": h.logger.GetChannelLevels()})
}

// PostLogLevel handles POST /api/v1/logs/levels - adjusts one channel's
// level at runtime.
func (h *OpsHandlers) PostLogLevel(c *gin.Context) {
	var req struct {
		Channel string `json:"channel" binding:"required"`
		Level   string `json:"level" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.logger.SetChannelLevel(logging.Channel(req.Channel), parseLevel(req.Level)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.System().Info("Log level changed", "channel", req.Channel, "level", req.Level)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
