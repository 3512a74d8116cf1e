package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/StoryNest/storynest-go/internal/application/services"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/logging"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/performance"
)

// DashboardHandlers contains the analytics dashboard HTTP handlers
type DashboardHandlers struct {
	dashboardService *services.DashboardService
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

// NewDashboardHandlers creates dashboard handlers with injected dependencies
func NewDashboardHandlers(dashboardService *services.DashboardService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *DashboardHandlers {
	return &DashboardHandlers{
		dashboardService: dashboardService,
		logger:           logger,
		perfTracker:      perfTracker,
	}
}

// GetDashboard handles GET /api/v1/analytics/dashboard - the console's
// overview snapshot computed as of the request time.
func (h *DashboardHandlers) GetDashboard(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_dashboard_request")
	defer marker.Complete()

	snapshot, err := h.dashboardService.Compute(time.Now())
	if err != nil {
		h.logger.Analytics().Error("Dashboard computation failed", "error", err.Error(), "duration", time.Since(start))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Analytics().Info("Dashboard served", "duration", time.Since(start))
	c.JSON(http.StatusOK, snapshot)
}
