// Package performance provides performance tracking and monitoring
// capabilities for StoryNest operations with real-time metrics.
package performance

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// Tracker manages performance markers and provides metrics aggregation
type Tracker struct {
	markers map[string]*Marker // Active and completed markers by unique ID
	mu      sync.RWMutex       // Protects concurrent access
	started time.Time          // When tracking started
	config  *TrackerConfig     // Tracker configuration
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxMarkers      int           `json:"maxMarkers"`      // Maximum number of markers to retain
	CleanupInterval time.Duration `json:"cleanupInterval"` // How often to clean up old data
	RetainFor       time.Duration `json:"retainFor"`       // How long completed markers are kept
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkers:      1000,
		CleanupInterval: time.Minute * 10,
		RetainFor:       time.Hour,
	}
}

// NewTracker creates a new performance tracker with the given configuration.
// The tracker is a process-lifetime singleton; its cleanup loop runs until
// the process exits.
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}

	t := &Tracker{
		markers: make(map[string]*Marker),
		started: time.Now(),
		config:  config,
	}

	if config.CleanupInterval > 0 {
		go t.cleanupLoop()
	}
	return t
}

func (t *Tracker) cleanupLoop() {
	ticker := time.NewTicker(t.config.CleanupInterval)
	defer ticker.Stop()
	for range ticker.C {
		t.Cleanup()
	}
}

// StartOperation creates and tracks a new performance marker for an operation
func (t *Tracker) StartOperation(operation string) *Marker {
	marker := &Marker{
		Operation: operation,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true, // Assume success until proven otherwise
	}

	markerID := fmt.Sprintf("%s_%d", operation, time.Now().UnixNano())

	t.mu.Lock()
	t.markers[markerID] = marker
	if len(t.markers) > t.config.MaxMarkers {
		t.pruneLocked()
	}
	t.mu.Unlock()

	return marker
}

// GetRecentMetrics returns metrics for operations completed within the specified duration
func (t *Tracker) GetRecentMetrics(within time.Duration) []Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cutoff := time.Now().Add(-within)
	var metrics []Marker

	for _, marker := range t.markers {
		if marker.Completed && marker.EndTime.After(cutoff) {
			metrics = append(metrics, *marker)
		}
	}
	return metrics
}

// GetRecentMetricsFor returns recent metrics whose operation matches a prefix,
// e.g. "analytics:" or "auth:".
func (t *Tracker) GetRecentMetricsFor(prefix string, within time.Duration) []Marker {
	var matched []Marker
	for _, marker := range t.GetRecentMetrics(within) {
		if strings.HasPrefix(marker.Operation, prefix) {
			matched = append(matched, marker)
		}
	}
	return matched
}

// GetActiveOperations returns currently running operations
func (t *Tracker) GetActiveOperations() []Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var active []Marker
	for _, marker := range t.markers {
		if !marker.Completed {
			snapshot := *marker
			// Report live duration for operations still in flight.
			snapshot.Duration = time.Since(marker.StartTime)
			active = append(active, snapshot)
		}
	}
	return active
}

// Cleanup removes old markers to prevent memory leaks
func (t *Tracker) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked()
}

// pruneLocked drops completed markers past the retention window, then drops
// the oldest completed markers until the map fits the cap. In-flight markers
// are never dropped. Callers must hold t.mu.
func (t *Tracker) pruneLocked() {
	cutoff := time.Now().Add(-t.config.RetainFor)
	for id, marker := range t.markers {
		if marker.Completed && marker.EndTime.Before(cutoff) {
			delete(t.markers, id)
		}
	}

	if len(t.markers) <= t.config.MaxMarkers {
		return
	}

	type aged struct {
		id  string
		end time.Time
	}
	var completed []aged
	for id, marker := range t.markers {
		if marker.Completed {
			completed = append(completed, aged{id: id, end: marker.EndTime})
		}
	}
	sort.Slice(completed, func(i, j int) bool { return completed[i].end.Before(completed[j].end) })

	for _, c := range completed {
		if len(t.markers) <= t.config.MaxMarkers {
			break
		}
		delete(t.markers, c.id)
	}
}

// GetOverallStats returns overall tracker statistics
func (t *Tracker) GetOverallStats() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	activeCount := 0
	completedCount := 0

	for _, marker := range t.markers {
		if marker.Completed {
			completedCount++
		} else {
			activeCount++
		}
	}

	return map[string]any{
		"trackerUptime":       time.Since(t.started),
		"totalMarkers":        len(t.markers),
		"activeOperations":    activeCount,
		"completedOperations": completedCount,
		"memoryUsageMB":       memStats.Alloc / (1024 * 1024),
		"systemMemoryMB":      memStats.Sys / (1024 * 1024),
	}
}
