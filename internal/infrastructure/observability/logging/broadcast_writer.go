// Package logging provides the custom io.Writer for live log streaming.
package logging

import (
	"encoding/json"
	"log/slog"
	"time"
)

// BroadcastWriter is a custom io.Writer that intercepts log messages
// and forwards them to the LogBroadcaster.
type BroadcastWriter struct {
	broadcaster *LogBroadcaster
}

// NewBroadcastWriter creates a new writer that sends log data to the broadcaster.
func NewBroadcastWriter() *BroadcastWriter {
	return &BroadcastWriter{
		broadcaster: GetBroadcaster(),
	}
}

// Write receives log messages as JSON bytes, parses them, and submits
// them to the broadcaster for distribution.
func (w *BroadcastWriter) Write(p []byte) (n int, err error) {
	var rawLog map[string]any
	if err := json.Unmarshal(p, &rawLog); err != nil {
		// Non-JSON output, e.g. from a text handler. Report the parse
		// failure as a plain entry.
		go w.broadcaster.SubmitLog(LogEntry{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Level:     slog.LevelError.String(),
			Channel:   string(ChannelSystem),
			Message:   "broadcast_writer: failed to parse incoming log message",
		})
		return len(p), nil
	}

	entry := LogEntry{
		Timestamp: w.getString(rawLog, "time"),
		Level:     w.getString(rawLog, "level"),
		Channel:   w.getString(rawLog, "channel"),
		Message:   w.getString(rawLog, "msg"),
	}

	// Submit in a goroutine to avoid blocking the logging call.
	go w.broadcaster.SubmitLog(entry)

	return len(p), nil
}

// getString is a helper to safely extract a string value from the log map.
func (w *BroadcastWriter) getString(data map[string]any, key string) string {
	if val, ok := data[key]; ok {
		if strVal, ok := val.(string); ok {
			return strVal
		}
	}
	return ""
}
