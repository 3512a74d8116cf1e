// Package messaging bridges the log broadcaster to websocket ops clients.
package messaging

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/logging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// OpsClient represents a single connected ops console client.
type OpsClient struct {
	Conn   *websocket.Conn
	Stream *logging.Client
}

// NewOpsClient wires a websocket connection to a filtered log stream.
func NewOpsClient(conn *websocket.Conn, filters logging.AppliedFilters) *OpsClient {
	return &OpsClient{
		Conn:   conn,
		Stream: logging.GetBroadcaster().NewClient(filters),
	}
}

// Run registers the client with the broadcaster and pumps log entries to
// the websocket until either side goes away. Blocks until done.
func (c *OpsClient) Run() {
	broadcaster := logging.GetBroadcaster()
	broadcaster.RegisterClient(c.Stream)
	defer func() {
		broadcaster.UnregisterClient(c.Stream)
		c.Conn.Close()
	}()

	// Reader goroutine: we never expect messages from the console, but
	// reading is required to process close frames and pong replies.
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Conn.SetReadLimit(512)
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		c.Conn.SetPongHandler(func(string) error {
			return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := c.Conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case message, ok := <-c.Stream.Channel:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
