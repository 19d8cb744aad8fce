package display

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"stagehub/internal/models"
)

const (
	reconnectMin = time.Second
	reconnectMax = 30 * time.Second
	readTimeout  = 90 * time.Second
	pingEvery    = 30 * time.Second
)

// Event is one item from the push channel: exactly one field is set.
type Event struct {
	State        *models.PresentationState
	ConfigSignal *models.ScreenConfigSignal
	Preview      *models.ScreenConfigPreview
	Status       *ConnStatus
}

// Connection maintains the display's push channel to the hub: it dials,
// reads messages into typed events, emits connectivity status changes,
// and reconnects with backoff. Regressing presentation_state messages
// (updatedAt not newer than the last applied one) are discarded here, so
// out-of-order and duplicate delivery never reach the engine.
type Connection struct {
	logger *zap.Logger
	url    string
	events chan Event

	lastApplied int64
}

// NewConnection creates a connection to the hub's /ws endpoint.
func NewConnection(logger *zap.Logger, url string) *Connection {
	return &Connection{
		logger: logger,
		url:    url,
		events: make(chan Event, 32),
	}
}

// Events returns the typed event stream.
func (c *Connection) Events() <-chan Event {
	return c.events
}

// Start runs the connect/read/reconnect loop until ctx is cancelled.
// It returns immediately.
func (c *Connection) Start(ctx context.Context) {
	go c.runLoop(ctx)
}

func (c *Connection) runLoop(ctx context.Context) {
	backoff := reconnectMin
	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
		if err != nil {
			c.emitStatus(StatusDisconnected)
			c.logger.Warn("Hub dial failed",
				zap.String("url", c.url),
				zap.Duration("retryIn", backoff),
				zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff *= 2; backoff > reconnectMax {
				backoff = reconnectMax
			}
			continue
		}

		backoff = reconnectMin
		c.emitStatus(StatusConnected)
		c.logger.Info("Connected to hub", zap.String("url", c.url))

		c.readUntilClosed(ctx, conn)
		conn.Close()
		c.emitStatus(StatusDisconnected)
	}
}

func (c *Connection) readUntilClosed(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)

	// Application-level keepalive alongside the protocol ping the hub
	// sends; either side going quiet trips the read deadline.
	go func() {
		ticker := time.NewTicker(pingEvery)
		defer ticker.Stop()
		ping, _ := json.Marshal(models.PushMessage{Type: models.MessagePing})
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				conn.Close()
				return
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, ping); err != nil {
					return
				}
			}
		}
	}()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(10*time.Second))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Warn("Push channel read failed", zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		c.dispatch(data)
	}
}

func (c *Connection) dispatch(data []byte) {
	var msg models.PushMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.logger.Warn("Ignoring malformed push message", zap.Error(err))
		return
	}

	switch msg.Type {
	case models.MessagePresentationState:
		var state models.PresentationState
		if err := json.Unmarshal(msg.Payload, &state); err != nil {
			c.logger.Warn("Ignoring malformed state payload", zap.Error(err))
			return
		}
		if state.UpdatedAt <= c.lastApplied {
			c.logger.Debug("Discarding stale state",
				zap.Int64("updatedAt", state.UpdatedAt),
				zap.Int64("lastApplied", c.lastApplied))
			return
		}
		// lastApplied only advances once the event is actually handed to
		// the engine; a dropped state stays eligible for re-delivery.
		if c.emit(Event{State: &state}) {
			c.lastApplied = state.UpdatedAt
		}

	case models.MessageScreenConfigUpdated:
		var signal models.ScreenConfigSignal
		if err := json.Unmarshal(msg.Payload, &signal); err != nil {
			c.logger.Warn("Ignoring malformed config signal", zap.Error(err))
			return
		}
		c.emit(Event{ConfigSignal: &signal})

	case models.MessageScreenConfigPreview:
		var preview models.ScreenConfigPreview
		if err := json.Unmarshal(msg.Payload, &preview); err != nil {
			c.logger.Warn("Ignoring malformed config preview", zap.Error(err))
			return
		}
		c.emit(Event{Preview: &preview})

	case models.MessagePong:
		// Keepalive answer; the read deadline reset above is enough.
	}
}

func (c *Connection) emitStatus(status ConnStatus) {
	c.emit(Event{Status: &status})
}

func (c *Connection) emit(ev Event) bool {
	select {
	case c.events <- ev:
		return true
	default:
		c.logger.Warn("Display event channel full, dropping event")
		return false
	}
}
