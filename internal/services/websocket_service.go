package services

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"stagehub/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Display clients connect from app webviews and local networks.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// displayClient is one registered display connection.
type displayClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// outbound is a fan-out request. exclude, when non-empty, names a client
// id skipped during delivery (the originator of an ephemeral preview).
type outbound struct {
	data    []byte
	exclude string
}

// SnapshotFunc returns the payloads a freshly connected client must
// receive before anything else so it never starts blank.
type SnapshotFunc func() []models.PushMessage

// WebSocketService fans presentation-state changes out to all connected
// display clients. The registry is owned exclusively by the Run loop;
// register, unregister and broadcast requests travel over channels so the
// connection set has a single writer.
type WebSocketService struct {
	logger     *zap.Logger
	snapshot   SnapshotFunc
	register   chan *displayClient
	unregister chan *displayClient
	broadcasts chan outbound
}

// NewWebSocketService creates the hub. snapshot may be nil during tests.
func NewWebSocketService(logger *zap.Logger, snapshot SnapshotFunc) *WebSocketService {
	return &WebSocketService{
		logger:     logger,
		snapshot:   snapshot,
		register:   make(chan *displayClient),
		unregister: make(chan *displayClient),
		broadcasts: make(chan outbound, 64),
	}
}

// Run services the registry until ctx is cancelled.
func (ws *WebSocketService) Run(ctx context.Context) {
	clients := make(map[*displayClient]bool)

	closeClient := func(c *displayClient) {
		if clients[c] {
			delete(clients, c)
			close(c.send)
			ws.logger.Info("Display client disconnected",
				zap.String("client", c.id),
				zap.Int("connected", len(clients)))
		}
	}

	for {
		select {
		case <-ctx.Done():
			for c := range clients {
				closeClient(c)
			}
			return

		case c := <-ws.register:
			clients[c] = true
			ws.logger.Info("Display client connected",
				zap.String("client", c.id),
				zap.Int("connected", len(clients)))
			if ws.snapshot != nil {
				for _, msg := range ws.snapshot() {
					data, err := json.Marshal(msg)
					if err != nil {
						ws.logger.Error("Failed to marshal snapshot message", zap.Error(err))
						continue
					}
					select {
					case c.send <- data:
					default:
						closeClient(c)
					}
				}
			}

		case c := <-ws.unregister:
			closeClient(c)

		case out := <-ws.broadcasts:
			for c := range clients {
				if out.exclude != "" && c.id == out.exclude {
					continue
				}
				select {
				case c.send <- out.data:
				default:
					// Client cannot keep up; drop it, no retry.
					closeClient(c)
				}
			}
		}
	}
}

// Broadcast fans a durable message out to every connected client.
func (ws *WebSocketService) Broadcast(msg models.PushMessage) {
	ws.send(msg, "")
}

// BroadcastExcept fans an ephemeral message out to every client except
// the originator.
func (ws *WebSocketService) BroadcastExcept(msg models.PushMessage, originID string) {
	ws.send(msg, originID)
}

func (ws *WebSocketService) send(msg models.PushMessage, exclude string) {
	data, err := json.Marshal(msg)
	if err != nil {
		ws.logger.Error("Failed to marshal push message", zap.Error(err))
		return
	}
	ws.broadcasts <- outbound{data: data, exclude: exclude}
}

// BroadcastState publishes a presentation_state message.
func (ws *WebSocketService) BroadcastState(state models.PresentationState) {
	msg, err := models.NewPushMessage(models.MessagePresentationState, state)
	if err != nil {
		ws.logger.Error("Failed to build state message", zap.Error(err))
		return
	}
	ws.Broadcast(msg)
}

// HandleConnection upgrades an HTTP request to a display connection and
// starts its read/write pumps.
func (ws *WebSocketService) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}

	client := &displayClient{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	ws.register <- client

	go ws.writePump(client)
	go ws.readPump(client)
}

// readPump consumes client messages: keepalive pings and operator
// screen-config previews. Previews are relayed, never persisted, and
// skip their originator.
func (ws *WebSocketService) readPump(c *displayClient) {
	defer func() {
		ws.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ws.logger.Warn("Display connection closed unexpectedly",
					zap.String("client", c.id), zap.Error(err))
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg models.PushMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			ws.logger.Warn("Ignoring malformed client message",
				zap.String("client", c.id), zap.Error(err))
			continue
		}

		switch msg.Type {
		case models.MessagePing:
			pong, _ := models.NewPushMessage(models.MessagePong, nil)
			raw, _ := json.Marshal(pong)
			select {
			case c.send <- raw:
			default:
			}
		case models.MessageScreenConfigPreview:
			ws.BroadcastExcept(msg, c.id)
		default:
			ws.logger.Debug("Ignoring client message",
				zap.String("client", c.id), zap.String("type", string(msg.Type)))
		}
	}
}

// writePump drains the client's send channel onto the wire. A failed
// write terminates the connection; the read pump then deregisters it.
func (ws *WebSocketService) writePump(c *displayClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
