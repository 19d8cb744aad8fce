package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"stagehub/internal/models"
)

func startTestHub(t *testing.T, snapshot SnapshotFunc) (*WebSocketService, string) {
	t.Helper()
	hub := NewWebSocketService(zap.NewNop(), snapshot)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(hub.HandleConnection))
	t.Cleanup(server.Close)
	return hub, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dialTestHub(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) models.PushMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var msg models.PushMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	return msg
}

func expectSilence(t *testing.T, conn *websocket.Conn, d time.Duration) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(d))
	if _, data, err := conn.ReadMessage(); err == nil {
		t.Fatalf("unexpected message: %s", data)
	}
}

func TestWebSocketService_SnapshotOnConnect(t *testing.T) {
	state := models.PresentationState{IsHidden: true, UpdatedAt: 99}
	snapshot := func() []models.PushMessage {
		msg, _ := models.NewPushMessage(models.MessagePresentationState, state)
		return []models.PushMessage{msg}
	}
	_, url := startTestHub(t, snapshot)

	conn := dialTestHub(t, url)
	msg := readMessage(t, conn)
	if msg.Type != models.MessagePresentationState {
		t.Fatalf("expected presentation_state, got %s", msg.Type)
	}

	var got models.PresentationState
	if err := json.Unmarshal(msg.Payload, &got); err != nil {
		t.Fatalf("payload unmarshal failed: %v", err)
	}
	if got.UpdatedAt != 99 {
		t.Errorf("expected snapshot updatedAt 99, got %d", got.UpdatedAt)
	}
}

func TestWebSocketService_BroadcastReachesAllClients(t *testing.T) {
	hub, url := startTestHub(t, nil)

	connA := dialTestHub(t, url)
	connB := dialTestHub(t, url)
	// Give the hub's Run loop time to register both.
	time.Sleep(50 * time.Millisecond)

	hub.BroadcastState(models.PresentationState{IsPresenting: true, UpdatedAt: 7})

	for _, conn := range []*websocket.Conn{connA, connB} {
		msg := readMessage(t, conn)
		if msg.Type != models.MessagePresentationState {
			t.Fatalf("expected presentation_state, got %s", msg.Type)
		}
	}
}

// TestWebSocketService_PreviewSkipsOriginator verifies an ephemeral
// preview is relayed to every client except the one that sent it.
func TestWebSocketService_PreviewSkipsOriginator(t *testing.T) {
	_, url := startTestHub(t, nil)

	origin := dialTestHub(t, url)
	other := dialTestHub(t, url)
	time.Sleep(50 * time.Millisecond)

	preview, err := models.NewPushMessage(models.MessageScreenConfigPreview,
		models.ScreenConfigPreview{
			ScreenID: "stage",
			Config:   models.ScreenConfig{ScreenID: "stage", ContentType: models.RenderSong},
		})
	if err != nil {
		t.Fatalf("build preview failed: %v", err)
	}
	raw, _ := json.Marshal(preview)
	if err := origin.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	msg := readMessage(t, other)
	if msg.Type != models.MessageScreenConfigPreview {
		t.Fatalf("expected screen_config_preview, got %s", msg.Type)
	}

	expectSilence(t, origin, 200*time.Millisecond)
}

func TestWebSocketService_PingAnsweredWithPong(t *testing.T) {
	_, url := startTestHub(t, nil)

	conn := dialTestHub(t, url)
	time.Sleep(50 * time.Millisecond)

	raw, _ := json.Marshal(models.PushMessage{Type: models.MessagePing})
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	msg := readMessage(t, conn)
	if msg.Type != models.MessagePong {
		t.Fatalf("expected pong, got %s", msg.Type)
	}
}
