package display

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"stagehub/internal/models"
)

func stateMessage(t *testing.T, updatedAt int64) []byte {
	t.Helper()
	msg, err := models.NewPushMessage(models.MessagePresentationState,
		models.PresentationState{IsPresenting: true, UpdatedAt: updatedAt})
	if err != nil {
		t.Fatalf("build message failed: %v", err)
	}
	raw, _ := json.Marshal(msg)
	return raw
}

// TestConnection_DiscardsNonIncreasingStates verifies out-of-order and
// duplicate delivery never reaches the engine: only states with a newer
// updatedAt than the last applied one are emitted.
func TestConnection_DiscardsNonIncreasingStates(t *testing.T) {
	c := NewConnection(zap.NewNop(), "ws://unused")

	c.dispatch(stateMessage(t, 100))
	c.dispatch(stateMessage(t, 100)) // duplicate
	c.dispatch(stateMessage(t, 50))  // regression
	c.dispatch(stateMessage(t, 101))

	var applied []int64
	for len(c.events) > 0 {
		ev := <-c.events
		if ev.State == nil {
			t.Fatalf("unexpected event: %+v", ev)
		}
		applied = append(applied, ev.State.UpdatedAt)
	}

	if len(applied) != 2 || applied[0] != 100 || applied[1] != 101 {
		t.Errorf("expected [100 101], got %v", applied)
	}
}

func TestConnection_IgnoresMalformedMessages(t *testing.T) {
	c := NewConnection(zap.NewNop(), "ws://unused")

	c.dispatch([]byte("not json"))
	c.dispatch([]byte(`{"type":"presentation_state","payload":"garbage"}`))
	c.dispatch([]byte(`{"type":"unknown_type","payload":{}}`))

	if got := len(c.events); got != 0 {
		t.Errorf("malformed messages produced %d events", got)
	}
}

// TestConnection_DroppedStateStaysEligible verifies a state update that
// could not be handed to the engine (event channel full) is not recorded
// as applied: a re-delivery with the same updatedAt must go through once
// the channel has room, instead of being discarded as stale.
func TestConnection_DroppedStateStaysEligible(t *testing.T) {
	c := NewConnection(zap.NewNop(), "ws://unused")

	for i := 0; i < cap(c.events); i++ {
		c.events <- Event{}
	}
	c.dispatch(stateMessage(t, 100)) // channel full, dropped

	for len(c.events) > 0 {
		<-c.events
	}
	c.dispatch(stateMessage(t, 100)) // re-delivery of the same state

	select {
	case ev := <-c.events:
		if ev.State == nil || ev.State.UpdatedAt != 100 {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatal("re-delivered state was discarded as stale")
	}
}

func TestConnection_DispatchesConfigSignals(t *testing.T) {
	c := NewConnection(zap.NewNop(), "ws://unused")

	msg, err := models.NewPushMessage(models.MessageScreenConfigUpdated,
		models.ScreenConfigSignal{ScreenID: "stage", UpdatedAt: 5})
	if err != nil {
		t.Fatalf("build message failed: %v", err)
	}
	raw, _ := json.Marshal(msg)
	c.dispatch(raw)

	ev := <-c.events
	if ev.ConfigSignal == nil || ev.ConfigSignal.ScreenID != "stage" {
		t.Errorf("unexpected event: %+v", ev)
	}
}
