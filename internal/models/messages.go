package models

import (
	"encoding/json"
	"fmt"
)

// MessageType tags a push-channel message.
type MessageType string

const (
	// MessagePresentationState is durable: it carries persisted truth and
	// is safe to re-deliver, because a client can always re-fetch the
	// authoritative state.
	MessagePresentationState MessageType = "presentation_state"
	// MessageScreenConfigUpdated is a durable signal to re-fetch a
	// screen's configuration.
	MessageScreenConfigUpdated MessageType = "screen_config_updated"
	// MessageScreenConfigPreview is ephemeral: an operator's live-editing
	// cursor. It is never persisted, never replayed on reconnect, and not
	// echoed back to its originator.
	MessageScreenConfigPreview MessageType = "screen_config_preview"
	MessagePing                MessageType = "ping"
	MessagePong                MessageType = "pong"
)

// PushMessage is the JSON envelope sent over the push channel.
type PushMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ScreenConfigSignal is the payload of a screen_config_updated message.
type ScreenConfigSignal struct {
	ScreenID  string `json:"screenId"`
	UpdatedAt int64  `json:"updatedAt"`
}

// ScreenConfigPreview is the payload of a screen_config_preview message.
type ScreenConfigPreview struct {
	ScreenID  string       `json:"screenId"`
	Config    ScreenConfig `json:"config"`
	UpdatedAt int64        `json:"updatedAt"`
}

// NewPushMessage marshals payload into a PushMessage envelope.
func NewPushMessage(t MessageType, payload any) (PushMessage, error) {
	if payload == nil {
		return PushMessage{Type: t}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return PushMessage{}, fmt.Errorf("marshal %s payload: %w", t, err)
	}
	return PushMessage{Type: t, Payload: raw}, nil
}
