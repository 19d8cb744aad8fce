package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"stagehub/internal/models"
	"stagehub/internal/services"
)

// ScreenHandler serves screen render configuration and relays config
// change signals and live-edit previews to displays.
type ScreenHandler struct {
	store  *services.ScreenStore
	hub    *services.WebSocketService
	logger *zap.Logger
}

// NewScreenHandler creates a new screen handler.
func NewScreenHandler(store *services.ScreenStore, hub *services.WebSocketService, logger *zap.Logger) *ScreenHandler {
	return &ScreenHandler{store: store, hub: hub, logger: logger}
}

// GetConfigs returns all content-type configs for one screen.
// GET /api/screens/{screenId}/config
func (h *ScreenHandler) GetConfigs(w http.ResponseWriter, r *http.Request) {
	screenID := mux.Vars(r)["screenId"]
	configs, err := h.store.GetConfigs(r.Context(), screenID)
	if err != nil {
		h.logger.Error("Failed to get screen configs", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, configs)
}

// UpdateConfig persists a screen config and broadcasts the durable
// screen_config_updated signal so displays re-fetch.
// PUT /api/screens/{screenId}/config
func (h *ScreenHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	screenID := mux.Vars(r)["screenId"]

	var cfg models.ScreenConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	cfg.ScreenID = screenID
	if cfg.ContentType == "" {
		http.Error(w, "contentType is required", http.StatusBadRequest)
		return
	}

	updatedAt, err := h.store.Upsert(r.Context(), cfg)
	if err != nil {
		h.logger.Error("Failed to update screen config", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	msg, err := models.NewPushMessage(models.MessageScreenConfigUpdated,
		models.ScreenConfigSignal{ScreenID: screenID, UpdatedAt: updatedAt})
	if err != nil {
		h.logger.Error("Failed to build config signal", zap.Error(err))
	} else {
		h.hub.Broadcast(msg)
	}

	writeJSON(w, map[string]any{"success": true, "updatedAt": updatedAt})
}

// PreviewConfig relays an operator's live-editing cursor to displays
// without persisting anything. The payload is superseded by the next
// preview or by a durable update; it is never replayed on reconnect.
// POST /api/screens/{screenId}/preview
func (h *ScreenHandler) PreviewConfig(w http.ResponseWriter, r *http.Request) {
	screenID := mux.Vars(r)["screenId"]

	var cfg models.ScreenConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	cfg.ScreenID = screenID

	msg, err := models.NewPushMessage(models.MessageScreenConfigPreview,
		models.ScreenConfigPreview{
			ScreenID:  screenID,
			Config:    cfg,
			UpdatedAt: time.Now().UnixMilli(),
		})
	if err != nil {
		h.logger.Error("Failed to build config preview", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// The console's own connection id, when provided, is excluded from
	// delivery. Previews sent over the console's WebSocket connection are
	// excluded automatically.
	h.hub.BroadcastExcept(msg, r.Header.Get("X-Connection-Id"))

	writeJSON(w, map[string]bool{"success": true})
}
