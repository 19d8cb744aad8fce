package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"stagehub/internal/models"
	"stagehub/internal/services"
)

// StateHandler exposes the presentation state mutations to the operator
// console.
type StateHandler struct {
	store  *services.StateStore
	logger *zap.Logger
}

// NewStateHandler creates a new state handler.
func NewStateHandler(store *services.StateStore, logger *zap.Logger) *StateHandler {
	return &StateHandler{store: store, logger: logger}
}

// GetState returns the authoritative state.
// GET /api/state
func (h *StateHandler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.store.GetState())
}

// SetState merges a patch into the state.
// POST /api/state
func (h *StateHandler) SetState(w http.ResponseWriter, r *http.Request) {
	var patch models.StatePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if patch.TemporaryContent != nil && !patch.TemporaryContent.Valid() {
		http.Error(w, "temporaryContent payload does not match its type", http.StatusBadRequest)
		return
	}

	state, err := h.store.SetState(patch)
	if err != nil {
		h.logger.Error("Failed to set state", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, state)
}

// NavigateRequest selects a navigation direction.
type NavigateRequest struct {
	Direction models.Direction `json:"direction"`
}

// NavigateTemporary advances the temporary content.
// POST /api/state/navigate
func (h *StateHandler) NavigateTemporary(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Direction != models.DirectionNext && req.Direction != models.DirectionPrev {
		http.Error(w, "direction must be next or prev", http.StatusBadRequest)
		return
	}

	state, err := h.store.NavigateTemporary(req.Direction)
	if err != nil {
		h.logger.Error("Failed to navigate temporary content", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, state)
}

// ClearTemporary drops the temporary content.
// POST /api/state/clear-temporary
func (h *StateHandler) ClearTemporary(w http.ResponseWriter, r *http.Request) {
	state, err := h.store.ClearTemporary()
	if err != nil {
		h.logger.Error("Failed to clear temporary content", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, state)
}

// ClearSlide hides the output while keeping the selection.
// POST /api/state/hide
func (h *StateHandler) ClearSlide(w http.ResponseWriter, r *http.Request) {
	state, err := h.store.ClearSlide()
	if err != nil {
		h.logger.Error("Failed to hide slide", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, state)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
