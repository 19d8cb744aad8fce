package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"stagehub/internal/services"
)

// QueueHandler serves the queue read contract displays resolve against.
type QueueHandler struct {
	store  *services.QueueStore
	logger *zap.Logger
}

// NewQueueHandler creates a new queue handler.
func NewQueueHandler(store *services.QueueStore, logger *zap.Logger) *QueueHandler {
	return &QueueHandler{store: store, logger: logger}
}

// ListQueue returns the ordered queue with nested payloads. Caching is
// disabled so every resolution sees the latest staged content.
// GET /api/queue
func (h *QueueHandler) ListQueue(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list queue", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, items)
}
