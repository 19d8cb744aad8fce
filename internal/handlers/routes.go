package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"stagehub/internal/services"
)

// SetupRoutes wires all HTTP and WebSocket endpoints.
func SetupRoutes(
	stateHandler *StateHandler,
	queueHandler *QueueHandler,
	screenHandler *ScreenHandler,
	hub *services.WebSocketService,
) *mux.Router {
	router := mux.NewRouter()

	// Liveness probe; the desktop shell polls this while starting the
	// sidecar process.
	router.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	}).Methods(http.MethodGet)

	router.HandleFunc("/ws", hub.HandleConnection)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", stateHandler.GetState).Methods(http.MethodGet)
	api.HandleFunc("/state", stateHandler.SetState).Methods(http.MethodPost)
	api.HandleFunc("/state/navigate", stateHandler.NavigateTemporary).Methods(http.MethodPost)
	api.HandleFunc("/state/clear-temporary", stateHandler.ClearTemporary).Methods(http.MethodPost)
	api.HandleFunc("/state/hide", stateHandler.ClearSlide).Methods(http.MethodPost)

	api.HandleFunc("/queue", queueHandler.ListQueue).Methods(http.MethodGet)

	api.HandleFunc("/screens/{screenId}/config", screenHandler.GetConfigs).Methods(http.MethodGet)
	api.HandleFunc("/screens/{screenId}/config", screenHandler.UpdateConfig).Methods(http.MethodPut)
	api.HandleFunc("/screens/{screenId}/preview", screenHandler.PreviewConfig).Methods(http.MethodPost)

	return router
}
