package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"stagehub/internal/config"
	"stagehub/internal/db"
	"stagehub/internal/handlers"
	"stagehub/internal/models"
	"stagehub/internal/services"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.LoadServer()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()
	logger.Info("Database initialized", zap.String("path", cfg.DBPath))

	stateStore, err := services.NewStateStore(database, logger)
	if err != nil {
		logger.Fatal("Failed to load presentation state", zap.Error(err))
	}
	queueStore := services.NewQueueStore(database)
	screenStore := services.NewScreenStore(database)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A freshly connected display receives the full state plus a config
	// signal per known screen, so it never starts blank.
	snapshot := func() []models.PushMessage {
		msgs := make([]models.PushMessage, 0, 4)
		state := stateStore.GetState()
		if msg, err := models.NewPushMessage(models.MessagePresentationState, state); err == nil {
			msgs = append(msgs, msg)
		}
		ids, err := screenStore.ScreenIDs(context.Background())
		if err != nil {
			logger.Warn("Failed to list screens for snapshot", zap.Error(err))
			return msgs
		}
		for _, id := range ids {
			sig := models.ScreenConfigSignal{ScreenID: id, UpdatedAt: state.UpdatedAt}
			if msg, err := models.NewPushMessage(models.MessageScreenConfigUpdated, sig); err == nil {
				msgs = append(msgs, msg)
			}
		}
		return msgs
	}

	hub := services.NewWebSocketService(logger, snapshot)
	stateStore.OnChange(hub.BroadcastState)
	go hub.Run(ctx)

	stateHandler := handlers.NewStateHandler(stateStore, logger)
	queueHandler := handlers.NewQueueHandler(queueStore, logger)
	screenHandler := handlers.NewScreenHandler(screenStore, hub, logger)

	router := handlers.SetupRoutes(stateHandler, queueHandler, screenHandler, hub)

	server := &http.Server{
		Addr:    cfg.Host + ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down server")
		server.Shutdown(context.Background())
	}()

	if cfg.TLSEnabled {
		server.TLSConfig = &tls.Config{MinVersion: tlsVersion(cfg.TLSMinVersion)}
		logger.Info("Starting HTTPS server",
			zap.String("addr", server.Addr),
			zap.String("cert", cfg.TLSCertFile),
			zap.String("minVersion", cfg.TLSMinVersion))
		err = server.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
	} else {
		logger.Info("Starting HTTP server", zap.String("addr", server.Addr))
		logger.Warn("HTTP mode is not recommended for production")
		err = server.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// tlsVersion converts a string version to the tls.Version constant.
func tlsVersion(version string) uint16 {
	switch version {
	case "1.0":
		return tls.VersionTLS10
	case "1.1":
		return tls.VersionTLS11
	case "1.2":
		return tls.VersionTLS12
	case "1.3":
		return tls.VersionTLS13
	default:
		return tls.VersionTLS12
	}
}
