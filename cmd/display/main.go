package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"stagehub/internal/config"
	"stagehub/internal/display"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),

		fx.Provide(
			newLogger,
			config.LoadDisplay,
			newBrightness,
			newHubClient,
			newConnection,
			newResolver,
			newScreenConfigs,
			newExitAnimator,
			newSink,
			newWatchdog,
			newEngine,
		),

		fx.Invoke(registerHooks),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		panic(err)
	}

	<-ctx.Done()

	if err := app.Stop(context.Background()); err != nil {
		panic(err)
	}
}

func newLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

// newBrightness picks the hardware control: D-Bus on kiosks, no-op when
// the bus is unavailable or the display is attended.
func newBrightness(cfg config.Display, logger *zap.Logger) display.Brightness {
	if !cfg.KioskMode {
		return display.NoopBrightness{}
	}
	b, err := display.NewDBusBrightness()
	if err != nil {
		logger.Warn("Brightness control unavailable, dim will be overlay-only", zap.Error(err))
		return display.NoopBrightness{}
	}
	return b
}

func newHubClient(cfg config.Display) *display.HubClient {
	return display.NewHubClient(cfg.HubAPIURL)
}

func newConnection(cfg config.Display, logger *zap.Logger) *display.Connection {
	return display.NewConnection(logger, cfg.HubWSURL)
}

func newResolver(logger *zap.Logger, hub *display.HubClient) *display.Resolver {
	return display.NewResolver(logger, hub)
}

func newScreenConfigs(cfg config.Display, logger *zap.Logger, hub *display.HubClient) *display.ScreenConfigs {
	return display.NewScreenConfigs(logger, hub, cfg.ScreenID)
}

func newExitAnimator(cfg config.Display, logger *zap.Logger) *display.ExitAnimator {
	return display.NewExitAnimator(logger, time.Duration(cfg.ExitBufferMillis)*time.Millisecond)
}

func newSink(logger *zap.Logger) display.RenderSink {
	return display.NewLogSink(logger)
}

func newWatchdog(cfg config.Display, logger *zap.Logger, brightness display.Brightness, sink display.RenderSink) *display.Watchdog {
	return display.NewWatchdog(logger, cfg.KioskMode,
		time.Duration(cfg.DimGraceSeconds)*time.Second, brightness, sink)
}

func newEngine(
	logger *zap.Logger,
	conn *display.Connection,
	resolver *display.Resolver,
	anim *display.ExitAnimator,
	watchdog *display.Watchdog,
	screens *display.ScreenConfigs,
	hub *display.HubClient,
	sink display.RenderSink,
) *display.Engine {
	return display.NewEngine(logger, conn, resolver, anim, watchdog, screens, hub, sink)
}

func registerHooks(lc fx.Lifecycle, logger *zap.Logger, cfg config.Display, engine *display.Engine) {
	var cancel context.CancelFunc
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Display client starting",
				zap.String("screen", cfg.ScreenID),
				zap.Bool("kiosk", cfg.KioskMode))
			runCtx, c := context.WithCancel(context.Background())
			cancel = c
			return engine.Start(runCtx)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Display client stopping")
			if cancel != nil {
				cancel()
			}
			return nil
		},
	})
}
