package display

import (
	"context"

	"go.uber.org/zap"

	"stagehub/internal/models"
)

// RenderSink is the renderer the engine drives. The actual drawing layer
// lives outside the core; the sink only receives ready-to-draw content
// and the watchdog's status UI flags.
type RenderSink interface {
	Render(content models.RenderContent)
	SetBanner(visible bool)
	SetOverlay(visible bool)
}

// StateFetcher re-reads the authoritative state after a reconnect.
type StateFetcher interface {
	FetchState(ctx context.Context) (models.PresentationState, error)
}

// Engine is the display client's single-threaded loop: it consumes push
// channel events, timers and touch input, and drives the resolver, the
// exit-animation coordinator, the watchdog and the render sink. All work
// happens as reaction to one of those sources; asynchronous continuations
// check their generation before touching visible output.
type Engine struct {
	logger   *zap.Logger
	conn     *Connection
	resolver *Resolver
	anim     *ExitAnimator
	watchdog *Watchdog
	screens  *ScreenConfigs
	states   StateFetcher
	sink     RenderSink

	touches chan struct{}

	// loop-owned, no locking
	lastSeen    int64
	currentType models.RenderType
}

// NewEngine wires the display client's components.
func NewEngine(
	logger *zap.Logger,
	conn *Connection,
	resolver *Resolver,
	anim *ExitAnimator,
	watchdog *Watchdog,
	screens *ScreenConfigs,
	states StateFetcher,
	sink RenderSink,
) *Engine {
	return &Engine{
		logger:      logger,
		conn:        conn,
		resolver:    resolver,
		anim:        anim,
		watchdog:    watchdog,
		screens:     screens,
		states:      states,
		sink:        sink,
		touches:     make(chan struct{}, 4),
		currentType: models.RenderEmpty,
	}
}

// Touch reports a user interaction, dismissing the dim overlay while
// disconnected.
func (e *Engine) Touch() {
	select {
	case e.touches <- struct{}{}:
	default:
	}
}

// Start launches the engine loop. It returns immediately.
func (e *Engine) Start(ctx context.Context) error {
	e.conn.Start(ctx)
	go e.runLoop(ctx)
	return nil
}

func (e *Engine) runLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Display engine stopped")
			return

		case ev := <-e.conn.Events():
			e.handleEvent(ctx, ev)

		case content := <-e.resolver.Results():
			e.currentType = content.Type
			e.sink.Render(content)

		case <-e.anim.Cleared():
			// The delayed clear elapsed without being cancelled.
			e.currentType = models.RenderEmpty
			e.sink.Render(models.EmptyContent())

		case <-e.touches:
			e.watchdog.OnTouch()
		}
	}
}

func (e *Engine) handleEvent(ctx context.Context, ev Event) {
	switch {
	case ev.State != nil:
		e.applyState(ctx, *ev.State)

	case ev.ConfigSignal != nil:
		if ev.ConfigSignal.ScreenID != e.screens.screenID {
			return
		}
		if err := e.screens.Refresh(ctx); err != nil {
			e.logger.Warn("Screen config refresh failed", zap.Error(err))
		}

	case ev.Preview != nil:
		e.screens.ApplyPreview(*ev.Preview)

	case ev.Status != nil:
		e.watchdog.OnStatus(*ev.Status)
		if *ev.Status == StatusConnected {
			e.resync(ctx)
		}
	}
}

func (e *Engine) applyState(ctx context.Context, state models.PresentationState) {
	// The connection already discards regressions from the push channel;
	// this guard also covers the HTTP resync path.
	if state.UpdatedAt < e.lastSeen {
		return
	}
	e.lastSeen = state.UpdatedAt

	e.anim.Observe(state.IsHidden, e.screens.MaxExitDuration(e.currentType))
	// Apply runs for hidden states too: it bumps the resolver generation,
	// superseding any in-flight queue fetch so a late result cannot repaint
	// the screen during the exit animation.
	e.resolver.Apply(ctx, state)
}

// resync re-fetches the authoritative state after a reconnect; the push
// snapshot usually arrives first, in which case the fetched copy is a
// non-newer duplicate and is discarded by applyState.
func (e *Engine) resync(ctx context.Context) {
	if err := e.screens.Refresh(ctx); err != nil {
		e.logger.Warn("Screen config resync failed", zap.Error(err))
	}
	state, err := e.states.FetchState(ctx)
	if err != nil {
		e.logger.Warn("State resync failed", zap.Error(err))
		return
	}
	if state.UpdatedAt > e.lastSeen {
		e.applyState(ctx, state)
	}
}
