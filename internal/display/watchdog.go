package display

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// ConnStatus is the push channel's connectivity status.
type ConnStatus string

const (
	StatusConnected    ConnStatus = "connected"
	StatusDisconnected ConnStatus = "disconnected"
	StatusError        ConnStatus = "error"
)

// WatchdogState is the connectivity watchdog's state.
type WatchdogState string

const (
	WatchdogConnected         WatchdogState = "connected"
	WatchdogGraceDisconnected WatchdogState = "grace_disconnected"
	WatchdogDimmed            WatchdogState = "dimmed"
	WatchdogUserDismissed     WatchdogState = "user_dismissed"
)

// WatchdogUI receives the watchdog's user-visible effects: a banner shown
// for the whole disconnect, and a full-screen opaque overlay once the
// grace period elapses on an unattended kiosk.
type WatchdogUI interface {
	SetBanner(visible bool)
	SetOverlay(visible bool)
}

// Watchdog protects unattended kiosk displays: on connection loss it
// shows a banner immediately, and after a grace period dims the screen
// behind an opaque overlay, lowering hardware brightness where possible.
// A user touch dismisses the overlay for the current disconnect cycle;
// any reconnection re-arms everything and restores brightness.
type Watchdog struct {
	logger     *zap.Logger
	enabled    bool
	grace      time.Duration
	brightness Brightness
	ui         WatchdogUI

	mu    sync.Mutex
	state WatchdogState
	cycle uint64
	timer *time.Timer

	prevBrightness float64
	lowered        bool
}

// NewWatchdog creates a watchdog. enabled is false on attended displays,
// where only the banner behavior applies.
func NewWatchdog(logger *zap.Logger, enabled bool, grace time.Duration, brightness Brightness, ui WatchdogUI) *Watchdog {
	return &Watchdog{
		logger:     logger,
		enabled:    enabled,
		grace:      grace,
		brightness: brightness,
		ui:         ui,
		state:      WatchdogConnected,
	}
}

// State returns the current watchdog state.
func (w *Watchdog) State() WatchdogState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// OnStatus feeds the watchdog a connectivity status change.
func (w *Watchdog) OnStatus(status ConnStatus) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if status == StatusConnected {
		// Reconnection unconditionally resets, including UserDismissed,
		// re-arming the watchdog for the next disconnect cycle.
		w.cancelTimer()
		w.restoreBrightness()
		if w.state != WatchdogConnected {
			w.logger.Info("Push channel reconnected")
		}
		w.state = WatchdogConnected
		w.ui.SetBanner(false)
		w.ui.SetOverlay(false)
		return
	}

	// disconnected or error
	switch w.state {
	case WatchdogConnected:
		w.logger.Warn("Push channel lost", zap.String("status", string(status)))
		w.ui.SetBanner(true)
		if !w.enabled {
			return
		}
		w.state = WatchdogGraceDisconnected
		w.startGraceTimer()
	case WatchdogUserDismissed, WatchdogGraceDisconnected, WatchdogDimmed:
		// Already handling this disconnect cycle.
	}
}

// OnTouch handles a user interaction while disconnected or dimmed: the
// overlay is suppressed for the remainder of this disconnect cycle and
// brightness is restored immediately.
func (w *Watchdog) OnTouch() {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case WatchdogGraceDisconnected, WatchdogDimmed:
		w.cancelTimer()
		w.restoreBrightness()
		w.state = WatchdogUserDismissed
		w.ui.SetOverlay(false)
		w.logger.Info("Dim overlay dismissed by user")
	}
}

// startGraceTimer arms the single grace timer. Must hold the lock.
func (w *Watchdog) startGraceTimer() {
	w.cycle++
	cycle := w.cycle
	w.timer = time.AfterFunc(w.grace, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		// A reconnect or dismissal makes this callback a no-op.
		if w.cycle != cycle || w.state != WatchdogGraceDisconnected {
			return
		}
		w.state = WatchdogDimmed
		w.timer = nil
		w.ui.SetOverlay(true)
		w.lowerBrightness()
		w.logger.Warn("Display dimmed after disconnect grace period")
	})
}

// cancelTimer stops the pending grace timer. Must hold the lock.
func (w *Watchdog) cancelTimer() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.cycle++
}

// lowerBrightness records the current level and drops to minimum, at most
// once per dim. Must hold the lock.
func (w *Watchdog) lowerBrightness() {
	if w.lowered {
		return
	}
	prev, err := w.brightness.Current()
	if err != nil {
		w.logger.Warn("Could not read brightness, dim is overlay-only", zap.Error(err))
		return
	}
	if err := w.brightness.Set(0); err != nil {
		w.logger.Warn("Could not lower brightness", zap.Error(err))
		return
	}
	w.prevBrightness = prev
	w.lowered = true
}

// restoreBrightness puts back the recorded level if it was lowered. Must
// hold the lock.
func (w *Watchdog) restoreBrightness() {
	if !w.lowered {
		return
	}
	if err := w.brightness.Set(w.prevBrightness); err != nil {
		w.logger.Error("Could not restore brightness", zap.Error(err))
	}
	w.lowered = false
}
