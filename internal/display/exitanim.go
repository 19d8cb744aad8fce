package display

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// AnimState is the exit-animation coordinator's state.
type AnimState string

const (
	AnimIdle         AnimState = "idle"
	AnimAnimatingOut AnimState = "animating_out"
	AnimEmpty        AnimState = "empty"
)

// ExitAnimator delays the transition to an empty render by the configured
// exit-animation duration plus a fixed buffer, so outgoing animations
// finish before the content is cleared. Re-presenting before the delay
// elapses cancels the pending clear; a late-firing timer is a no-op.
type ExitAnimator struct {
	logger *zap.Logger
	buffer time.Duration

	mu    sync.Mutex
	state AnimState
	// prevHidden starts unknown; the hide transition only fires once an
	// explicit false has been observed, so first load never triggers it.
	prevHidden *bool
	cycle      uint64
	timer      *time.Timer

	cleared chan struct{}
}

// NewExitAnimator creates a coordinator. buffer is the fixed margin added
// on top of the content's longest exit-animation duration.
func NewExitAnimator(logger *zap.Logger, buffer time.Duration) *ExitAnimator {
	return &ExitAnimator{
		logger:  logger,
		buffer:  buffer,
		state:   AnimIdle,
		cleared: make(chan struct{}, 1),
	}
}

// Cleared signals that the delayed clear elapsed and the display should
// now render empty.
func (a *ExitAnimator) Cleared() <-chan struct{} {
	return a.cleared
}

// State returns the current coordinator state.
func (a *ExitAnimator) State() AnimState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Animating reports whether an exit animation is in flight; while true
// the resolver must leave the previous content in place.
func (a *ExitAnimator) Animating() bool {
	return a.State() == AnimAnimatingOut
}

// Observe feeds the coordinator the latest isHidden value. exitDuration
// is the longest configured exit animation for the content currently on
// screen.
func (a *ExitAnimator) Observe(isHidden bool, exitDuration time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	prev := a.prevHidden
	hidden := isHidden
	a.prevHidden = &hidden

	switch {
	case prev != nil && !*prev && isHidden:
		// Observed false -> true: start the delayed clear.
		a.startClear(exitDuration)
	case !isHidden:
		if a.state == AnimAnimatingOut {
			// Re-presented before the timer elapsed: cancel.
			a.cancelClear()
		} else {
			a.state = AnimIdle
		}
	}
}

// startClear schedules the single per-cycle timer. Must hold the lock.
func (a *ExitAnimator) startClear(exitDuration time.Duration) {
	if a.timer != nil {
		a.timer.Stop()
	}
	a.state = AnimAnimatingOut
	a.cycle++
	cycle := a.cycle
	delay := exitDuration + a.buffer

	a.logger.Debug("Exit animation started", zap.Duration("delay", delay))
	a.timer = time.AfterFunc(delay, func() {
		a.mu.Lock()
		// A newer cycle or a cancel makes this callback a no-op.
		if a.cycle != cycle || a.state != AnimAnimatingOut {
			a.mu.Unlock()
			return
		}
		a.state = AnimEmpty
		a.timer = nil
		a.mu.Unlock()

		select {
		case a.cleared <- struct{}{}:
		default:
		}
	})
}

// cancelClear stops the pending timer and bumps the cycle so a timer that
// already fired cannot clear. Must hold the lock.
func (a *ExitAnimator) cancelClear() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.cycle++
	a.state = AnimIdle
	a.logger.Debug("Exit animation cancelled")
}
