package display

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestExitAnimator_ClearsAfterDelay(t *testing.T) {
	a := NewExitAnimator(zap.NewNop(), 20*time.Millisecond)

	a.Observe(false, 0)
	a.Observe(true, 10*time.Millisecond)

	if got := a.State(); got != AnimAnimatingOut {
		t.Fatalf("expected animating_out, got %s", got)
	}

	select {
	case <-a.Cleared():
	case <-time.After(time.Second):
		t.Fatal("clear never fired")
	}

	if got := a.State(); got != AnimEmpty {
		t.Errorf("expected empty, got %s", got)
	}
}

// TestExitAnimator_FirstLoadDoesNotTrigger verifies the hide transition
// requires an explicitly observed false first, so a client that boots
// into a hidden state never schedules a spurious clear.
func TestExitAnimator_FirstLoadDoesNotTrigger(t *testing.T) {
	a := NewExitAnimator(zap.NewNop(), 10*time.Millisecond)

	a.Observe(true, 0)

	select {
	case <-a.Cleared():
		t.Fatal("clear fired on first load")
	case <-time.After(100 * time.Millisecond):
	}
	if got := a.State(); got != AnimIdle {
		t.Errorf("expected idle, got %s", got)
	}
}

// TestExitAnimator_RePresentCancels verifies isHidden false -> true ->
// false within the delay window cancels the pending clear and a
// late-firing timer stays a no-op.
func TestExitAnimator_RePresentCancels(t *testing.T) {
	a := NewExitAnimator(zap.NewNop(), 50*time.Millisecond)

	a.Observe(false, 0)
	a.Observe(true, 100*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	a.Observe(false, 0)

	if got := a.State(); got != AnimIdle {
		t.Fatalf("expected idle after cancel, got %s", got)
	}

	select {
	case <-a.Cleared():
		t.Fatal("cancelled clear fired")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestExitAnimator_NewCycleAfterCancel(t *testing.T) {
	a := NewExitAnimator(zap.NewNop(), 10*time.Millisecond)

	// First cycle, cancelled.
	a.Observe(false, 0)
	a.Observe(true, 50*time.Millisecond)
	a.Observe(false, 0)

	// Second cycle runs to completion.
	a.Observe(true, 0)

	select {
	case <-a.Cleared():
	case <-time.After(time.Second):
		t.Fatal("second cycle never cleared")
	}
}
