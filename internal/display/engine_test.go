package display

import (
	"context"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"stagehub/internal/display/mocks"
	"stagehub/internal/models"
)

type recordingSink struct {
	renders chan models.RenderContent
}

func newRecordingSink() *recordingSink {
	return &recordingSink{renders: make(chan models.RenderContent, 8)}
}

func (s *recordingSink) Render(content models.RenderContent) { s.renders <- content }
func (s *recordingSink) SetBanner(visible bool)              {}
func (s *recordingSink) SetOverlay(visible bool)             {}

// TestEngine_HideSupersedesInflightFetch verifies hiding the output while
// a queue fetch is still in flight supersedes that fetch: its late result
// must not be rendered during the exit animation, and the delayed clear
// is the next thing drawn.
func TestEngine_HideSupersedesInflightFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	release := make(chan struct{})
	fetcher := mocks.NewMockQueueFetcher(ctrl)
	fetcher.EXPECT().FetchQueue(gomock.Any()).DoAndReturn(
		func(context.Context) ([]models.QueueItem, error) {
			<-release
			return []models.QueueItem{
				{ID: 42, Type: models.QueueItemBible, Bible: &models.QueueBible{
					Reference: "Gen 1:1", Text: "In the beginning",
				}},
			}, nil
		})

	sink := newRecordingSink()
	conn := NewConnection(zap.NewNop(), "ws://unused")
	resolver := NewResolver(zap.NewNop(), fetcher)
	anim := NewExitAnimator(zap.NewNop(), 50*time.Millisecond)
	watchdog := NewWatchdog(zap.NewNop(), false, time.Second, NoopBrightness{}, sink)
	screens := NewScreenConfigs(zap.NewNop(), nil, "primary")
	e := NewEngine(zap.NewNop(), conn, resolver, anim, watchdog, screens, nil, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go e.runLoop(ctx)

	itemID := int64(42)
	visible := models.PresentationState{
		IsPresenting:       true,
		CurrentQueueItemID: &itemID,
		UpdatedAt:          1,
	}
	conn.events <- Event{State: &visible}

	hidden := visible
	hidden.IsHidden = true
	hidden.UpdatedAt = 2
	conn.events <- Event{State: &hidden}

	// Wait until the hide has been applied, then let the superseded fetch
	// finish late.
	deadline := time.Now().Add(time.Second)
	for anim.State() != AnimAnimatingOut {
		if time.Now().After(deadline) {
			t.Fatal("exit animation never started")
		}
		time.Sleep(5 * time.Millisecond)
	}
	close(release)

	select {
	case content := <-sink.renders:
		if content.Type != models.RenderEmpty {
			t.Fatalf("stale fetch rendered during exit animation: %+v", content)
		}
	case <-time.After(time.Second):
		t.Fatal("delayed clear never rendered")
	}

	select {
	case content := <-sink.renders:
		t.Fatalf("stale fetch rendered after the clear: %+v", content)
	case <-time.After(100 * time.Millisecond):
	}
}
