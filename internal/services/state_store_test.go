package services

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"stagehub/internal/db"
	"stagehub/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := db.CreateTables(database); err != nil {
		t.Fatalf("failed to create tables: %v", err)
	}
	return database
}

func newTestStateStore(t *testing.T) *StateStore {
	t.Helper()
	store, err := NewStateStore(newTestDB(t), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create state store: %v", err)
	}
	return store
}

func boolPtr(v bool) *bool    { return &v }
func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }

func TestStateStore_DefaultsToEmpty(t *testing.T) {
	store := newTestStateStore(t)
	state := store.GetState()
	if !state.IsHidden || state.TemporaryContent != nil || state.CurrentQueueItemID != nil {
		t.Errorf("boot state not empty: %+v", state)
	}
}

// TestStateStore_MonotonicUpdatedAt verifies every mutation stamps a
// strictly greater updatedAt, even when the wall clock has not advanced.
func TestStateStore_MonotonicUpdatedAt(t *testing.T) {
	store := newTestStateStore(t)

	var prev int64
	for i := 0; i < 50; i++ {
		state, err := store.SetState(models.StatePatch{IsPresenting: boolPtr(i%2 == 0)})
		if err != nil {
			t.Fatalf("SetState failed: %v", err)
		}
		if state.UpdatedAt <= prev {
			t.Fatalf("updatedAt not monotonic: %d after %d", state.UpdatedAt, prev)
		}
		prev = state.UpdatedAt
	}
}

func TestStateStore_PatchMerge(t *testing.T) {
	store := newTestStateStore(t)

	_, err := store.SetState(models.StatePatch{
		IsPresenting:       boolPtr(true),
		IsHidden:           boolPtr(false),
		CurrentQueueItemID: int64Ptr(42),
	})
	if err != nil {
		t.Fatalf("SetState failed: %v", err)
	}

	// A patch touching one field leaves the rest alone.
	state, err := store.SetState(models.StatePatch{CurrentSongSlideID: strPtr("s1")})
	if err != nil {
		t.Fatalf("SetState failed: %v", err)
	}
	if state.CurrentQueueItemID == nil || *state.CurrentQueueItemID != 42 {
		t.Errorf("queue item lost during merge: %+v", state)
	}
	if !state.IsPresenting {
		t.Errorf("isPresenting lost during merge")
	}
}

func TestStateStore_ClearSlideKeepsSelection(t *testing.T) {
	store := newTestStateStore(t)

	_, err := store.SetState(models.StatePatch{
		IsHidden:           boolPtr(false),
		CurrentSongSlideID: strPtr("s1"),
		CurrentQueueItemID: int64Ptr(7),
	})
	if err != nil {
		t.Fatalf("SetState failed: %v", err)
	}

	state, err := store.ClearSlide()
	if err != nil {
		t.Fatalf("ClearSlide failed: %v", err)
	}
	if !state.IsHidden {
		t.Error("ClearSlide did not hide")
	}
	if state.CurrentSongSlideID == nil || *state.CurrentSongSlideID != "s1" {
		t.Error("ClearSlide dropped the slide selection")
	}
	if state.CurrentQueueItemID == nil || *state.CurrentQueueItemID != 7 {
		t.Error("ClearSlide dropped the queue selection")
	}
}

// TestStateStore_NavigateBoundaryClears verifies navigating past the last
// slide of a temporary song clears the content instead of wrapping.
func TestStateStore_NavigateBoundaryClears(t *testing.T) {
	store := newTestStateStore(t)

	_, err := store.SetState(models.StatePatch{
		IsHidden: boolPtr(false),
		TemporaryContent: &models.TemporaryContent{
			Type: models.VariantSong,
			Song: &models.SongContent{
				SongID: 7,
				Slides: []models.SongSlide{
					{ID: "a", Text: "one"},
					{ID: "b", Text: "two"},
				},
				CurrentIndex: 1,
			},
		},
	})
	if err != nil {
		t.Fatalf("SetState failed: %v", err)
	}

	state, err := store.NavigateTemporary(models.DirectionNext)
	if err != nil {
		t.Fatalf("NavigateTemporary failed: %v", err)
	}
	if state.TemporaryContent != nil {
		t.Errorf("expected cleared temporary content, got %+v", state.TemporaryContent)
	}
	if !state.IsHidden {
		t.Error("expected empty shape (hidden) after boundary")
	}
}

func TestStateStore_NavigateAdvances(t *testing.T) {
	store := newTestStateStore(t)

	_, err := store.SetState(models.StatePatch{
		TemporaryContent: &models.TemporaryContent{
			Type: models.VariantBiblePassage,
			BiblePassage: &models.BiblePassageContent{
				Verses: []models.PassageVerse{
					{Reference: "Ps 1:1"}, {Reference: "Ps 1:2"}, {Reference: "Ps 1:3"},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("SetState failed: %v", err)
	}

	state, err := store.NavigateTemporary(models.DirectionNext)
	if err != nil {
		t.Fatalf("NavigateTemporary failed: %v", err)
	}
	if got := state.TemporaryContent.BiblePassage.CurrentIndex; got != 1 {
		t.Errorf("expected index 1, got %d", got)
	}

	// Prev at the first verse clears rather than wrapping.
	if _, err := store.NavigateTemporary(models.DirectionPrev); err != nil {
		t.Fatalf("NavigateTemporary failed: %v", err)
	}
	state, err = store.NavigateTemporary(models.DirectionPrev)
	if err != nil {
		t.Fatalf("NavigateTemporary failed: %v", err)
	}
	if state.TemporaryContent != nil {
		t.Errorf("expected cleared content at first-slide boundary, got %+v", state.TemporaryContent)
	}
}

// TestStateStore_RollbackOnPersistFailure verifies a failed write leaves
// the in-memory state at the last durable value and surfaces the error.
func TestStateStore_RollbackOnPersistFailure(t *testing.T) {
	database := newTestDB(t)
	store, err := NewStateStore(database, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create state store: %v", err)
	}

	durable, err := store.SetState(models.StatePatch{CurrentQueueItemID: int64Ptr(1)})
	if err != nil {
		t.Fatalf("SetState failed: %v", err)
	}

	// Break persistence.
	database.Close()

	if _, err := store.SetState(models.StatePatch{CurrentQueueItemID: int64Ptr(2)}); err == nil {
		t.Fatal("expected error after closing database")
	}

	state := store.GetState()
	if *state.CurrentQueueItemID != 1 || state.UpdatedAt != durable.UpdatedAt {
		t.Errorf("state not rolled back: %+v vs durable %+v", state, durable)
	}
}

func TestStateStore_BroadcastHook(t *testing.T) {
	store := newTestStateStore(t)

	var published []models.PresentationState
	store.OnChange(func(state models.PresentationState) {
		published = append(published, state)
	})

	if _, err := store.SetState(models.StatePatch{IsHidden: boolPtr(false)}); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}
	if _, err := store.ClearSlide(); err != nil {
		t.Fatalf("ClearSlide failed: %v", err)
	}

	if len(published) != 2 {
		t.Fatalf("expected 2 broadcasts, got %d", len(published))
	}
	if published[1].UpdatedAt <= published[0].UpdatedAt {
		t.Error("broadcasts out of order")
	}
}
