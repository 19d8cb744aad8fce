package services

import (
	"context"
	"testing"

	"stagehub/internal/models"
)

func TestQueueStore_ListOrderedBySortKey(t *testing.T) {
	store := NewQueueStore(newTestDB(t))
	ctx := context.Background()

	items := []models.QueueItem{
		{Type: models.QueueItemBible, SortKey: 30, Bible: &models.QueueBible{Reference: "Gen 1:1", Text: "In the beginning"}},
		{Type: models.QueueItemSong, SortKey: 10, Song: &models.QueueSong{SongID: 1, Title: "First", Slides: []models.SongSlide{{ID: "a", Text: "la"}}}},
		{Type: models.QueueItemSlide, SortKey: 20, Slide: &models.QueueSlide{Kind: models.SlideKindAnnouncement, Content: "Welcome"}},
	}
	for _, item := range items {
		if _, err := store.Put(ctx, item); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	listed, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 items, got %d", len(listed))
	}

	wantTypes := []models.QueueItemType{models.QueueItemSong, models.QueueItemSlide, models.QueueItemBible}
	for i, want := range wantTypes {
		if listed[i].Type != want {
			t.Errorf("position %d: expected %s, got %s", i, want, listed[i].Type)
		}
	}
	if listed[0].Song == nil || listed[0].Song.Title != "First" {
		t.Errorf("song payload not decoded: %+v", listed[0])
	}
}

func TestQueueStore_GetAndDelete(t *testing.T) {
	store := NewQueueStore(newTestDB(t))
	ctx := context.Background()

	id, err := store.Put(ctx, models.QueueItem{
		Type: models.QueueItemBiblePassage,
		BiblePassage: &models.QueueBiblePassage{
			Reference: "Rom 8",
			Verses:    []models.PassageVerse{{Reference: "Rom 8:1", Text: "no condemnation"}},
		},
	})
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	item, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if item.BiblePassage == nil || item.BiblePassage.Reference != "Rom 8" {
		t.Errorf("passage payload not decoded: %+v", item)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, id); err == nil {
		t.Error("expected error deleting missing item")
	}
}
