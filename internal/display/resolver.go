package display

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"stagehub/internal/models"
)

// QueueFetcher reads the ordered queue from the hub. Fetches are
// uncached: every resolution sees the latest staged content.
//
//go:generate mockgen -destination=mocks/queue_fetcher_mock.go -package=mocks stagehub/internal/display QueueFetcher
type QueueFetcher interface {
	FetchQueue(ctx context.Context) ([]models.QueueItem, error)
}

// Resolver turns presentation state into renderable content. Resolutions
// that need a queue fetch run asynchronously; every run carries a
// generation marker, and a run that finishes after a newer run has
// started is discarded so late results never regress visible state.
type Resolver struct {
	logger  *zap.Logger
	fetcher QueueFetcher

	mu         sync.Mutex
	generation uint64
	lastGood   models.RenderContent

	results chan models.RenderContent
}

// NewResolver creates a resolver publishing onto a buffered results
// channel consumed by the display engine.
func NewResolver(logger *zap.Logger, fetcher QueueFetcher) *Resolver {
	return &Resolver{
		logger:   logger,
		fetcher:  fetcher,
		lastGood: models.EmptyContent(),
		results:  make(chan models.RenderContent, 8),
	}
}

// Results returns the channel of resolved content.
func (r *Resolver) Results() <-chan models.RenderContent {
	return r.results
}

// LastGood returns the most recently applied content.
func (r *Resolver) LastGood() models.RenderContent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastGood
}

// Apply starts a resolution run for state. A hidden state is never
// resolved, but it still bumps the generation so any in-flight run is
// superseded; the exit-animation coordinator owns the transition to
// empty, and the previous content stays in place until it completes.
func (r *Resolver) Apply(ctx context.Context, state models.PresentationState) {
	r.mu.Lock()
	r.generation++
	gen := r.generation
	r.mu.Unlock()

	if state.IsHidden {
		return
	}

	if state.TemporaryContent.Valid() {
		r.publish(gen, ResolveTemporary(state.TemporaryContent))
		return
	}

	if state.CurrentSongSlideID == nil && state.CurrentQueueItemID == nil {
		r.publish(gen, models.EmptyContent())
		return
	}

	go func() {
		items, err := r.fetcher.FetchQueue(ctx)

		r.mu.Lock()
		superseded := gen != r.generation
		r.mu.Unlock()
		if superseded {
			return
		}

		if err != nil {
			// Keep the last known-good content rather than blanking the
			// screen on a single failed fetch.
			r.logger.Warn("Queue fetch failed, keeping current content", zap.Error(err))
			return
		}
		r.publish(gen, ResolveFromQueue(state, items))
	}()
}

func (r *Resolver) publish(gen uint64, content models.RenderContent) {
	r.mu.Lock()
	if gen != r.generation {
		r.mu.Unlock()
		return
	}
	r.lastGood = content
	r.mu.Unlock()

	select {
	case r.results <- content:
	default:
		r.logger.Warn("Dropping resolved content, results channel full")
	}
}

// ResolveTemporary decodes a temporary-content payload into render
// content. Resolution is pure: the same payload always yields the same
// content.
func ResolveTemporary(tc *models.TemporaryContent) models.RenderContent {
	if !tc.Valid() {
		return models.EmptyContent()
	}

	switch tc.Type {
	case models.VariantBible:
		b := tc.Bible
		// A single verse carries no chapter length, so there is no known
		// next verse to preview.
		return models.RenderContent{
			Type:          models.RenderBible,
			MainText:      b.PrimaryText,
			SecondaryText: b.SecondaryText,
			ReferenceText: StripTranslationSuffix(b.Reference),
		}

	case models.VariantSong:
		s := tc.Song
		if len(s.Slides) == 0 || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Slides) {
			return models.EmptyContent()
		}
		texts := FormatSongSlides(s.Slides, "")
		content := models.RenderContent{
			Type:       models.RenderSong,
			MainText:   texts[s.CurrentIndex],
			TitleText:  s.Title,
			SlideIndex: s.CurrentIndex,
			SlideCount: len(s.Slides),
		}
		if s.CurrentIndex+1 < len(s.Slides) {
			content.NextPreview = texts[s.CurrentIndex+1]
		} else {
			content.NextPreview = s.NextItemLabel
		}
		return content

	case models.VariantAnnouncement:
		return models.RenderContent{
			Type:     models.RenderAnnouncement,
			MainText: tc.Announcement.Content,
		}

	case models.VariantBiblePassage:
		p := tc.BiblePassage
		idx := p.CurrentIndex
		if idx < 0 || idx >= len(p.Verses) {
			idx = 0
		}
		if len(p.Verses) == 0 {
			return models.EmptyContent()
		}
		return models.RenderContent{
			Type:          models.RenderBiblePassage,
			MainText:      p.Verses[idx].Text,
			ReferenceText: p.Verses[idx].Reference,
			SlideIndex:    idx,
			SlideCount:    len(p.Verses),
		}

	case models.VariantVerseteTineri:
		v := tc.VerseteTineri
		idx := v.CurrentIndex
		if idx < 0 || idx >= len(v.Entries) {
			idx = 0
		}
		if len(v.Entries) == 0 {
			return models.EmptyContent()
		}
		return models.RenderContent{
			Type:          models.RenderVerseteTineri,
			MainText:      v.Entries[idx].Text,
			ReferenceText: v.Entries[idx].Reference,
			PersonLabel:   v.PersonLabel,
			SlideIndex:    idx,
			SlideCount:    len(v.Entries),
		}

	case models.VariantScreenShare:
		return models.RenderContent{Type: models.RenderScreenShare}

	case models.VariantScene:
		return models.RenderContent{
			Type:    models.RenderScene,
			SceneID: tc.Scene.SceneID,
		}
	}
	return models.EmptyContent()
}

// ResolveFromQueue resolves state against a queue snapshot. Priority: an
// active song slide first, then the current queue item, else empty.
func ResolveFromQueue(state models.PresentationState, items []models.QueueItem) models.RenderContent {
	if state.CurrentSongSlideID != nil {
		if content, ok := resolveSongSlide(*state.CurrentSongSlideID, items); ok {
			return content
		}
	}
	if state.CurrentQueueItemID != nil {
		if content, ok := resolveQueueItem(*state.CurrentQueueItemID, items); ok {
			return content
		}
	}
	return models.EmptyContent()
}

func resolveSongSlide(slideID string, items []models.QueueItem) (models.RenderContent, bool) {
	for _, item := range items {
		if item.Type != models.QueueItemSong || item.Song == nil {
			continue
		}
		for i, slide := range item.Song.Slides {
			if slide.ID != slideID {
				continue
			}
			texts := FormatSongSlides(item.Song.Slides, item.Song.KeyLine)
			content := models.RenderContent{
				Type:       models.RenderSong,
				MainText:   texts[i],
				TitleText:  item.Song.Title,
				SlideIndex: i,
				SlideCount: len(item.Song.Slides),
			}
			if i+1 < len(texts) {
				content.NextPreview = texts[i+1]
			} else {
				content.NextPreview = item.Song.NextItemLabel
			}
			return content, true
		}
	}
	return models.RenderContent{}, false
}

func resolveQueueItem(itemID int64, items []models.QueueItem) (models.RenderContent, bool) {
	for _, item := range items {
		if item.ID != itemID {
			continue
		}
		switch item.Type {
		case models.QueueItemSlide:
			if item.Slide == nil {
				return models.RenderContent{}, false
			}
			if item.Slide.Kind == models.SlideKindVerseteTineri {
				idx := item.Slide.EntryIndex
				if idx < 0 || idx >= len(item.Slide.Entries) {
					idx = 0
				}
				if len(item.Slide.Entries) == 0 {
					return models.RenderContent{}, false
				}
				return models.RenderContent{
					Type:          models.RenderVerseteTineri,
					MainText:      item.Slide.Entries[idx].Text,
					ReferenceText: item.Slide.Entries[idx].Reference,
					PersonLabel:   item.Slide.PersonLabel,
					SlideIndex:    idx,
					SlideCount:    len(item.Slide.Entries),
				}, true
			}
			return models.RenderContent{
				Type:     models.RenderAnnouncement,
				MainText: item.Slide.Content,
			}, true

		case models.QueueItemBible:
			if item.Bible == nil {
				return models.RenderContent{}, false
			}
			return models.RenderContent{
				Type:          models.RenderBible,
				MainText:      item.Bible.Text,
				SecondaryText: item.Bible.SecondaryText,
				ReferenceText: StripTranslationSuffix(item.Bible.Reference),
			}, true

		case models.QueueItemBiblePassage:
			if item.BiblePassage == nil || len(item.BiblePassage.Verses) == 0 {
				return models.RenderContent{}, false
			}
			idx := item.BiblePassage.CurrentIndex
			if idx < 0 || idx >= len(item.BiblePassage.Verses) {
				idx = 0
			}
			verse := item.BiblePassage.Verses[idx]
			return models.RenderContent{
				Type:          models.RenderBiblePassage,
				MainText:      verse.Text,
				ReferenceText: verse.Reference,
				SlideIndex:    idx,
				SlideCount:    len(item.BiblePassage.Verses),
			}, true

		case models.QueueItemSong:
			// Songs are presented through slide ids, not item selection.
			return models.RenderContent{}, false
		}
	}
	return models.RenderContent{}, false
}

// closingLine is appended to a song's last slide unless the slide already
// carries the word's root.
const closingLine = "Amin!"

// FormatSongSlides applies the list-first/list-last rules: the key line,
// when configured, is repeated at the top of the first slide, and the
// closing exclamation is appended to the last slide unless its root is
// already present.
func FormatSongSlides(slides []models.SongSlide, keyLine string) []string {
	if len(slides) == 0 {
		return nil
	}
	texts := make([]string, len(slides))
	for i, slide := range slides {
		texts[i] = slide.Text
	}
	if keyLine != "" {
		texts[0] = keyLine + "\n" + texts[0]
	}
	last := texts[len(texts)-1]
	if !strings.Contains(strings.ToLower(last), "amin") {
		texts[len(texts)-1] = last + "\n" + closingLine
	}
	return texts
}

// StripTranslationSuffix drops a trailing translation code from a
// displayed reference: "John 3:16 - KJV" becomes "John 3:16".
func StripTranslationSuffix(reference string) string {
	if i := strings.LastIndex(reference, " - "); i > 0 {
		return strings.TrimSpace(reference[:i])
	}
	return reference
}
