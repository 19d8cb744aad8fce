package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"stagehub/internal/models"
)

// StateStore owns the authoritative presentation state: a single row,
// mutated in place, versioned by a monotonic millisecond timestamp.
// Writes are serialized by the store mutex; concurrent operator sessions
// resolve last-write-wins.
type StateStore struct {
	mu        sync.RWMutex
	database  *sql.DB
	logger    *zap.Logger
	state     models.PresentationState
	lastStamp int64
	onChange  func(models.PresentationState)
}

// NewStateStore loads the persisted state row, creating the default empty
// row if none exists.
func NewStateStore(database *sql.DB, logger *zap.Logger) (*StateStore, error) {
	s := &StateStore{
		database: database,
		logger:   logger,
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("failed to load presentation state: %w", err)
	}
	s.lastStamp = s.state.UpdatedAt
	return s, nil
}

// OnChange registers the broadcast hook invoked after every successful
// mutation. Must be called before the store is shared.
func (s *StateStore) OnChange(fn func(models.PresentationState)) {
	s.onChange = fn
}

func (s *StateStore) load() error {
	row := s.database.QueryRow(`SELECT is_presenting, is_hidden, current_queue_item_id,
		current_song_slide_id, last_song_slide_id, temporary_content, updated_at
		FROM presentation_state WHERE id = 1`)

	var (
		state        models.PresentationState
		queueItemID  sql.NullInt64
		songSlideID  sql.NullString
		lastSlideID  sql.NullString
		tempContent  sql.NullString
	)
	err := row.Scan(&state.IsPresenting, &state.IsHidden, &queueItemID,
		&songSlideID, &lastSlideID, &tempContent, &state.UpdatedAt)
	if err == sql.ErrNoRows {
		s.state = models.EmptyState()
		_, err = s.database.Exec(`INSERT INTO presentation_state
			(id, is_presenting, is_hidden, updated_at) VALUES (1, 0, 1, 0)`)
		if err != nil {
			return fmt.Errorf("failed to insert default state row: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to scan state row: %w", err)
	}

	if queueItemID.Valid {
		state.CurrentQueueItemID = &queueItemID.Int64
	}
	if songSlideID.Valid {
		state.CurrentSongSlideID = &songSlideID.String
	}
	if lastSlideID.Valid {
		state.LastSongSlideID = &lastSlideID.String
	}
	if tempContent.Valid && tempContent.String != "" {
		var tc models.TemporaryContent
		if err := json.Unmarshal([]byte(tempContent.String), &tc); err != nil || !tc.Valid() {
			// Corrupt payload is treated as no temporary content.
			s.logger.Warn("Discarding malformed temporary content", zap.Error(err))
		} else {
			state.TemporaryContent = &tc
		}
	}

	s.state = state
	return nil
}

// GetState returns a copy of the current state.
func (s *StateStore) GetState() models.PresentationState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// nowMillis returns a stamp strictly greater than any previously issued
// one, even when the wall clock has not advanced a full millisecond.
// Must be called with the lock held.
func (s *StateStore) nowMillis() int64 {
	now := time.Now().UnixMilli()
	if now <= s.lastStamp {
		now = s.lastStamp + 1
	}
	s.lastStamp = now
	return now
}

// SetState merges patch into the state, stamps updated_at, persists and
// broadcasts. On persistence failure the in-memory state keeps the last
// durable value and the error is returned to the caller.
func (s *StateStore) SetState(patch models.StatePatch) (models.PresentationState, error) {
	s.mu.Lock()
	next := s.state
	if patch.IsPresenting != nil {
		next.IsPresenting = *patch.IsPresenting
	}
	if patch.IsHidden != nil {
		next.IsHidden = *patch.IsHidden
	}
	if patch.CurrentQueueItemID != nil {
		next.CurrentQueueItemID = patch.CurrentQueueItemID
	}
	if patch.CurrentSongSlideID != nil {
		next.CurrentSongSlideID = patch.CurrentSongSlideID
	}
	if patch.LastSongSlideID != nil {
		next.LastSongSlideID = patch.LastSongSlideID
	}
	if patch.TemporaryContent != nil {
		// Switching variants replaces the previous payload wholesale.
		next.TemporaryContent = patch.TemporaryContent
	}
	if patch.ClearQueueItem {
		next.CurrentQueueItemID = nil
	}
	if patch.ClearSongSlide {
		next.CurrentSongSlideID = nil
	}
	if patch.ClearTemporary {
		next.TemporaryContent = nil
	}
	return s.commit(next)
}

// NavigateTemporary advances the active temporary content. Past either
// boundary it clears the temporary content and falls back to the empty
// shape instead of wrapping.
func (s *StateStore) NavigateTemporary(dir models.Direction) (models.PresentationState, error) {
	s.mu.Lock()
	next := s.state
	tc := next.TemporaryContent
	if !tc.Valid() {
		s.mu.Unlock()
		return s.GetState(), nil
	}

	step := 1
	if dir == models.DirectionPrev {
		step = -1
	}

	clearOut := func() {
		next.TemporaryContent = nil
		next.IsHidden = true
	}

	switch tc.Type {
	case models.VariantSong:
		idx := tc.Song.CurrentIndex + step
		if idx < 0 || idx >= len(tc.Song.Slides) {
			clearOut()
		} else {
			song := *tc.Song
			song.CurrentIndex = idx
			copied := *tc
			copied.Song = &song
			next.TemporaryContent = &copied
		}
	case models.VariantBiblePassage:
		idx := tc.BiblePassage.CurrentIndex + step
		if idx < 0 || idx >= len(tc.BiblePassage.Verses) {
			clearOut()
		} else {
			passage := *tc.BiblePassage
			passage.CurrentIndex = idx
			copied := *tc
			copied.BiblePassage = &passage
			next.TemporaryContent = &copied
		}
	case models.VariantVerseteTineri:
		idx := tc.VerseteTineri.CurrentIndex + step
		if idx < 0 || idx >= len(tc.VerseteTineri.Entries) {
			clearOut()
		} else {
			entries := *tc.VerseteTineri
			entries.CurrentIndex = idx
			copied := *tc
			copied.VerseteTineri = &entries
			next.TemporaryContent = &copied
		}
	default:
		// Single-slide variants have no interior to navigate.
		clearOut()
	}
	return s.commit(next)
}

// ClearTemporary drops the temporary content, falling back to the queue.
func (s *StateStore) ClearTemporary() (models.PresentationState, error) {
	s.mu.Lock()
	next := s.state
	next.TemporaryContent = nil
	return s.commit(next)
}

// ClearSlide hides the output without clearing the selection, so "show
// again" restores the same content.
func (s *StateStore) ClearSlide() (models.PresentationState, error) {
	s.mu.Lock()
	next := s.state
	next.IsHidden = true
	return s.commit(next)
}

// commit stamps, persists and publishes next. Called with the lock held;
// releases it.
func (s *StateStore) commit(next models.PresentationState) (models.PresentationState, error) {
	next.UpdatedAt = s.nowMillis()

	if err := s.persist(next); err != nil {
		// Roll back the stamp so the next mutation reuses the window.
		s.lastStamp = s.state.UpdatedAt
		s.mu.Unlock()
		s.logger.Error("Failed to persist presentation state", zap.Error(err))
		return s.state, fmt.Errorf("failed to persist state: %w", err)
	}

	s.state = next
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange(next)
	}
	return next, nil
}

func (s *StateStore) persist(state models.PresentationState) error {
	var tempContent sql.NullString
	if state.TemporaryContent != nil {
		raw, err := json.Marshal(state.TemporaryContent)
		if err != nil {
			return fmt.Errorf("failed to marshal temporary content: %w", err)
		}
		tempContent = sql.NullString{String: string(raw), Valid: true}
	}

	var queueItemID sql.NullInt64
	if state.CurrentQueueItemID != nil {
		queueItemID = sql.NullInt64{Int64: *state.CurrentQueueItemID, Valid: true}
	}
	var songSlideID, lastSlideID sql.NullString
	if state.CurrentSongSlideID != nil {
		songSlideID = sql.NullString{String: *state.CurrentSongSlideID, Valid: true}
	}
	if state.LastSongSlideID != nil {
		lastSlideID = sql.NullString{String: *state.LastSongSlideID, Valid: true}
	}

	_, err := s.database.Exec(`UPDATE presentation_state SET
		is_presenting = ?, is_hidden = ?, current_queue_item_id = ?,
		current_song_slide_id = ?, last_song_slide_id = ?,
		temporary_content = ?, updated_at = ?
		WHERE id = 1`,
		state.IsPresenting, state.IsHidden, queueItemID,
		songSlideID, lastSlideID, tempContent, state.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update state row: %w", err)
	}
	return nil
}
