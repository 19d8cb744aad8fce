package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"stagehub/internal/models"
)

// QueueStore reads the operator-staged queue. The core treats the queue
// as read-only; Put/Delete exist for the excluded editor subsystem, which
// mutates through the same contract.
type QueueStore struct {
	database *sql.DB
}

// NewQueueStore creates a new queue store.
func NewQueueStore(database *sql.DB) *QueueStore {
	return &QueueStore{database: database}
}

// List returns all queue items ordered by their explicit sort key.
func (qs *QueueStore) List(ctx context.Context) ([]models.QueueItem, error) {
	rows, err := qs.database.QueryContext(ctx,
		`SELECT id, item_type, sort_key, payload FROM queue_items ORDER BY sort_key ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query queue items: %w", err)
	}
	defer rows.Close()

	var items []models.QueueItem
	for rows.Next() {
		item, err := scanQueueItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Get returns a single queue item by id.
func (qs *QueueStore) Get(ctx context.Context, id int64) (models.QueueItem, error) {
	row := qs.database.QueryRowContext(ctx,
		`SELECT id, item_type, sort_key, payload FROM queue_items WHERE id = ?`, id)
	item, err := scanQueueItem(row.Scan)
	if err == sql.ErrNoRows {
		return models.QueueItem{}, fmt.Errorf("queue item not found: %d", id)
	}
	return item, err
}

func scanQueueItem(scan func(...any) error) (models.QueueItem, error) {
	var (
		item    models.QueueItem
		payload string
	)
	if err := scan(&item.ID, &item.Type, &item.SortKey, &payload); err != nil {
		return models.QueueItem{}, err
	}
	if err := unmarshalQueuePayload(&item, payload); err != nil {
		return models.QueueItem{}, fmt.Errorf("failed to decode queue item %d: %w", item.ID, err)
	}
	return item, nil
}

func unmarshalQueuePayload(item *models.QueueItem, payload string) error {
	switch item.Type {
	case models.QueueItemSong:
		item.Song = &models.QueueSong{}
		return json.Unmarshal([]byte(payload), item.Song)
	case models.QueueItemSlide:
		item.Slide = &models.QueueSlide{}
		return json.Unmarshal([]byte(payload), item.Slide)
	case models.QueueItemBible:
		item.Bible = &models.QueueBible{}
		return json.Unmarshal([]byte(payload), item.Bible)
	case models.QueueItemBiblePassage:
		item.BiblePassage = &models.QueueBiblePassage{}
		return json.Unmarshal([]byte(payload), item.BiblePassage)
	}
	return fmt.Errorf("unknown item type: %s", item.Type)
}

func marshalQueuePayload(item models.QueueItem) (string, error) {
	var payload any
	switch item.Type {
	case models.QueueItemSong:
		payload = item.Song
	case models.QueueItemSlide:
		payload = item.Slide
	case models.QueueItemBible:
		payload = item.Bible
	case models.QueueItemBiblePassage:
		payload = item.BiblePassage
	default:
		return "", fmt.Errorf("unknown item type: %s", item.Type)
	}
	if payload == nil {
		return "", fmt.Errorf("queue item %d has no payload for type %s", item.ID, item.Type)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}
	return string(raw), nil
}

// Put inserts a queue item, or replaces it when item.ID is set.
func (qs *QueueStore) Put(ctx context.Context, item models.QueueItem) (int64, error) {
	payload, err := marshalQueuePayload(item)
	if err != nil {
		return 0, err
	}

	if item.ID != 0 {
		_, err := qs.database.ExecContext(ctx,
			`INSERT OR REPLACE INTO queue_items (id, item_type, sort_key, payload) VALUES (?, ?, ?, ?)`,
			item.ID, item.Type, item.SortKey, payload)
		if err != nil {
			return 0, fmt.Errorf("failed to replace queue item: %w", err)
		}
		return item.ID, nil
	}

	result, err := qs.database.ExecContext(ctx,
		`INSERT INTO queue_items (item_type, sort_key, payload) VALUES (?, ?, ?)`,
		item.Type, item.SortKey, payload)
	if err != nil {
		return 0, fmt.Errorf("failed to insert queue item: %w", err)
	}
	return result.LastInsertId()
}

// Delete removes a queue item.
func (qs *QueueStore) Delete(ctx context.Context, id int64) error {
	result, err := qs.database.ExecContext(ctx, `DELETE FROM queue_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete queue item: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("queue item not found: %d", id)
	}
	return nil
}
