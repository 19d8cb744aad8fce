package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"stagehub/internal/models"
)

// ScreenStore persists per-screen, per-content-type render configuration.
// The settings subsystem writes it; displays read it and re-fetch when a
// screen_config_updated signal arrives.
type ScreenStore struct {
	database *sql.DB
}

// NewScreenStore creates a new screen config store.
func NewScreenStore(database *sql.DB) *ScreenStore {
	return &ScreenStore{database: database}
}

// GetConfigs returns all content-type configs for a screen.
func (ss *ScreenStore) GetConfigs(ctx context.Context, screenID string) ([]models.ScreenConfig, error) {
	rows, err := ss.database.QueryContext(ctx,
		`SELECT screen_id, content_type, config, updated_at FROM screen_configs WHERE screen_id = ?`,
		screenID)
	if err != nil {
		return nil, fmt.Errorf("failed to query screen configs: %w", err)
	}
	defer rows.Close()

	var configs []models.ScreenConfig
	for rows.Next() {
		var (
			cfg       models.ScreenConfig
			payload   string
			updatedAt int64
		)
		if err := rows.Scan(&cfg.ScreenID, &cfg.ContentType, &payload, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan screen config: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode screen config %s/%s: %w", cfg.ScreenID, cfg.ContentType, err)
		}
		cfg.UpdatedAt = updatedAt
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

// ScreenIDs returns the distinct screens that have a config row.
func (ss *ScreenStore) ScreenIDs(ctx context.Context) ([]string, error) {
	rows, err := ss.database.QueryContext(ctx, `SELECT DISTINCT screen_id FROM screen_configs`)
	if err != nil {
		return nil, fmt.Errorf("failed to query screen ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan screen id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Upsert writes one screen/content-type config and returns its stamped
// updated_at.
func (ss *ScreenStore) Upsert(ctx context.Context, cfg models.ScreenConfig) (int64, error) {
	updatedAt := time.Now().UnixMilli()
	cfg.UpdatedAt = updatedAt
	payload, err := json.Marshal(cfg)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal screen config: %w", err)
	}

	_, err = ss.database.ExecContext(ctx,
		`INSERT OR REPLACE INTO screen_configs (screen_id, content_type, config, updated_at)
		VALUES (?, ?, ?, ?)`,
		cfg.ScreenID, cfg.ContentType, string(payload), updatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert screen config: %w", err)
	}
	return updatedAt, nil
}
