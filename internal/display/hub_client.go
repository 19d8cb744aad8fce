package display

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stagehub/internal/models"
)

// HubClient reads the hub's HTTP contracts: the queue snapshot and a
// screen's render configuration.
type HubClient struct {
	baseURL string
	client  *http.Client
}

// NewHubClient creates a client for the hub API.
func NewHubClient(baseURL string) *HubClient {
	return &HubClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchQueue returns the ordered queue with nested payloads, bypassing
// any intermediate cache.
func (hc *HubClient) FetchQueue(ctx context.Context) ([]models.QueueItem, error) {
	var items []models.QueueItem
	if err := hc.get(ctx, "/api/queue", &items); err != nil {
		return nil, fmt.Errorf("fetch queue: %w", err)
	}
	return items, nil
}

// FetchScreenConfigs returns all content-type configs for a screen.
func (hc *HubClient) FetchScreenConfigs(ctx context.Context, screenID string) ([]models.ScreenConfig, error) {
	var configs []models.ScreenConfig
	if err := hc.get(ctx, "/api/screens/"+screenID+"/config", &configs); err != nil {
		return nil, fmt.Errorf("fetch screen configs: %w", err)
	}
	return configs, nil
}

// FetchState re-reads the authoritative state, used to resync after a
// reconnect.
func (hc *HubClient) FetchState(ctx context.Context) (models.PresentationState, error) {
	var state models.PresentationState
	if err := hc.get(ctx, "/api/state", &state); err != nil {
		return models.PresentationState{}, fmt.Errorf("fetch state: %w", err)
	}
	return state, nil
}

func (hc *HubClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hc.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := hc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
