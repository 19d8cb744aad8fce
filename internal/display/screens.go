package display

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"stagehub/internal/models"
)

// ScreenConfigFetcher reads a screen's render configuration from the hub.
type ScreenConfigFetcher interface {
	FetchScreenConfigs(ctx context.Context, screenID string) ([]models.ScreenConfig, error)
}

// ScreenConfigs caches this display's per-content-type configuration and
// re-fetches when a screen_config_updated signal names this screen. An
// ephemeral preview overrides the cached entry until the next preview or
// durable update.
type ScreenConfigs struct {
	logger   *zap.Logger
	fetcher  ScreenConfigFetcher
	screenID string

	mu       sync.RWMutex
	configs  map[models.RenderType]models.ScreenConfig
	previews map[models.RenderType]models.ScreenConfig
}

// NewScreenConfigs creates the cache for one screen.
func NewScreenConfigs(logger *zap.Logger, fetcher ScreenConfigFetcher, screenID string) *ScreenConfigs {
	return &ScreenConfigs{
		logger:   logger,
		fetcher:  fetcher,
		screenID: screenID,
		configs:  make(map[models.RenderType]models.ScreenConfig),
		previews: make(map[models.RenderType]models.ScreenConfig),
	}
}

// Refresh re-fetches the screen's config from the hub and drops any
// previews, which are superseded by durable updates.
func (sc *ScreenConfigs) Refresh(ctx context.Context) error {
	configs, err := sc.fetcher.FetchScreenConfigs(ctx, sc.screenID)
	if err != nil {
		return err
	}
	sc.mu.Lock()
	sc.configs = make(map[models.RenderType]models.ScreenConfig, len(configs))
	for _, cfg := range configs {
		sc.configs[cfg.ContentType] = cfg
	}
	sc.previews = make(map[models.RenderType]models.ScreenConfig)
	sc.mu.Unlock()
	return nil
}

// ApplyPreview overlays a live-editing preview for this screen.
func (sc *ScreenConfigs) ApplyPreview(preview models.ScreenConfigPreview) {
	if preview.ScreenID != sc.screenID {
		return
	}
	sc.mu.Lock()
	sc.previews[preview.Config.ContentType] = preview.Config
	sc.mu.Unlock()
}

// Get returns the effective config for a content type, preview first.
func (sc *ScreenConfigs) Get(contentType models.RenderType) (models.ScreenConfig, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	if cfg, ok := sc.previews[contentType]; ok {
		return cfg, true
	}
	cfg, ok := sc.configs[contentType]
	return cfg, ok
}

// MaxExitDuration returns the longest configured exit animation across
// the elements of the given content type, feeding the exit-animation
// delay.
func (sc *ScreenConfigs) MaxExitDuration(contentType models.RenderType) time.Duration {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	longest := 0
	if cfg, ok := sc.previews[contentType]; ok {
		longest = cfg.AnimationOutMs
	} else if cfg, ok := sc.configs[contentType]; ok {
		longest = cfg.AnimationOutMs
	}
	// The clock overlay and other shared elements animate with the
	// screen-wide empty config when present.
	if cfg, ok := sc.configs[models.RenderEmpty]; ok && cfg.AnimationOutMs > longest {
		longest = cfg.AnimationOutMs
	}
	return time.Duration(longest) * time.Millisecond
}
