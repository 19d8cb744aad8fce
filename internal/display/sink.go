package display

import (
	"go.uber.org/zap"

	"stagehub/internal/models"
)

// LogSink is the default RenderSink: it logs what would be drawn. The
// real renderer (webview, overlay compositor) registers its own sink.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a logging render sink.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Render(content models.RenderContent) {
	s.logger.Info("Render",
		zap.String("type", string(content.Type)),
		zap.String("reference", content.ReferenceText),
		zap.Int("slide", content.SlideIndex),
		zap.Int("slides", content.SlideCount))
}

func (s *LogSink) SetBanner(visible bool) {
	s.logger.Info("Connection banner", zap.Bool("visible", visible))
}

func (s *LogSink) SetOverlay(visible bool) {
	s.logger.Info("Dim overlay", zap.Bool("visible", visible))
}
