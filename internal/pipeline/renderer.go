package pipeline

import (
	"context"
	"time"

	"image-monitor/internal/logger"
	"image-monitor/internal/models"
	"image-monitor/internal/tonemap"
)

// Renderer performs one complete reload: decode, tone-map or normalise, clip.
type Renderer struct {
	loader    FrameLoader
	processor *Processor
	logger    logger.Logger
	metrics   *Metrics
}

func NewRenderer(loader FrameLoader, mode tonemap.Mode, log logger.Logger) *Renderer {
	return &Renderer{
		loader:    loader,
		processor: NewProcessor(tonemap.For(mode)),
		logger:    log,
		metrics:   NewMetrics(),
	}
}

// Render returns a fresh RGB frame in [0, 1] for path. Read failures are
// reported as ErrNoImageData; tone mapping failures are returned wrapped.
func (r *Renderer) Render(ctx context.Context, path string) (*models.Frame, error) {
	start := time.Now()

	raw, err := r.loader.Load(ctx, path)
	if err != nil {
		r.metrics.RecordFailure(time.Since(start))
		return nil, err
	}

	hdr := IsHDRPath(path)
	frame, err := r.processor.Process(raw, hdr)
	if err != nil {
		r.metrics.RecordFailure(time.Since(start))
		return nil, err
	}
	elapsed := time.Since(start)
	r.metrics.RecordSuccess(elapsed)

	r.logger.Debug("Renderer", "frame rendered", map[string]interface{}{
		"path":        path,
		"shape":       frame.Shape.String(),
		"hdr":         hdr,
		"operator":    r.operatorName(hdr),
		"duration_ms": elapsed.Milliseconds(),
	})

	return frame, nil
}

func (r *Renderer) Metrics() *Metrics {
	return r.metrics
}

func (r *Renderer) operatorName(hdr bool) string {
	if !hdr {
		return "normalize"
	}
	return r.processor.OperatorName()
}
