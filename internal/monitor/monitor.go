// Package monitor keeps a display surface in sync with an image file on disk.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"image-monitor/internal/logger"
	"image-monitor/internal/models"
)

// ErrStartupDecode is returned by New when the first read of the file yields
// no image.
var ErrStartupDecode = errors.New("image file does not exist or is unreadable")

// ShapeMismatchError rejects a reload whose dimensions differ from the ones
// seen at startup.
type ShapeMismatchError struct {
	Want models.Shape
	Got  models.Shape
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("frame shape changed from %s to %s", e.Want, e.Got)
}

// Renderer produces a display-ready frame for a path.
type Renderer interface {
	Render(ctx context.Context, path string) (*models.Frame, error)
}

// Surface receives every accepted frame. Present replaces the whole frame and
// repaints.
type Surface interface {
	Present(frame *models.Frame)
}

// SkipReporter is implemented by surfaces that want to show skipped reloads.
type SkipReporter interface {
	ReportSkip(err error)
}

type Monitor struct {
	session  models.Session
	renderer Renderer
	logger   logger.Logger
	shape    models.Shape

	mu      sync.Mutex
	surface Surface
	current *models.Frame
	ticks   int64
	skipped int64
}

// New decodes the session's file once to fix the frame shape. No surface is
// involved yet, so a failure here leaves nothing on screen.
func New(ctx context.Context, session models.Session, renderer Renderer, log logger.Logger) (*Monitor, error) {
	if session.Interval <= 0 {
		return nil, errNonPositiveInterval
	}

	frame, err := renderer.Render(ctx, session.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrStartupDecode, session.Path, err)
	}

	log.Info("Monitor", "monitoring started", map[string]interface{}{
		"path":     session.Path,
		"tonemap":  session.ToneMap,
		"interval": session.Interval.String(),
		"shape":    frame.Shape.String(),
	})

	return &Monitor{
		session:  session,
		renderer: renderer,
		logger:   log,
		shape:    frame.Shape,
	}, nil
}

// Shape is the frame shape fixed at startup.
func (m *Monitor) Shape() models.Shape {
	return m.shape
}

func (m *Monitor) Session() models.Session {
	return m.session
}

// Attach initialises surface with a black frame of the startup shape.
func (m *Monitor) Attach(surface Surface) {
	blank := models.NewFrame(m.shape)

	m.mu.Lock()
	m.surface = surface
	m.current = blank
	m.mu.Unlock()

	surface.Present(blank)
}

// Run reloads immediately and then once per interval until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	m.mu.Lock()
	attached := m.surface != nil
	m.mu.Unlock()
	if !attached {
		return errors.New("monitor: no surface attached")
	}

	err := Periodic(ctx, m.session.Interval, func(ctx context.Context) {
		_ = m.Tick(ctx)
	})

	m.logger.Info("Monitor", "monitoring stopped", map[string]interface{}{
		"ticks":   m.Ticks(),
		"skipped": m.Skipped(),
	})
	return err
}

// Tick performs one reload. On failure the current frame stays on the
// surface and the error is returned for inspection only.
func (m *Monitor) Tick(ctx context.Context) error {
	m.mu.Lock()
	m.ticks++
	surface := m.surface
	m.mu.Unlock()

	frame, err := m.renderer.Render(ctx, m.session.Path)
	if ctxErr := ctx.Err(); ctxErr != nil {
		// Shutting down: not a skipped reload.
		return ctxErr
	}
	if err == nil && frame.Shape != m.shape {
		err = &ShapeMismatchError{Want: m.shape, Got: frame.Shape}
	}
	if err != nil {
		m.skip(surface, err)
		return err
	}

	m.mu.Lock()
	m.current = frame
	m.mu.Unlock()

	if surface != nil {
		surface.Present(frame)
	}
	return nil
}

func (m *Monitor) skip(surface Surface, err error) {
	m.mu.Lock()
	m.skipped++
	m.mu.Unlock()

	var mismatch *ShapeMismatchError
	if errors.As(err, &mismatch) {
		m.logger.Warning("Monitor", "reload skipped, frame shape changed", map[string]interface{}{
			"want": mismatch.Want.String(),
			"got":  mismatch.Got.String(),
		})
	} else {
		m.logger.Debug("Monitor", "reload skipped", map[string]interface{}{
			"path":  m.session.Path,
			"error": err.Error(),
		})
	}

	if reporter, ok := surface.(SkipReporter); ok {
		reporter.ReportSkip(err)
	}
}

// Current returns the frame last handed to the surface.
func (m *Monitor) Current() *models.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *Monitor) Ticks() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ticks
}

func (m *Monitor) Skipped() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.skipped
}
