package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-monitor/internal/logger"
	"image-monitor/internal/models"
	"image-monitor/internal/tonemap"
)

// stubLoader serves fixed raw frames keyed by path.
type stubLoader struct {
	frames map[string]*models.Frame
	calls  int
}

func (s *stubLoader) Load(_ context.Context, path string) (*models.Frame, error) {
	s.calls++
	f, ok := s.frames[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoImageData, path)
	}
	return f.Clone(), nil
}

func rawFrame(h, w int, pix ...float32) *models.Frame {
	return &models.Frame{Shape: models.Shape{Height: h, Width: w, Channels: 3}, Pix: pix}
}

func TestIsHDRPath(t *testing.T) {
	assert.True(t, IsHDRPath("render.hdr"))
	assert.True(t, IsHDRPath("/tmp/RENDER.HDR"))
	assert.True(t, IsHDRPath("scene.pic"))
	assert.True(t, IsHDRPath("scene.exr"))
	assert.False(t, IsHDRPath("render.png"))
	assert.False(t, IsHDRPath("render.jpg"))
	assert.False(t, IsHDRPath("hdr"))
}

func TestRenderNormalizesStandardRange(t *testing.T) {
	loader := &stubLoader{frames: map[string]*models.Frame{
		"a.png": rawFrame(1, 2, 30, 20, 10, 255, 0, 128),
	}}
	r := NewRenderer(loader, tonemap.ModeReinhard, logger.Nop())

	frame, err := r.Render(context.Background(), "a.png")
	require.NoError(t, err)

	want := []float64{30.0 / 255, 20.0 / 255, 10.0 / 255, 1, 0, 128.0 / 255}
	for i, w := range want {
		assert.InDelta(t, w, frame.Pix[i], 1e-6, "sample %d", i)
	}
}

func TestRenderClipsOutOfRangeStandardSamples(t *testing.T) {
	loader := &stubLoader{frames: map[string]*models.Frame{
		"deep.png": rawFrame(1, 1, 65535, 510, 0),
	}}
	r := NewRenderer(loader, tonemap.ModeGamma, logger.Nop())

	frame, err := r.Render(context.Background(), "deep.png")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 1, 0}, frame.Pix)
}

func TestRenderHDRGammaFallback(t *testing.T) {
	// RGB order of the BGR pixel (4.0, 1.0, 0.25).
	loader := &stubLoader{frames: map[string]*models.Frame{
		"out.hdr": rawFrame(1, 1, 0.25, 1.0, 4.0),
	}}
	r := NewRenderer(loader, tonemap.ParseMode("other"), logger.Nop())

	frame, err := r.Render(context.Background(), "out.hdr")
	require.NoError(t, err)

	assert.InDelta(t, math.Pow(0.25, 1/2.2), frame.Pix[0], 1e-6)
	assert.InDelta(t, 0.549, frame.Pix[0], 1e-3)
	assert.InDelta(t, 1.0, frame.Pix[1], 1e-6)
	assert.InDelta(t, 1.0, frame.Pix[2], 1e-6)
}

func TestRenderHDROperatorsStayInRange(t *testing.T) {
	raw := rawFrame(2, 2,
		0.01, 0.02, 0.03,
		1, 1, 1,
		20, 10, 5,
		400, 300, 200,
	)
	for _, mode := range []tonemap.Mode{tonemap.ModeReinhard, tonemap.ModeDurand, tonemap.ModeGamma} {
		t.Run(mode.String(), func(t *testing.T) {
			loader := &stubLoader{frames: map[string]*models.Frame{"x.hdr": raw}}
			r := NewRenderer(loader, mode, logger.Nop())

			frame, err := r.Render(context.Background(), "x.hdr")
			require.NoError(t, err)
			assert.Equal(t, raw.Shape, frame.Shape)
			for _, v := range frame.Pix {
				assert.GreaterOrEqual(t, v, float32(0))
				assert.LessOrEqual(t, v, float32(1))
			}
		})
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	loader := &stubLoader{frames: map[string]*models.Frame{
		"x.hdr": rawFrame(1, 3, 0.5, 2, 8, 0.1, 0.1, 0.1, 3, 3, 3),
	}}
	r := NewRenderer(loader, tonemap.ModeDurand, logger.Nop())

	first, err := r.Render(context.Background(), "x.hdr")
	require.NoError(t, err)
	second, err := r.Render(context.Background(), "x.hdr")
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.NotSame(t, first, second)
}

func TestRenderReportsLoadFailure(t *testing.T) {
	loader := &stubLoader{frames: map[string]*models.Frame{}}
	r := NewRenderer(loader, tonemap.ModeReinhard, logger.Nop())

	_, err := r.Render(context.Background(), "missing.png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoImageData))

	snap := r.Metrics().Snapshot()
	assert.Equal(t, int64(0), snap.Renders)
	assert.Equal(t, int64(1), snap.Failures)
}

type failingOperator struct{}

func (failingOperator) Apply(*models.Frame) (*models.Frame, error) {
	return nil, errors.New("no base layer")
}

func (failingOperator) Name() string { return "failing" }

func TestProcessWrapsOperatorError(t *testing.T) {
	p := NewProcessor(failingOperator{})

	_, err := p.Process(rawFrame(1, 1, 1, 1, 1), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tone mapping with failing")

	out, err := p.Process(rawFrame(1, 1, 255, 0, 0), false)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0}, out.Pix)
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordSuccess(10)
	m.RecordSuccess(30)
	m.RecordFailure(5)

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Renders)
	assert.Equal(t, int64(1), snap.Failures)
	assert.EqualValues(t, 20, snap.AverageDuration)
	assert.EqualValues(t, 5, snap.LastDuration)
	assert.False(t, snap.LastSuccess.IsZero())
}
