package tonemap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-monitor/internal/models"
)

func rgbFrame(h, w int, fill func(y, x int) [3]float32) *models.Frame {
	f := models.NewFrame(models.Shape{Height: h, Width: w, Channels: 3})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := fill(y, x)
			copy(f.Pixel(y, x), px[:])
		}
	}
	return f
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeReinhard, ParseMode("reinhard"))
	assert.Equal(t, ModeReinhard, ParseMode(" Reinhard "))
	assert.Equal(t, ModeDurand, ParseMode("durand"))
	assert.Equal(t, ModeGamma, ParseMode(""))
	assert.Equal(t, ModeGamma, ParseMode("other"))
	assert.Equal(t, ModeGamma, ParseMode("drago"))
}

func TestForReturnsOperatorPerMode(t *testing.T) {
	assert.Equal(t, "reinhard", For(ModeReinhard).Name())
	assert.Equal(t, "durand", For(ModeDurand).Name())
	assert.Equal(t, "gamma", For(ModeGamma).Name())
	assert.Equal(t, "gamma", For(ParseMode("whatever")).Name())
}

func TestGammaCurve(t *testing.T) {
	// RGB order of the BGR pixel (4.0, 1.0, 0.25).
	src := rgbFrame(1, 1, func(int, int) [3]float32 { return [3]float32{0.25, 1.0, 4.0} })

	out, err := NewGamma().Apply(src)
	require.NoError(t, err)

	inv := 1 / 2.2
	assert.InDelta(t, math.Pow(0.25, inv), out.Pix[0], 1e-6)
	assert.InDelta(t, 1.0, out.Pix[1], 1e-6)
	assert.InDelta(t, math.Pow(4.0, inv), out.Pix[2], 1e-6)
	assert.InDelta(t, 0.549, out.Pix[0], 1e-3)

	assert.Equal(t, []float32{0.25, 1.0, 4.0}, src.Pix, "source must not be modified")
}

func TestReinhardOutputIsNormalizedAndMonotonic(t *testing.T) {
	src := rgbFrame(1, 16, func(_, x int) [3]float32 {
		v := float32(math.Pow(2, float64(x)-6))
		return [3]float32{v, v, v}
	})

	out, err := NewReinhard().Apply(src)
	require.NoError(t, err)
	require.Equal(t, src.Shape, out.Shape)

	lo, hi := float32(math.MaxFloat32), float32(-math.MaxFloat32)
	for _, v := range out.Pix {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	assert.InDelta(t, 0, lo, 1e-6)
	assert.InDelta(t, 1, hi, 1e-6)

	for x := 1; x < 16; x++ {
		assert.Greater(t, out.At(0, x, 1), out.At(0, x-1, 1), "x=%d", x)
	}
}

func TestReinhardFlatFrameStaysFinite(t *testing.T) {
	src := rgbFrame(4, 4, func(int, int) [3]float32 { return [3]float32{0.5, 0.5, 0.5} })

	out, err := NewReinhard().Apply(src)
	require.NoError(t, err)
	for _, v := range out.Pix {
		assert.False(t, math.IsNaN(float64(v)))
		assert.False(t, math.IsInf(float64(v), 0))
	}
}

func TestReinhardBlackFrame(t *testing.T) {
	src := models.NewFrame(models.Shape{Height: 2, Width: 2, Channels: 3})

	out, err := NewReinhard().Apply(src)
	require.NoError(t, err)
	for _, v := range out.Pix {
		assert.Zero(t, v)
	}
}

func TestDurandUniformFrameIsUnchanged(t *testing.T) {
	src := rgbFrame(5, 5, func(int, int) [3]float32 { return [3]float32{0.2, 0.4, 0.8} })

	out, err := NewDurand().Apply(src)
	require.NoError(t, err)
	for i := range src.Pix {
		assert.InDelta(t, src.Pix[i], out.Pix[i], 1e-5)
	}
}

func TestDurandCompressesContrast(t *testing.T) {
	src := rgbFrame(8, 8, func(_, x int) [3]float32 {
		if x < 4 {
			return [3]float32{1, 1, 1}
		}
		return [3]float32{1000, 1000, 1000}
	})

	out, err := NewDurand().Apply(src)
	require.NoError(t, err)

	dark := out.At(4, 0, 1)
	bright := out.At(4, 7, 1)
	require.Greater(t, dark, float32(0))
	ratio := bright / dark
	assert.Greater(t, ratio, float32(1))
	assert.Less(t, ratio, float32(100))
}

func TestDurandPreservesColorRatios(t *testing.T) {
	src := rgbFrame(3, 3, func(y, x int) [3]float32 {
		s := float32(1 + x + y)
		return [3]float32{0.5 * s, 1 * s, 2 * s}
	})

	out, err := NewDurand().Apply(src)
	require.NoError(t, err)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			px := out.Pixel(y, x)
			assert.InDelta(t, 2.0, px[1]/px[0], 1e-3)
			assert.InDelta(t, 2.0, px[2]/px[1], 1e-3)
		}
	}
}

func TestLuminanceWeightsFollowOpenCVChannelOrder(t *testing.T) {
	assert.InDelta(t, 0.114, luminance([]float32{1, 0, 0}), 1e-9)
	assert.InDelta(t, 0.587, luminance([]float32{0, 1, 0}), 1e-9)
	assert.InDelta(t, 0.299, luminance([]float32{0, 0, 1}), 1e-9)
	assert.InDelta(t, 0.5, luminance([]float32{0.5}), 1e-9)
}

func TestReinhardChromaticFrame(t *testing.T) {
	src := rgbFrame(1, 2, func(_, x int) [3]float32 {
		if x == 0 {
			return [3]float32{0, 0, 4}
		}
		return [3]float32{0.5, 0.5, 0.5}
	})

	out, err := NewReinhard().Apply(src)
	require.NoError(t, err)

	want := []float32{0, 0, 1, 0.54285, 0.54285, 0.54285}
	for i, w := range want {
		assert.InDelta(t, w, out.Pix[i], 1e-4, "sample %d", i)
	}
}

func TestDurandChromaticFrame(t *testing.T) {
	// Blue on the left, grey on the right. Columns 0 and 15 lie more than
	// the filter radius away from the boundary, so their base layer is the
	// pixel's own log luminance.
	src := rgbFrame(3, 16, func(_, x int) [3]float32 {
		if x < 8 {
			return [3]float32{0, 0, 4}
		}
		return [3]float32{0.5, 0.5, 0.5}
	})

	out, err := NewDurand().Apply(src)
	require.NoError(t, err)

	blue := out.Pixel(1, 0)
	assert.Zero(t, blue[0])
	assert.Zero(t, blue[1])
	assert.InEpsilon(t, 7.6005, blue[2], 1e-3)

	grey := out.Pixel(1, 15)
	for c := 0; c < 3; c++ {
		assert.InEpsilon(t, 0.041623, grey[c], 1e-3)
	}
}

func TestBaseLayerKeepsConstantPlane(t *testing.T) {
	plane := make([]float64, 6*4)
	for i := range plane {
		plane[i] = 1.5
	}

	base, lo, hi, err := baseLayer(plane, 6, 4, 2, 2)
	require.NoError(t, err)
	require.Len(t, base, len(plane))
	for _, v := range base {
		assert.InDelta(t, 1.5, v, 1e-6)
	}
	assert.InDelta(t, 1.5, lo, 1e-6)
	assert.InDelta(t, 1.5, hi, 1e-6)
}

func TestBaseLayerPreservesStrongEdge(t *testing.T) {
	const width, height = 10, 4
	plane := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 5; x < width; x++ {
			plane[y*width+x] = 50
		}
	}

	base, lo, hi, err := baseLayer(plane, width, height, 2, 2)
	require.NoError(t, err)
	for y := 0; y < height; y++ {
		assert.InDelta(t, 0, base[y*width+4], 1e-4, "row %d", y)
		assert.InDelta(t, 50, base[y*width+5], 1e-4, "row %d", y)
	}
	assert.InDelta(t, 0, lo, 1e-4)
	assert.InDelta(t, 50, hi, 1e-4)
}
