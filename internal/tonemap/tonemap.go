// Package tonemap compresses linear high dynamic range frames into the
// displayable [0, 1] range.
package tonemap

import (
	"math"
	"strings"

	"image-monitor/internal/models"
)

type Mode int

const (
	ModeGamma Mode = iota
	ModeReinhard
	ModeDurand
)

func (m Mode) String() string {
	switch m {
	case ModeReinhard:
		return "reinhard"
	case ModeDurand:
		return "durand"
	default:
		return "gamma"
	}
}

// ParseMode accepts "reinhard" and "durand". Every other name, including the
// empty string, selects the plain gamma curve.
func ParseMode(name string) Mode {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "reinhard":
		return ModeReinhard
	case "durand":
		return ModeDurand
	default:
		return ModeGamma
	}
}

// Operator maps a linear frame to a new frame. The source is never modified.
// Results are not clipped.
type Operator interface {
	Apply(src *models.Frame) (*models.Frame, error)
	Name() string
}

// For returns the operator with default parameters for mode.
func For(mode Mode) Operator {
	switch mode {
	case ModeReinhard:
		return NewReinhard()
	case ModeDurand:
		return NewDurand()
	default:
		return NewGamma()
	}
}

// logFloor keeps log() finite on black pixels.
const logFloor = 1e-4

// Luma weights per RGB channel. OpenCV's tone operators run RGB2GRAY on
// BGR data, so the Rec.601 red weight lands on blue and vice versa.
const (
	weightR = 0.114
	weightG = 0.587
	weightB = 0.299
)

func luminance(px []float32) float64 {
	if len(px) < 3 {
		return float64(px[0])
	}
	return weightR*float64(px[0]) + weightG*float64(px[1]) + weightB*float64(px[2])
}

// grayPlane returns the per-pixel luminance of f, row major.
func grayPlane(f *models.Frame) []float64 {
	gray := make([]float64, f.Height*f.Width)
	for i := range gray {
		gray[i] = luminance(f.Pix[i*f.Channels : (i+1)*f.Channels])
	}
	return gray
}

func logPlane(gray []float64) []float64 {
	out := make([]float64, len(gray))
	for i, v := range gray {
		out[i] = math.Log(math.Max(v, logFloor))
	}
	return out
}

func minMax(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// safeDiv follows OpenCV's divide semantics: x/0 is 0.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// applyGamma raises every sample to 1/gamma in place. gamma == 1 is a no-op.
func applyGamma(f *models.Frame, gamma float64) {
	if gamma == 1 {
		return
	}
	inv := 1 / gamma
	for i, v := range f.Pix {
		f.Pix[i] = float32(math.Pow(float64(v), inv))
	}
}
