package tonemap

import (
	"math"

	"image-monitor/internal/models"
)

// Reinhard is the global photographic operator in the parameterisation used
// by OpenCV's TonemapReinhard. Intensity is in [-8, 8], LightAdapt and
// ColorAdapt in [0, 1].
type Reinhard struct {
	Gamma      float64
	Intensity  float64
	LightAdapt float64
	ColorAdapt float64
}

func NewReinhard() Reinhard {
	return Reinhard{
		Gamma:      1.0,
		Intensity:  0.0,
		LightAdapt: 1.0,
		ColorAdapt: 0.0,
	}
}

func (r Reinhard) Name() string { return "reinhard" }

func (r Reinhard) Apply(src *models.Frame) (*models.Frame, error) {
	gray := grayPlane(src)
	logGray := logPlane(gray)

	var logSum, graySum float64
	for i := range gray {
		logSum += logGray[i]
		graySum += gray[i]
	}
	n := float64(len(gray))
	logMean := logSum / n
	grayMean := graySum / n
	logMin, logMax := minMax(logGray)

	key := 0.0
	if logMax > logMin {
		key = (logMax - logMean) / (logMax - logMin)
	}
	mapKey := 0.3 + 0.7*math.Pow(key, 1.4)
	intensity := math.Exp(-r.Intensity)

	channelMean := make([]float64, src.Channels)
	for i, v := range src.Pix {
		channelMean[i%src.Channels] += float64(v)
	}
	for c := range channelMean {
		channelMean[c] /= n
	}

	dst := models.NewFrame(src.Shape)
	for p := range gray {
		for c := 0; c < src.Channels; c++ {
			i := p*src.Channels + c
			v := float64(src.Pix[i])

			global := r.ColorAdapt*channelMean[c] + (1-r.ColorAdapt)*grayMean
			adapt := r.ColorAdapt*v + (1-r.ColorAdapt)*gray[p]
			adapt = r.LightAdapt*adapt + (1-r.LightAdapt)*global
			adapt = math.Pow(intensity*adapt, mapKey)

			dst.Pix[i] = float32(safeDiv(v, adapt+v))
		}
	}

	normalize(dst)
	applyGamma(dst, r.Gamma)
	return dst, nil
}

// normalize stretches f linearly onto [0, 1] unless it is flat.
func normalize(f *models.Frame) {
	lo, hi := float32(math.Inf(1)), float32(math.Inf(-1))
	for _, v := range f.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if !(hi > lo) {
		return
	}
	span := hi - lo
	for i, v := range f.Pix {
		f.Pix[i] = (v - lo) / span
	}
}
