package tonemap

import (
	"math"

	"image-monitor/internal/models"
)

const DefaultGamma = 2.2

// Gamma is a pure power-law curve: out = (in / MaxValue) ^ (1 / Gamma).
type Gamma struct {
	Gamma    float64
	MaxValue float64
}

func NewGamma() Gamma {
	return Gamma{Gamma: DefaultGamma, MaxValue: 1.0}
}

func (g Gamma) Name() string { return "gamma" }

func (g Gamma) Apply(src *models.Frame) (*models.Frame, error) {
	dst := models.NewFrame(src.Shape)
	inv := 1 / g.Gamma
	for i, v := range src.Pix {
		dst.Pix[i] = float32(math.Pow(float64(v)/g.MaxValue, inv))
	}
	return dst, nil
}
