package tonemap

import (
	"errors"
	"fmt"
	"math"

	"image-monitor/internal/models"

	"gocv.io/x/gocv"
)

// Durand is the fast bilateral filtering operator. The log luminance is split
// into a base layer (bilateral filtered) and a detail layer; only the base is
// compressed to Contrast log units.
type Durand struct {
	Gamma      float64
	Contrast   float64
	Saturation float64
	SigmaSpace float64
	SigmaColor float64
}

func NewDurand() Durand {
	return Durand{
		Gamma:      1.0,
		Contrast:   4.0,
		Saturation: 1.0,
		SigmaSpace: 2.0,
		SigmaColor: 2.0,
	}
}

func (d Durand) Name() string { return "durand" }

func (d Durand) Apply(src *models.Frame) (*models.Frame, error) {
	gray := grayPlane(src)
	logGray := logPlane(gray)

	base, lo, hi, err := baseLayer(logGray, src.Width, src.Height, d.SigmaColor, d.SigmaSpace)
	if err != nil {
		return nil, fmt.Errorf("durand: %w", err)
	}
	scale := 1.0
	if hi > lo {
		scale = d.Contrast / (hi - lo)
	}

	dst := models.NewFrame(src.Shape)
	for p := range gray {
		newLum := math.Exp(base[p]*(scale-1) + logGray[p])
		for c := 0; c < src.Channels; c++ {
			i := p*src.Channels + c
			ratio := safeDiv(float64(src.Pix[i]), gray[p])
			dst.Pix[i] = float32(math.Pow(ratio, d.Saturation) * newLum)
		}
	}

	applyGamma(dst, d.Gamma)
	return dst, nil
}

// baseLayer smooths a single channel plane with OpenCV's bilateral filter and
// returns it with its range. Diameter -1 derives the window from sigmaSpace.
func baseLayer(plane []float64, width, height int, sigmaColor, sigmaSpace float64) (base []float64, lo, hi float64, err error) {
	src := gocv.NewMatWithSize(height, width, gocv.MatTypeCV32FC1)
	defer src.Close()

	data, err := src.DataPtrFloat32()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("log luminance plane: %w", err)
	}
	for i, v := range plane {
		data[i] = float32(v)
	}

	filtered := gocv.NewMat()
	defer filtered.Close()

	gocv.BilateralFilter(src, &filtered, -1, sigmaColor, sigmaSpace)
	if filtered.Empty() {
		return nil, 0, 0, errors.New("bilateral filter produced no output")
	}

	out, err := filtered.DataPtrFloat32()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("base layer: %w", err)
	}
	base = make([]float64, len(out))
	for i, v := range out {
		base[i] = float64(v)
	}

	minVal, maxVal, _, _ := gocv.MinMaxLoc(filtered)
	return base, float64(minVal), float64(maxVal), nil
}
