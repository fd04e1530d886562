package conversion

import (
	"fmt"

	"image-monitor/internal/models"
	"image-monitor/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// MatToFrame converts a decoded Mat in OpenCV's native layout (BGR, BGRA or
// grey, any supported depth) into a three channel RGB float frame. Sample
// values are kept as they are, without rescaling.
func MatToFrame(src *safe.Mat) (*models.Frame, error) {
	if err := safe.ValidateMatForOperation(src, "Mat to frame conversion"); err != nil {
		return nil, err
	}
	if err := safe.ValidateMatType(src.Type(), "Mat to frame conversion"); err != nil {
		return nil, err
	}

	srcMat := src.GetMat()

	floatMat := gocv.NewMat()
	defer floatMat.Close()
	srcMat.ConvertTo(&floatMat, gocv.MatTypeCV32F)

	rgb := gocv.NewMat()
	defer rgb.Close()

	switch src.Channels() {
	case 1:
		gocv.CvtColor(floatMat, &rgb, gocv.ColorGrayToRGB)
	case 3:
		gocv.CvtColor(floatMat, &rgb, gocv.ColorBGRToRGB)
	case 4:
		bgr := gocv.NewMat()
		defer bgr.Close()
		gocv.CvtColor(floatMat, &bgr, gocv.ColorBGRAToBGR)
		gocv.CvtColor(bgr, &rgb, gocv.ColorBGRToRGB)
	default:
		return nil, fmt.Errorf("unsupported channel count: %d", src.Channels())
	}

	data, err := rgb.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("reading converted samples: %w", err)
	}

	frame := models.NewFrame(models.Shape{
		Height:   rgb.Rows(),
		Width:    rgb.Cols(),
		Channels: rgb.Channels(),
	})
	if len(data) != len(frame.Pix) {
		return nil, fmt.Errorf("converted Mat holds %d samples, expected %d", len(data), len(frame.Pix))
	}
	// data aliases Mat memory that is released on return.
	copy(frame.Pix, data)

	return frame, nil
}
