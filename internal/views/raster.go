package views

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"image-monitor/internal/models"
)

// MaxPreviewSide bounds the texture handed to the window. Larger frames are
// downscaled for display only.
const MaxPreviewSide = 4096

// FrameToNRGBA quantises a [0, 1] frame to 8 bits per channel. One channel
// frames are shown as grey.
func FrameToNRGBA(frame *models.Frame) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			px := frame.Pixel(y, x)
			c := color.NRGBA{A: 255}
			if len(px) >= 3 {
				c.R, c.G, c.B = to8(px[0]), to8(px[1]), to8(px[2])
			} else {
				c.R = to8(px[0])
				c.G, c.B = c.R, c.R
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func to8(v float32) uint8 {
	switch {
	case math.IsNaN(float64(v)), v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(math.Round(float64(v) * 255))
	}
}

// fitPreview downscales img so neither side exceeds maxSide.
func fitPreview(img *image.NRGBA, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return img
	}

	scale := float64(maxSide) / float64(max(w, h))
	dw := max(1, int(math.Round(float64(w)*scale)))
	dh := max(1, int(math.Round(float64(h)*scale)))

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
