package models

import (
	"fmt"
	"math"
	"path/filepath"
	"time"
)

// Shape is the (height, width, channels) triple of a frame.
type Shape struct {
	Height   int
	Width    int
	Channels int
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.Height, s.Width, s.Channels)
}

// Len returns the number of samples a frame of this shape holds.
func (s Shape) Len() int {
	return s.Height * s.Width * s.Channels
}

// Valid reports whether every dimension is positive.
func (s Shape) Valid() bool {
	return s.Height > 0 && s.Width > 0 && s.Channels > 0
}

// Frame is a floating point image buffer with interleaved samples stored row
// by row. Display-ready frames are RGB and hold values in [0, 1].
type Frame struct {
	Shape
	Pix []float32
}

// NewFrame allocates a zeroed frame.
func NewFrame(shape Shape) *Frame {
	return &Frame{
		Shape: shape,
		Pix:   make([]float32, shape.Len()),
	}
}

func (f *Frame) offset(y, x, c int) int {
	return (y*f.Width+x)*f.Channels + c
}

// At returns sample c of pixel (x, y).
func (f *Frame) At(y, x, c int) float32 {
	return f.Pix[f.offset(y, x, c)]
}

// Set stores sample c of pixel (x, y).
func (f *Frame) Set(y, x, c int, v float32) {
	f.Pix[f.offset(y, x, c)] = v
}

// Pixel returns the samples of pixel (x, y) without copying.
func (f *Frame) Pixel(y, x int) []float32 {
	i := f.offset(y, x, 0)
	return f.Pix[i : i+f.Channels]
}

func (f *Frame) Clone() *Frame {
	pix := make([]float32, len(f.Pix))
	copy(pix, f.Pix)
	return &Frame{Shape: f.Shape, Pix: pix}
}

// Clip clamps every sample to [lo, hi] in place. NaN becomes lo.
func (f *Frame) Clip(lo, hi float32) {
	for i, v := range f.Pix {
		switch {
		case math.IsNaN(float64(v)), v < lo:
			f.Pix[i] = lo
		case v > hi:
			f.Pix[i] = hi
		}
	}
}

// Equal reports bit-identical contents and shape.
func (f *Frame) Equal(other *Frame) bool {
	if f == nil || other == nil {
		return f == other
	}
	if f.Shape != other.Shape || len(f.Pix) != len(other.Pix) {
		return false
	}
	for i := range f.Pix {
		if math.Float32bits(f.Pix[i]) != math.Float32bits(other.Pix[i]) {
			return false
		}
	}
	return true
}

// Session is the immutable description of what is being monitored.
type Session struct {
	Path     string
	ToneMap  string
	Interval time.Duration
}

// Name is the base name of the monitored file.
func (s Session) Name() string {
	return filepath.Base(s.Path)
}
