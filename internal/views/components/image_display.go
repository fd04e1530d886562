package components

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

const (
	ImageAreaWidth  = 320
	ImageAreaHeight = 240
)

// ImageDisplay shows a single image scaled to fit its area.
type ImageDisplay struct {
	container *fyne.Container
	image     *canvas.Image
}

// NewImageDisplay creates a new image display component
func NewImageDisplay() *ImageDisplay {
	display := &ImageDisplay{}
	display.createComponents()
	display.setupLayout()
	return display
}

func (id *ImageDisplay) createComponents() {
	placeholder := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	placeholder.SetNRGBA(0, 0, color.NRGBA{A: 255})

	id.image = canvas.NewImageFromImage(placeholder)
	id.image.FillMode = canvas.ImageFillContain
	id.image.ScaleMode = canvas.ImageScaleSmooth
	id.image.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))
}

func (id *ImageDisplay) setupLayout() {
	background := canvas.NewRectangle(color.NRGBA{R: 16, G: 16, B: 16, A: 255})
	id.container = container.NewStack(background, id.image)
}

// SetImage swaps the displayed image and repaints. Call on the fyne thread.
func (id *ImageDisplay) SetImage(img image.Image) {
	id.image.Image = img
	id.image.Refresh()
}

// Image returns the image currently on screen.
func (id *ImageDisplay) Image() image.Image {
	return id.image.Image
}

// GetContainer returns the main container
func (id *ImageDisplay) GetContainer() *fyne.Container {
	return id.container
}
