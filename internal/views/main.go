package views

import (
	"errors"
	"image"
	"sync"
	"time"

	"image-monitor/internal/models"
	"image-monitor/internal/pipeline"
	"image-monitor/internal/tonemap"
	"image-monitor/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// MainView is the monitor's display surface: the current frame above a
// status bar.
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	imageDisplay  *components.ImageDisplay
	statusBar     *components.StatusBar
	session       models.Session

	mu      sync.Mutex
	frame   *models.Frame
	skipped int
}

// NewMainView creates the view and installs it as the window content.
func NewMainView(window fyne.Window, session models.Session) *MainView {
	view := &MainView{
		window:  window,
		session: session,
	}

	view.initializeComponents()
	view.buildLayout()

	return view
}

func (mv *MainView) initializeComponents() {
	mv.imageDisplay = components.NewImageDisplay()
	mv.statusBar = components.NewStatusBar()
}

func (mv *MainView) buildLayout() {
	mv.mainContainer = container.NewBorder(
		nil,
		mv.statusBar.GetContainer(),
		nil,
		nil,
		mv.imageDisplay.GetContainer(),
	)

	mv.window.SetTitle("image-monitor - " + mv.session.Name())
	mv.window.SetContent(mv.mainContainer)
}

// Present replaces the displayed frame. Safe to call from any goroutine.
func (mv *MainView) Present(frame *models.Frame) {
	preview := fitPreview(FrameToNRGBA(frame), MaxPreviewSide)
	now := time.Now()

	mv.mu.Lock()
	mv.frame = frame
	mv.mu.Unlock()

	fyne.Do(func() {
		mv.imageDisplay.SetImage(preview)
		mv.statusBar.SetImageInfo(mv.session.Name(), frame.Width, frame.Height, mv.modeLabel())
		mv.statusBar.SetReloaded(now)
	})
}

// ReportSkip counts a skipped reload. The frame on screen is left alone.
func (mv *MainView) ReportSkip(err error) {
	mv.mu.Lock()
	mv.skipped++
	count := mv.skipped
	mv.mu.Unlock()

	reason := "file unreadable"
	if !errors.Is(err, pipeline.ErrNoImageData) {
		reason = err.Error()
	}

	fyne.Do(func() {
		mv.statusBar.SetSkipped(count, reason)
	})
}

// Frame returns the frame last presented.
func (mv *MainView) Frame() *models.Frame {
	mv.mu.Lock()
	defer mv.mu.Unlock()
	return mv.frame
}

// Image returns the image currently on screen.
func (mv *MainView) Image() image.Image {
	return mv.imageDisplay.Image()
}

func (mv *MainView) StatusBar() *components.StatusBar {
	return mv.statusBar
}

func (mv *MainView) modeLabel() string {
	if !pipeline.IsHDRPath(mv.session.Path) {
		return "standard range"
	}
	return tonemap.ParseMode(mv.session.ToneMap).String()
}
