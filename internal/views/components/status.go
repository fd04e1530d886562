package components

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar displays what is monitored and how the last reload went.
type StatusBar struct {
	container   *fyne.Container
	imageInfo   *widget.Label
	reloadInfo  *widget.Label
	skippedInfo *widget.Label
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents() {
	sb.imageInfo = widget.NewLabel("No image loaded")
	sb.reloadInfo = widget.NewLabel("Waiting for first reload")
	sb.skippedInfo = widget.NewLabel("Skipped: 0")
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewHBox(
		sb.imageInfo,
		widget.NewSeparator(),
		sb.reloadInfo,
		widget.NewSeparator(),
		sb.skippedInfo,
	)
}

// SetImageInfo updates the image information display
func (sb *StatusBar) SetImageInfo(name string, width, height int, mode string) {
	sb.imageInfo.SetText(fmt.Sprintf("%s, %dx%d, %s", name, width, height, mode))
}

// SetReloaded records a successful reload at t.
func (sb *StatusBar) SetReloaded(t time.Time) {
	sb.reloadInfo.SetText("Reloaded " + t.Format("15:04:05"))
}

// SetSkipped shows how many reloads were skipped and why the last one failed.
func (sb *StatusBar) SetSkipped(count int, reason string) {
	sb.skippedInfo.SetText(fmt.Sprintf("Skipped: %d", count))
	if reason != "" {
		sb.reloadInfo.SetText("Reload skipped: " + reason)
	}
}

func (sb *StatusBar) ImageInfo() string {
	return sb.imageInfo.Text
}

func (sb *StatusBar) ReloadInfo() string {
	return sb.reloadInfo.Text
}

func (sb *StatusBar) SkippedInfo() string {
	return sb.skippedInfo.Text
}

// GetContainer returns the status bar container
func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}
