package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"image-monitor/internal/config"
	"image-monitor/internal/logger"
	"image-monitor/internal/models"
	"image-monitor/internal/monitor"
	"image-monitor/internal/opencv/memory"
	"image-monitor/internal/pipeline"
	"image-monitor/internal/shutdown"
	"image-monitor/internal/tonemap"
	"image-monitor/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppName    = "image-monitor"
	AppID      = "com.imagemonitor.viewer"
	AppVersion = "1.0.0"
)

const (
	exitOK      = 0
	exitStartup = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Getenv, os.Stderr))
}

func run(args []string, getenv func(string) string, stderr io.Writer) int {
	cfg, err := config.Parse(args, getenv, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", AppName, err)
		return exitUsage
	}

	appLogger := logger.NewConsoleLogger(cfg.LogLevel)
	session := cfg.Session()

	tracker := memory.NewTracker(appLogger)
	renderer := pipeline.NewRenderer(
		pipeline.NewLoader(appLogger, tracker),
		tonemap.ParseMode(session.ToneMap),
		appLogger,
	)

	// The first decode happens before any window exists.
	mon, err := monitor.New(context.Background(), session, renderer, appLogger)
	if err != nil {
		appLogger.Error("Main", err, map[string]interface{}{"path": session.Path})
		fmt.Fprintf(stderr, "%s: %v\n", AppName, err)
		return exitStartup
	}

	appLogger.Info("Main", "application starting", map[string]interface{}{
		"version":    AppVersion,
		"go_version": runtime.Version(),
		"log_level":  cfg.LogLevel.String(),
	})

	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})
	fyneApp := app.NewWithID(AppID)

	window := fyneApp.NewWindow(AppName)
	view := views.NewMainView(window, session)
	window.Resize(windowSize(mon.Shape()))
	window.CenterOnScreen()
	mon.Attach(view)

	shutdownMgr := shutdown.NewManager(appLogger)
	shutdownMgr.Register(shutdown.Func(func() {
		fyne.Do(fyneApp.Quit)
	}))
	shutdownMgr.Listen()
	window.SetOnClosed(shutdownMgr.Shutdown)

	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		if err := mon.Run(shutdownMgr.Context()); err != nil {
			appLogger.Error("Main", err, nil)
		}
	}()

	window.ShowAndRun()

	shutdownMgr.Shutdown()
	<-monitorDone
	logStats(appLogger, mon, renderer, tracker)

	return exitOK
}

func logStats(log logger.Logger, mon *monitor.Monitor, renderer *pipeline.Renderer, tracker *memory.Tracker) {
	snap := renderer.Metrics().Snapshot()
	mem := tracker.Stats()

	log.Debug("Main", "session statistics", map[string]interface{}{
		"ticks":           mon.Ticks(),
		"skipped":         mon.Skipped(),
		"renders":         snap.Renders,
		"failures":        snap.Failures,
		"avg_render_ms":   snap.AverageDuration.Milliseconds(),
		"opencv_active":   mem.ActiveMats,
		"opencv_peak":     mem.PeakActiveMats,
		"opencv_released": mem.TotalReleased,
	})

	logLeaks(log, tracker)
}

// logLeaks reports OpenCV Mats that were never closed.
func logLeaks(log logger.Logger, tracker *memory.Tracker) {
	for _, leak := range tracker.Leaks() {
		log.Warning("Main", "OpenCV Mat not released", map[string]interface{}{
			"tag":   leak.Tag,
			"bytes": leak.Size,
			"age":   time.Since(leak.CreatedAt).String(),
		})
	}
}

// windowSize fits the frame into a sensible window, leaving room for the
// status bar.
func windowSize(shape models.Shape) fyne.Size {
	const (
		minWidth, minHeight = 320, 240
		maxWidth, maxHeight = 1600, 1000
		statusHeight        = 40
	)

	width := float32(shape.Width)
	height := float32(shape.Height)
	if width > maxWidth || height > maxHeight {
		scale := min(maxWidth/width, maxHeight/height)
		width *= scale
		height *= scale
	}

	return fyne.NewSize(max(width, minWidth), max(height, minHeight)+statusHeight)
}
