package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"image-monitor/internal/logger"
	"image-monitor/internal/models"
)

const (
	DefaultToneMap  = "reinhard"
	DefaultInterval = time.Second
)

var ErrMissingInput = errors.New("--input is required")

// Config holds all runtime configuration.
type Config struct {
	Input    string
	ToneMap  string
	Interval time.Duration
	LogLevel zerolog.Level
}

// Parse reads command line flags and the LOG_LEVEL/DEBUG environment.
// Usage and errors are written to output. flag.ErrHelp is returned as is.
func Parse(args []string, getenv func(string) string, output io.Writer) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("image-monitor", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.Input, "input", "", "image to monitor (.jpg, .png, .hdr)")
	fs.StringVar(&cfg.Input, "i", "", "shorthand for --input")
	fs.StringVar(&cfg.ToneMap, "tonemap", DefaultToneMap, "tone mapper for HDR images: reinhard, durand, anything else for gamma 2.2")
	fs.StringVar(&cfg.ToneMap, "t", DefaultToneMap, "shorthand for --tonemap")
	fs.DurationVar(&cfg.Interval, "interval", DefaultInterval, "reload interval")
	fs.Usage = func() {
		fmt.Fprintln(output, "Usage: image-monitor --input <path> [--tonemap <reinhard|durand|other>] [--interval 1s]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.Input == "" {
		fs.Usage()
		return nil, ErrMissingInput
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("--interval must be positive, got %s", cfg.Interval)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg.LogLevel = determineLogLevel(getenv)
	return cfg, nil
}

// Session returns the immutable monitoring session described by cfg.
func (c *Config) Session() models.Session {
	return models.Session{
		Path:     c.Input,
		ToneMap:  c.ToneMap,
		Interval: c.Interval,
	}
}

func determineLogLevel(getenv func(string) string) zerolog.Level {
	if level := getenv("LOG_LEVEL"); level != "" {
		return logger.ParseLevel(level)
	}
	if getenv("DEBUG") == "1" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
