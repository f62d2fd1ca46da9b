package dompdf

import (
	"log/slog"
	"time"
)

// converterConfig holds internal configuration for a Converter.
type converterConfig struct {
	chromePath   string
	timeout      time.Duration
	noSandbox    bool
	autoDownload bool
	headless     string
	windowWidth  int
	windowHeight int
	logger       *slog.Logger
}

func defaultConfig() converterConfig {
	return converterConfig{
		timeout:      30 * time.Second,
		headless:     "new",
		windowWidth:  1280,
		windowHeight: 1024,
		logger:       slog.Default(),
	}
}

// Option configures a [Converter].
type Option func(*converterConfig)

// WithChromePath sets the path to the Chrome or Chromium executable.
// By default the library searches standard locations automatically.
func WithChromePath(path string) Option {
	return func(c *converterConfig) {
		c.chromePath = path
	}
}

// WithTimeout sets the maximum duration for a single export.
// Defaults to 30 seconds. A zero or negative value disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *converterConfig) {
		c.timeout = d
	}
}

// WithNoSandbox disables the Chrome sandbox. This is required when
// running as root, for example inside Docker containers.
func WithNoSandbox() Option {
	return func(c *converterConfig) {
		c.noSandbox = true
	}
}

// WithAutoDownload fetches a Chromium build into the local cache when no
// path is given with [WithChromePath].
func WithAutoDownload() Option {
	return func(c *converterConfig) {
		c.autoDownload = true
	}
}

// WithWindowSize sets the browser window size in CSS pixels. The window
// width drives the layout of elements exported with DisableAdaptive.
func WithWindowSize(width, height int) Option {
	return func(c *converterConfig) {
		if width > 0 && height > 0 {
			c.windowWidth, c.windowHeight = width, height
		}
	}
}

// WithLogger sets the logger for capture and rendering diagnostics.
// Defaults to [slog.Default].
func WithLogger(l *slog.Logger) Option {
	return func(c *converterConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
