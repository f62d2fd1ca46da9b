package dompdf

import (
	"fmt"
	"log/slog"

	"github.com/go-rod/rod/lib/launcher"
)

// resolveBrowser returns a cached Chromium build, downloading it on first
// use into ~/.cache/rod/browser (Unix) or %APPDATA%\rod\browser (Windows).
func resolveBrowser(logger *slog.Logger) (string, error) {
	b := launcher.NewBrowser()
	if err := b.Validate(); err == nil {
		return b.BinPath(), nil
	}
	logger.Info("downloading browser", "revision", b.Revision, "dir", b.RootDir)
	path, err := b.Get()
	if err != nil {
		return "", fmt.Errorf("dompdf: downloading browser: %w", err)
	}
	return path, nil
}
