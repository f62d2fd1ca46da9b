package dompdf

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/chromedp/chromedp"
)

// Converter exports elements of web pages to paged PDF documents.
//
// A Converter manages a headless browser instance that is reused across
// multiple exports for performance. It is safe for concurrent use; each
// export runs in its own tab.
//
// Call [Converter.Close] when the Converter is no longer needed to release
// browser resources.
type Converter struct {
	cfg           converterConfig
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewConverter creates a Converter with the given options.
//
// It starts a headless browser in the background. The caller must call
// [Converter.Close] when finished.
func NewConverter(opts ...Option) (*Converter, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.chromePath == "" && cfg.autoDownload {
		path, err := resolveBrowser(cfg.logger)
		if err != nil {
			return nil, err
		}
		cfg.chromePath = path
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("headless", cfg.headless),
		chromedp.WindowSize(cfg.windowWidth, cfg.windowHeight),
	)
	if cfg.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(cfg.chromePath))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("dompdf: starting browser: %w", err)
	}
	cfg.logger.Debug("browser started", "path", cfg.chromePath, "headless", cfg.headless)

	return &Converter{
		cfg:           cfg,
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Close releases all resources held by the Converter, including the
// browser process. Close is idempotent.
func (c *Converter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.browserCancel()
	c.allocCancel()
	return nil
}

// ExportHTML loads an HTML string and exports the element picked by
// opts.Selector. If opts is nil, the whole body is exported with defaults.
func (c *Converter) ExportHTML(ctx context.Context, html string, opts *ExportOptions) (*Result, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp("", "dompdf-*.html")
	if err != nil {
		return nil, fmt.Errorf("dompdf: creating temp file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.WriteString(html); err != nil {
		f.Close()
		return nil, fmt.Errorf("dompdf: writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("dompdf: closing temp file: %w", err)
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, fmt.Errorf("dompdf: resolving path: %w", err)
	}
	return c.export(ctx, "file://"+abs, opts)
}

// ExportURL exports an element of the web page at rawURL.
func (c *Converter) ExportURL(ctx context.Context, rawURL string, opts *ExportOptions) (*Result, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("%w: URL %q: %w", ErrInvalidInput, rawURL, err)
	}
	return c.export(ctx, rawURL, opts)
}

// ExportFile exports an element of a local HTML file.
func (c *Converter) ExportFile(ctx context.Context, path string, opts *ExportOptions) (*Result, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("dompdf: resolving path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return c.export(ctx, "file://"+abs, opts)
}

// export loads targetURL in a fresh tab, captures the root element and
// paginates it.
func (c *Converter) export(ctx context.Context, targetURL string, opts *ExportOptions) (*Result, error) {
	o := opts.resolved(now())
	logger := c.cfg.logger.With("url", targetURL)

	if c.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	tabCtx, tabCancel := chromedp.NewContext(c.browserCtx)
	defer tabCancel()
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("%w: loading page: %w", ErrRender, err)
	}

	cp, err := capture(tabCtx, o, logger)
	if err != nil {
		return nil, err
	}
	res, err := Paginate(ctx, cp, &o, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("exported", "name", res.Name(), "pages", res.PageCount(), "bytes", res.Len())
	return res, nil
}

func (c *Converter) checkClosed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

// --- Package-level convenience functions ---

// ExportHTML exports an HTML string using a temporary [Converter].
// This is convenient for one-off exports. For repeated use, create a
// [Converter] with [NewConverter] to reuse the browser instance.
func ExportHTML(ctx context.Context, html string, opts *ExportOptions, convOpts ...Option) (*Result, error) {
	conv, err := NewConverter(convOpts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()
	return conv.ExportHTML(ctx, html, opts)
}

// ExportURL exports an element of a web page using a temporary [Converter].
func ExportURL(ctx context.Context, rawURL string, opts *ExportOptions, convOpts ...Option) (*Result, error) {
	conv, err := NewConverter(convOpts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()
	return conv.ExportURL(ctx, rawURL, opts)
}

// ExportFile exports an element of a local HTML file using a temporary [Converter].
func ExportFile(ctx context.Context, path string, opts *ExportOptions, convOpts ...Option) (*Result, error) {
	conv, err := NewConverter(convOpts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()
	return conv.ExportFile(ctx, path, opts)
}
