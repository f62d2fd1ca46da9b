package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"golang.org/x/image/draw"

	"github.com/porticus-lab/go-dom-pdf/paginate"
)

// DefaultQuality is the JPEG quality used when Renderer.Quality is unset.
const DefaultQuality = 100

// Renderer produces page images from a master raster.
type Renderer struct {
	Layout Layout
	// Background fills every page canvas. Defaults to white.
	Background color.Color
	Plugins    []Plugin
	// Quality is the JPEG quality of page images, 1 to 100.
	Quality int
	Logger  *slog.Logger
}

// Render draws one page per segment. Plugin failures are logged and
// recorded in the book; they never stop rendering.
func (r *Renderer) Render(ctx context.Context, master image.Image, segs []paginate.Segment) (*Book, error) {
	book := &Book{
		Layout:     r.Layout,
		Background: r.Background,
		quality:    r.Quality,
	}
	if book.Background == nil {
		book.Background = color.White
	}
	if book.quality <= 0 || book.quality > 100 {
		book.quality = DefaultQuality
	}

	for _, p := range r.Plugins {
		if h, ok := p.(BeforeDrawer); ok {
			r.isolate(book, p, "BeforeDraw", 0, func() error { return h.BeforeDraw(ctx, book) })
		}
	}

	for i, seg := range segs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dc := book.NewCanvas()
		info := PageInfo{Layout: r.Layout, Index: i + 1, Total: len(segs), Segment: seg}
		for _, p := range r.Plugins {
			if h, ok := p.(Drawer); ok {
				r.isolate(book, p, "Draw", info.Index, func() error { return h.Draw(ctx, dc, info) })
			}
		}

		page, ok := dc.Image().(draw.Image)
		if !ok {
			return nil, fmt.Errorf("render: page %d: canvas is not drawable", info.Index)
		}
		blit(page, master, seg, r.Layout.Origin())
		if err := book.AddImage(page); err != nil {
			return nil, err
		}
	}

	for _, p := range r.Plugins {
		if h, ok := p.(AfterDrawer); ok {
			r.isolate(book, p, "AfterDraw", 0, func() error { return h.AfterDraw(ctx, book) })
		}
	}
	return book, nil
}

// isolate runs one plugin hook, turning errors and panics into recorded
// decoration failures.
func (r *Renderer) isolate(book *Book, p Plugin, hook string, page int, fn func() error) {
	fail := func(err error) {
		de := &DecorationError{Plugin: p.Name(), Hook: hook, Page: page, Err: err}
		book.failures = append(book.failures, de)
		r.logger().Error("plugin failed",
			slog.String("plugin", de.Plugin),
			slog.String("hook", hook),
			slog.Int("page", page),
			slog.Any("error", err))
	}
	defer func() {
		if v := recover(); v != nil {
			fail(fmt.Errorf("panic: %v", v))
		}
	}()
	if err := fn(); err != nil {
		fail(err)
	}
}

func (r *Renderer) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// blit copies the rows [seg.Start, seg.End) of master onto page at origin.
func blit(page draw.Image, master image.Image, seg paginate.Segment, origin image.Point) {
	b := master.Bounds()
	src := image.Rect(b.Min.X, b.Min.Y+int(math.Floor(seg.Start)), b.Max.X, b.Min.Y+int(math.Floor(seg.End))).Intersect(b)
	if src.Empty() {
		return
	}
	dst := image.Rectangle{Min: origin, Max: origin.Add(src.Size())}
	draw.Draw(page, dst, master, src.Min, draw.Over)
}
