package dompdf

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/porticus-lab/go-dom-pdf/document"
	"github.com/porticus-lab/go-dom-pdf/geometry"
	"github.com/porticus-lab/go-dom-pdf/paginate"
	"github.com/porticus-lab/go-dom-pdf/render"
)

// Capture is a rasterized root element together with its geometry
// snapshot. Master is Scale times the CSS size of Root.
type Capture struct {
	Master image.Image
	Root   *geometry.Element

	// CoverElement and BackcoverElement hold captures of
	// [ExportOptions.CoverSelector] and [ExportOptions.BackcoverSelector].
	CoverElement     image.Image
	BackcoverElement image.Image
}

// Paginate turns a capture into a PDF without a browser. It plans the page
// breaks over the geometry of c.Root, slices c.Master into pages, draws
// the header, footer, cover and plugin decorations and assembles the
// document.
func Paginate(ctx context.Context, c Capture, opts *ExportOptions, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if c.Master == nil || c.Root == nil {
		return nil, fmt.Errorf("%w: capture has no image or geometry", ErrInvalidInput)
	}
	o := opts.resolved(now())
	size := c.Master.Bounds().Size()
	if size.X <= 0 || size.Y <= 0 {
		return nil, ErrEmptyResult
	}

	width, height := o.paperDimensions()
	layout, err := render.NewLayout(width, height, o.margin(), size.X)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	plan := paginate.Plan{Cuts: []float64{0}, Capacity: layout.Capacity, Height: float64(size.Y)}
	if !layout.FitsOnePage(size.Y) {
		planner := paginate.Planner{
			Capacity:         layout.Capacity,
			MonoblockClasses: o.MonoblockClasses,
			PageBreakClasses: o.PageBreakClasses,
			Filter:           o.Filter,
		}
		plan = planner.Plan(geometry.Root(c.Root, o.Scale))
		plan.Height = float64(size.Y)
	}
	logger.Debug("planned pages",
		"pages", plan.Pages(),
		"capacity", layout.Capacity,
		"height", size.Y,
		"nodes", c.Root.Count())

	r := render.Renderer{
		Layout:     layout,
		Background: render.ParseColor(o.BackgroundColor, color.White),
		Plugins:    o.plugins(c, logger),
		Quality:    o.JPEGQuality,
		Logger:     logger,
	}
	book, err := r.Render(ctx, c.Master, plan.Segments())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	if n := len(book.Failures()); n > 0 {
		logger.Warn("decorations failed", "count", n)
	}

	doc := document.New(width, height)
	for _, p := range book.Pages() {
		doc.AddPage(p)
	}
	data, err := doc.Bytes()
	if errors.Is(err, document.ErrNoPages) {
		return nil, ErrEmptyResult
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return &Result{data: data, pages: book.Pages(), name: o.Name, plan: plan}, nil
}

// plugins returns the built-in decorations followed by the caller's.
func (o *ExportOptions) plugins(c Capture, logger *slog.Logger) []render.Plugin {
	var ps []render.Plugin
	if o.Header != nil {
		ps = append(ps, render.NewHeader(*o.Header, logger))
	}
	if o.Footer != nil {
		ps = append(ps, render.NewFooter(*o.Footer, logger))
	}
	front := withElement(o.Cover, c.CoverElement)
	back := withElement(o.Backcover, c.BackcoverElement)
	if front != nil || back != nil {
		ps = append(ps, render.NewCover(front, back, logger))
	}
	return append(ps, o.Plugins...)
}

// withElement returns a copy of opts showing el, creating a blank cover
// when only an element was captured.
func withElement(opts *render.CoverOptions, el image.Image) *render.CoverOptions {
	if el == nil {
		return opts
	}
	var out render.CoverOptions
	if opts != nil {
		out = *opts
	}
	out.Element = el
	return &out
}
