package render

import (
	"context"
	"image"
	"image/color"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
)

// Align is the horizontal placement of a header or footer.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// HeaderFooterOptions configures a header or footer line.
type HeaderFooterOptions struct {
	// Text is drawn when set. "{page}" and "{total}" are replaced by the
	// page number and the number of content pages.
	Text string
	// Image is a data URL, http(s) URL or file path, drawn when Text is
	// empty.
	Image       string
	ImageWidth  float64
	ImageHeight float64
	// FontSize is in points. Defaults to 8.
	FontSize float64
	// Align defaults to left for headers and right for footers.
	Align Align
	// Color is a CSS hex color. Defaults to "#999".
	Color string
}

type edge int

const (
	edgeTop edge = iota
	edgeBottom
)

// headerFooter draws one line of text or one image in the top or bottom
// page margin.
type headerFooter struct {
	edge   edge
	opts   HeaderFooterOptions
	logger *slog.Logger

	img    image.Image
	loaded bool
}

// NewHeader returns a plugin drawing opts in the top margin of every page.
func NewHeader(opts HeaderFooterOptions, logger *slog.Logger) Plugin {
	return newHeaderFooter(edgeTop, opts, logger)
}

// NewFooter returns a plugin drawing opts in the bottom margin of every page.
func NewFooter(opts HeaderFooterOptions, logger *slog.Logger) Plugin {
	return newHeaderFooter(edgeBottom, opts, logger)
}

func newHeaderFooter(e edge, opts HeaderFooterOptions, logger *slog.Logger) *headerFooter {
	if opts.FontSize <= 0 {
		opts.FontSize = 8
	}
	if opts.Align == "" {
		opts.Align = AlignLeft
		if e == edgeBottom {
			opts.Align = AlignRight
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &headerFooter{edge: e, opts: opts, logger: logger}
}

func (h *headerFooter) Name() string {
	if h.edge == edgeTop {
		return "header"
	}
	return "footer"
}

func (h *headerFooter) Draw(ctx context.Context, dc *gg.Context, p PageInfo) error {
	switch {
	case h.opts.Text != "":
		h.drawText(dc, p)
	case h.opts.Image != "":
		if img := h.image(ctx); img != nil {
			h.drawImage(dc, p, img)
		}
	}
	return nil
}

// label expands the page placeholders of the configured text.
func (h *headerFooter) label(p PageInfo) string {
	return strings.NewReplacer(
		"{page}", strconv.Itoa(p.Index),
		"{total}", strconv.Itoa(p.Total),
	).Replace(h.opts.Text)
}

func (h *headerFooter) drawText(dc *gg.Context, p PageInfo) {
	text := h.label(p)
	dc.SetFontFace(fontFace(p.Px(h.opts.FontSize), false))
	dc.SetColor(ParseColor(h.opts.Color, color.Gray{Y: 0x99}))
	x, ax := h.anchorX(p)
	dc.DrawStringAnchored(text, x, h.y(p), ax, 1)
}

func (h *headerFooter) drawImage(dc *gg.Context, p PageInfo, img image.Image) {
	b := img.Bounds()
	w, ht := h.opts.ImageWidth, h.opts.ImageHeight
	switch {
	case w <= 0 && ht <= 0:
		ht = h.opts.FontSize
		w = ht * float64(b.Dx()) / float64(b.Dy())
	case w <= 0:
		w = ht * float64(b.Dx()) / float64(b.Dy())
	case ht <= 0:
		ht = w * float64(b.Dy()) / float64(b.Dx())
	}
	w, ht = p.Px(w), p.Px(ht)

	x, ax := h.anchorX(p)
	x -= ax * w
	dc.Push()
	dc.Translate(x, h.y(p))
	dc.Scale(w/float64(b.Dx()), ht/float64(b.Dy()))
	dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	dc.Pop()
}

// anchorX returns the x position and the horizontal anchor for the
// configured alignment.
func (h *headerFooter) anchorX(p PageInfo) (float64, float64) {
	switch h.opts.Align {
	case AlignCenter:
		return float64(p.CanvasWidth) / 2, 0.5
	case AlignRight:
		return float64(p.CanvasWidth) - p.Px(p.Margin.Right), 1
	default:
		return p.Px(p.Margin.Left), 0
	}
}

// y is the top of the line: 4pt below the page top for headers, 12pt
// above the page bottom for footers.
func (h *headerFooter) y(p PageInfo) float64 {
	if h.edge == edgeTop {
		return p.Px(4)
	}
	return p.Px(p.PageHeight - 12)
}

// image loads the configured image once. A failed load is logged and the
// image is left out of every page.
func (h *headerFooter) image(ctx context.Context) image.Image {
	if !h.loaded {
		h.loaded = true
		img, err := LoadImage(ctx, h.opts.Image)
		if err != nil {
			h.logger.Warn("image skipped", slog.String("plugin", h.Name()), slog.Any("error", err))
		}
		h.img = img
	}
	return h.img
}
