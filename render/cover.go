package render

import (
	"context"
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// Fit controls how an image is placed on a cover page.
type Fit string

const (
	// FitFill stretches the image over the whole page.
	FitFill Fit = "fill"
	// FitContain scales the image to fit inside the page, keeping its
	// aspect ratio.
	FitContain Fit = "contain"
	// FitCover scales the image to cover the page, cropping the overflow.
	FitCover Fit = "cover"
	// FitNone centers the image unscaled, cropping the overflow.
	FitNone Fit = "none"
)

// CoverOptions describes a full-page cover or back cover.
type CoverOptions struct {
	// BackgroundColor defaults to "#fff".
	BackgroundColor string
	// Image is a data URL, http(s) URL or file path.
	Image string
	// Fit applies to Image. Defaults to FitFill.
	Fit Fit
	// Text is drawn centered on the page.
	Text string
	// FontSize is in points. Defaults to 32.
	FontSize float64
	// FontWeight defaults to "bold".
	FontWeight string
	// Color is the text color. Defaults to "#000".
	Color string
	// Element is a pre-rendered raster drawn on top of the image.
	Element image.Image
	// ElementFit applies to Element. Defaults to FitNone.
	ElementFit Fit
}

type covers struct {
	front, back *CoverOptions
	logger      *slog.Logger
}

// NewCover returns a plugin adding front before the first content page
// and back after the last. Either may be nil.
func NewCover(front, back *CoverOptions, logger *slog.Logger) Plugin {
	if logger == nil {
		logger = slog.Default()
	}
	return &covers{front: front, back: back, logger: logger}
}

func (c *covers) Name() string { return "cover" }

func (c *covers) BeforeDraw(ctx context.Context, b *Book) error {
	if c.front == nil {
		return nil
	}
	return b.AddImage(c.draw(ctx, b.Layout, c.front))
}

func (c *covers) AfterDraw(ctx context.Context, b *Book) error {
	if c.back == nil {
		return nil
	}
	return b.AddImage(c.draw(ctx, b.Layout, c.back))
}

func (c *covers) draw(ctx context.Context, l Layout, o *CoverOptions) image.Image {
	page := image.NewRGBA(image.Rect(0, 0, l.CanvasWidth, l.CanvasHeight))
	dc := gg.NewContextForRGBA(page)
	dc.SetColor(ParseColor(o.BackgroundColor, color.White))
	dc.Clear()

	if o.Image != "" {
		img, err := LoadImage(ctx, o.Image)
		if err != nil {
			c.logger.Warn("cover image skipped", slog.Any("error", err))
		} else {
			placeFit(page, img, orDefault(o.Fit, FitFill))
		}
	}

	if o.Text != "" {
		size := o.FontSize
		if size <= 0 {
			size = 32
		}
		weight := o.FontWeight
		if weight == "" {
			weight = "bold"
		}
		dc.SetFontFace(fontFace(math.Floor(l.Px(size)), isBold(weight)))
		dc.SetColor(ParseColor(o.Color, color.Black))
		w := float64(l.CanvasWidth)
		dc.DrawStringAnchored(o.Text, w/2, float64(l.CanvasHeight)/2, 0.5, 0.5)
	}

	if o.Element != nil {
		placeFit(page, o.Element, orDefault(o.ElementFit, FitNone))
	}
	return page
}

func orDefault(f, d Fit) Fit {
	if f == "" {
		return d
	}
	return f
}

// placeFit scales img into dst according to fit.
func placeFit(dst draw.Image, img image.Image, fit Fit) {
	sb := img.Bounds()
	if sb.Empty() {
		return
	}
	src, out := fitRects(sb.Size(), dst.Bounds().Size(), fit)
	src = src.Add(sb.Min)
	draw.CatmullRom.Scale(dst, out, img, src, draw.Over, nil)
}

// fitRects returns the source rectangle, relative to the image origin, and
// the destination rectangle for placing an image of size s on a page of
// size d.
func fitRects(s, d image.Point, fit Fit) (src, dst image.Rectangle) {
	sx, sy, sw, sh := 0.0, 0.0, float64(s.X), float64(s.Y)
	dx, dy, dw, dh := 0.0, 0.0, float64(d.X), float64(d.Y)
	imgRatio := sw / sh
	pageRatio := dw / dh

	switch fit {
	case FitContain:
		if imgRatio > pageRatio {
			dh = sh * dw / sw
			dy = math.Floor((float64(d.Y) - dh) / 2)
		} else {
			dw = sw * dh / sh
			dx = math.Floor((float64(d.X) - dw) / 2)
		}
	case FitCover:
		if imgRatio > pageRatio {
			sw = sh * pageRatio
			sx = math.Floor((float64(s.X) - sw) / 2)
		} else {
			sh = sw / pageRatio
			sy = math.Floor((float64(s.Y) - sh) / 2)
		}
	case FitNone:
		if sw < dw {
			dx = math.Floor((dw - sw) / 2)
			dw = sw
		} else {
			sx = math.Floor((sw - dw) / 2)
			sw = dw
		}
		if sh < dh {
			dy = math.Floor((dh - sh) / 2)
			dh = sh
		} else {
			sy = math.Floor((sh - dh) / 2)
			sh = dh
		}
	}
	return rect(sx, sy, sw, sh), rect(dx, dy, dw, dh)
}

func rect(x, y, w, h float64) image.Rectangle {
	return image.Rect(int(x), int(y), int(math.Round(x+w)), int(math.Round(y+h)))
}
