package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"github.com/fogleman/gg"
)

// Book collects the encoded page images of one export in page order.
type Book struct {
	Layout     Layout
	Background color.Color

	quality  int
	pages    [][]byte
	failures []error
}

// NewCanvas returns a blank page canvas filled with the background color.
func (b *Book) NewCanvas() *gg.Context {
	dc := gg.NewContextForRGBA(image.NewRGBA(image.Rect(0, 0, b.Layout.CanvasWidth, b.Layout.CanvasHeight)))
	dc.SetColor(b.Background)
	dc.Clear()
	return dc
}

// AddImage encodes img and appends it as the next page.
func (b *Book) AddImage(img image.Image) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: b.quality}); err != nil {
		return fmt.Errorf("render: encoding page %d: %w", len(b.pages)+1, err)
	}
	b.pages = append(b.pages, buf.Bytes())
	return nil
}

// Pages returns the JPEG data of every page added so far.
func (b *Book) Pages() [][]byte { return b.pages }

// Len returns the number of pages.
func (b *Book) Len() int { return len(b.pages) }

// Failures returns the plugin failures recorded while rendering.
func (b *Book) Failures() []error { return b.failures }
