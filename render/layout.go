// Package render slices a master raster into page images.
//
// A [Renderer] turns each planned segment into one page canvas: background,
// plugin decorations, then the slice of the master raster placed inside the
// page margins. Pages are produced strictly in order and collected in a
// [Book] as JPEG images.
package render

import (
	"errors"
	"image"
	"math"
)

// Margin holds page margins in page units (points).
type Margin struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Layout maps page units onto master raster pixels.
type Layout struct {
	// PageWidth and PageHeight are the physical page size in points.
	PageWidth  float64
	PageHeight float64
	Margin     Margin

	// Ratio is master pixels per point. The master raster spans the page
	// width minus the left and right margins.
	Ratio float64

	// CanvasWidth and CanvasHeight are the page canvas size in pixels.
	CanvasWidth  int
	CanvasHeight int

	// Capacity is the master raster height that fits on one page.
	Capacity float64
}

// NewLayout computes the layout for a master raster masterWidth pixels wide.
func NewLayout(pageWidth, pageHeight float64, m Margin, masterWidth int) (Layout, error) {
	contentWidth := pageWidth - m.Left - m.Right
	contentHeight := pageHeight - m.Top - m.Bottom
	if contentWidth <= 0 || contentHeight <= 0 {
		return Layout{}, errors.New("render: margins leave no room for content")
	}
	if masterWidth <= 0 {
		return Layout{}, errors.New("render: empty master raster")
	}
	ratio := float64(masterWidth) / contentWidth
	return Layout{
		PageWidth:    pageWidth,
		PageHeight:   pageHeight,
		Margin:       m,
		Ratio:        ratio,
		CanvasWidth:  int(math.Round(ratio * pageWidth)),
		CanvasHeight: int(math.Round(ratio * pageHeight)),
		Capacity:     math.Floor(ratio * contentHeight),
	}, nil
}

// Px converts page units to canvas pixels.
func (l Layout) Px(v float64) float64 { return v * l.Ratio }

// Origin is where the master slice is placed on a page canvas.
func (l Layout) Origin() image.Point {
	return image.Pt(int(math.Floor(l.Px(l.Margin.Left))), int(math.Floor(l.Px(l.Margin.Top))))
}

// FitsOnePage reports whether a master raster masterHeight pixels tall
// fits on a single page.
func (l Layout) FitsOnePage(masterHeight int) bool {
	return l.Margin.Top+float64(masterHeight)/l.Ratio < l.PageHeight-l.Margin.Bottom
}
