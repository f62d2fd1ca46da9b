package dompdf

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/porticus-lab/go-dom-pdf/paginate"
	"github.com/porticus-lab/go-dom-pdf/render"
)

// PageSize represents paper dimensions in centimeters.
type PageSize struct {
	Width  float64 // Width in centimeters.
	Height float64 // Height in centimeters.
}

// Standard paper sizes.
var (
	A3      = PageSize{Width: 29.7, Height: 42.0}
	A4      = PageSize{Width: 21.0, Height: 29.7}
	A5      = PageSize{Width: 14.8, Height: 21.0}
	Letter  = PageSize{Width: 21.59, Height: 27.94}
	Legal   = PageSize{Width: 21.59, Height: 35.56}
	Tabloid = PageSize{Width: 27.94, Height: 43.18}
)

// Orientation represents the page orientation.
type Orientation int

const (
	// Portrait is the default vertical orientation.
	Portrait Orientation = iota
	// Landscape rotates the page to horizontal orientation.
	Landscape
)

// Margin represents page margins in points.
type Margin = render.Margin

// Default values used by [ExportOptions].
const (
	DefaultMargin         = 10
	DefaultScale          = 2
	DefaultAdaptiveWidth  = 800
	DefaultResetViewDelay = time.Second
	DefaultMonoblockClass = "html-pdf-monoblock"
	DefaultPageBreakClass = "html-pdf-page-break"

	// headerFooterMargin replaces the top margin when a header is set and
	// the bottom margin when a footer is set.
	headerFooterMargin = 16
)

var defaultResetStyleTags = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

// ExportOptions controls how a rendered element becomes a paged PDF.
//
// A nil ExportOptions or zero-value fields use the defaults: the whole
// body, A4 portrait, 10pt margins, scale 2, adaptive 800px layout.
type ExportOptions struct {
	// Name is the file name used by [Result.Save]. ".pdf" is appended when
	// missing; an empty name becomes a millisecond timestamp.
	Name string

	// Selector picks the root element to export. Defaults to "body".
	Selector string

	// Size specifies the paper size. Defaults to A4.
	Size PageSize

	// Orientation specifies portrait or landscape. Defaults to Portrait.
	Orientation Orientation

	// Margin lists the top, right, bottom and left margins in points,
	// CSS shorthand style. See [ResolveMargin].
	Margin []float64

	// Scale is the device pixel ratio of the capture. Defaults to 2.
	Scale float64

	// MonoblockClasses mark elements kept whole across page breaks.
	// Defaults to "html-pdf-monoblock".
	MonoblockClasses []string

	// PageBreakClasses mark elements that start and end a page.
	// Defaults to "html-pdf-page-break".
	PageBreakClasses []string

	// ResetStyleTags have their computed margins inlined before capture,
	// in addition to h1 through h6.
	ResetStyleTags []string

	// SkipTags are left out when an element is split into its children,
	// e.g. "colgroup". Ignored when Filter is set.
	SkipTags []string

	// Filter replaces the children of an element being split.
	Filter paginate.Filter

	// Header and Footer add a line of text or an image to every page.
	Header *render.HeaderFooterOptions
	Footer *render.HeaderFooterOptions

	// Cover and Backcover add full pages before and after the content.
	Cover     *render.CoverOptions
	Backcover *render.CoverOptions

	// CoverSelector and BackcoverSelector capture an element of the page
	// as the Element of the cover or back cover.
	CoverSelector     string
	BackcoverSelector string

	// BackgroundColor of every page. Defaults to "#fff".
	BackgroundColor string

	// DisableAdaptive captures the element in place instead of a clone
	// laid out at AdaptiveWidth.
	DisableAdaptive bool

	// AdaptiveWidth is the CSS width of the adaptive clone. Defaults to 800.
	AdaptiveWidth float64

	// ParentSelector picks where the adaptive clone is mounted. Defaults
	// to "body".
	ParentSelector string

	// ResetViewScript is run with the clone bound to el, so content such
	// as charts can be drawn again. ResetViewDelay is waited afterwards.
	ResetViewScript string
	ResetViewDelay  time.Duration

	// Plugins run after the built-in header, footer and cover plugins.
	Plugins []render.Plugin

	// JPEGQuality of the page images, 1 to 100. Defaults to 100.
	JPEGQuality int
}

// resolved returns a copy of o with all zero values replaced by defaults.
func (o *ExportOptions) resolved(at time.Time) ExportOptions {
	var r ExportOptions
	if o != nil {
		r = *o
	}
	r.Name = fileName(r.Name, at)
	if r.Selector == "" {
		r.Selector = "body"
	}
	if r.Size == (PageSize{}) {
		r.Size = A4
	}
	if !(r.Scale > 0) || math.IsInf(r.Scale, 0) {
		r.Scale = DefaultScale
	}
	if len(r.MonoblockClasses) == 0 {
		r.MonoblockClasses = []string{DefaultMonoblockClass}
	}
	if len(r.PageBreakClasses) == 0 {
		r.PageBreakClasses = []string{DefaultPageBreakClass}
	}
	r.ResetStyleTags = union(defaultResetStyleTags, r.ResetStyleTags)
	if r.Filter == nil && len(r.SkipTags) > 0 {
		r.Filter = paginate.SkipTags(r.SkipTags...)
	}
	if r.AdaptiveWidth <= 0 {
		r.AdaptiveWidth = DefaultAdaptiveWidth
	}
	if r.ParentSelector == "" {
		r.ParentSelector = "body"
	}
	if r.ResetViewScript != "" && r.ResetViewDelay <= 0 {
		r.ResetViewDelay = DefaultResetViewDelay
	}
	if r.BackgroundColor == "" {
		r.BackgroundColor = "#fff"
	}
	return r
}

// now is the clock behind default file names.
var now = time.Now

// fileName appends ".pdf" to name, or names the file after the time at.
func fileName(name string, at time.Time) string {
	if name == "" {
		name = strconv.FormatInt(at.UnixMilli(), 10)
	}
	if !strings.HasSuffix(name, ".pdf") {
		name += ".pdf"
	}
	return name
}

func union(base, extra []string) []string {
	out := append([]string(nil), base...)
	seen := make(map[string]bool, len(base)+len(extra))
	for _, s := range base {
		seen[s] = true
	}
	for _, s := range extra {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// margin returns the resolved page margins, with the header and footer
// bands applied.
func (o *ExportOptions) margin() Margin {
	m := ResolveMargin(o.Margin...)
	if o.Header != nil {
		m.Top = headerFooterMargin
	}
	if o.Footer != nil {
		m.Bottom = headerFooterMargin
	}
	return m
}

// ResolveMargin expands CSS-style margin values into a [Margin].
//
// No values give 10 on every side, one value applies to every side.
// Otherwise values are top, right, bottom, left: top falls back to 10 and
// must be positive; right falls back to 10; bottom falls back to top; left
// must be positive and falls back to right. Negative and non-finite values
// count as missing.
func ResolveMargin(values ...float64) Margin {
	m := UniformMargin(DefaultMargin)
	if len(values) == 0 {
		return m
	}
	if len(values) == 1 && legal(values[0]) {
		values = []float64{values[0], values[0], values[0], values[0]}
	}
	at := func(i int) (float64, bool) {
		if i < len(values) && legal(values[i]) {
			return values[i], true
		}
		return 0, false
	}
	if v, ok := at(0); ok && v > 0 {
		m.Top = v
	}
	if v, ok := at(1); ok {
		m.Right = v
	}
	m.Bottom = m.Top
	if v, ok := at(2); ok {
		m.Bottom = v
	}
	m.Left = m.Right
	if v, ok := at(3); ok && v > 0 {
		m.Left = v
	}
	return m
}

func legal(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

// UniformMargin returns a Margin with the same value on all sides.
func UniformMargin(pt float64) Margin {
	return Margin{Top: pt, Right: pt, Bottom: pt, Left: pt}
}

// cmToPoints converts centimeters to PDF points.
func cmToPoints(cm float64) float64 {
	return cm / 2.54 * 72
}

// Points returns the paper width and height in points, accounting for
// orientation.
func (s PageSize) Points(o Orientation) (width, height float64) {
	w := cmToPoints(s.Width)
	h := cmToPoints(s.Height)
	if o == Landscape {
		return h, w
	}
	return w, h
}

func (o *ExportOptions) paperDimensions() (width, height float64) {
	return o.Size.Points(o.Orientation)
}
