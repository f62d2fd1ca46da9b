package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	dompdf "github.com/porticus-lab/go-dom-pdf"
	"github.com/porticus-lab/go-dom-pdf/render"
)

// config is the TOML config file read with -c. Command-line options
// override it.
type config struct {
	Name            string    `toml:"name"`
	Selector        string    `toml:"selector"`
	Size            string    `toml:"size"`
	Landscape       bool      `toml:"landscape"`
	Margin          []float64 `toml:"margin"`
	Scale           float64   `toml:"scale"`
	BackgroundColor string    `toml:"background_color"`
	JPEGQuality     int       `toml:"jpeg_quality"`

	MonoblockClasses []string `toml:"monoblock_classes"`
	PageBreakClasses []string `toml:"page_break_classes"`
	ResetStyleTags   []string `toml:"reset_style_tags"`
	SkipTags         []string `toml:"skip_tags"`

	DisableAdaptive  bool    `toml:"disable_adaptive"`
	AdaptiveWidth    float64 `toml:"adaptive_width"`
	ParentSelector   string  `toml:"parent_selector"`
	ResetViewScript  string  `toml:"reset_view_script"`
	ResetViewDelayMS int     `toml:"reset_view_delay_ms"`

	Header    *bandConfig  `toml:"header"`
	Footer    *bandConfig  `toml:"footer"`
	Cover     *coverConfig `toml:"cover"`
	Backcover *coverConfig `toml:"backcover"`

	Browser browserConfig `toml:"browser"`
}

type bandConfig struct {
	Text        string  `toml:"text"`
	Image       string  `toml:"image"`
	ImageWidth  float64 `toml:"image_width"`
	ImageHeight float64 `toml:"image_height"`
	FontSize    float64 `toml:"font_size"`
	Align       string  `toml:"align"`
	Color       string  `toml:"color"`
}

type coverConfig struct {
	BackgroundColor string  `toml:"background_color"`
	Image           string  `toml:"image"`
	Fit             string  `toml:"fit"`
	Text            string  `toml:"text"`
	FontSize        float64 `toml:"font_size"`
	FontWeight      string  `toml:"font_weight"`
	Color           string  `toml:"color"`
	Selector        string  `toml:"selector"`
	ElementFit      string  `toml:"element_fit"`
}

type browserConfig struct {
	ChromePath   string `toml:"chrome_path"`
	NoSandbox    bool   `toml:"no_sandbox"`
	AutoDownload bool   `toml:"auto_download"`
	TimeoutSec   int    `toml:"timeout_seconds"`
}

// loadConfig reads the TOML file at path. Unknown keys are an error.
func loadConfig(path string) (config, error) {
	var cfg config
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

var pageSizes = map[string]dompdf.PageSize{
	"a3":      dompdf.A3,
	"a4":      dompdf.A4,
	"a5":      dompdf.A5,
	"letter":  dompdf.Letter,
	"legal":   dompdf.Legal,
	"tabloid": dompdf.Tabloid,
}

func parseSize(name string) (dompdf.PageSize, error) {
	if name == "" {
		return dompdf.PageSize{}, nil
	}
	size, ok := pageSizes[strings.ToLower(name)]
	if !ok {
		return size, fmt.Errorf("unknown page size %q", name)
	}
	return size, nil
}

// parseMargin reads a comma separated list such as "20,15".
func parseMargin(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid margin %q", part)
		}
		out = append(out, v)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// exportOptions converts the file config to library options.
func (c config) exportOptions() (*dompdf.ExportOptions, error) {
	size, err := parseSize(c.Size)
	if err != nil {
		return nil, err
	}
	o := &dompdf.ExportOptions{
		Name:             c.Name,
		Selector:         c.Selector,
		Size:             size,
		Margin:           c.Margin,
		Scale:            c.Scale,
		MonoblockClasses: c.MonoblockClasses,
		PageBreakClasses: c.PageBreakClasses,
		ResetStyleTags:   c.ResetStyleTags,
		SkipTags:         c.SkipTags,
		BackgroundColor:  c.BackgroundColor,
		DisableAdaptive:  c.DisableAdaptive,
		AdaptiveWidth:    c.AdaptiveWidth,
		ParentSelector:   c.ParentSelector,
		ResetViewScript:  c.ResetViewScript,
		ResetViewDelay:   time.Duration(c.ResetViewDelayMS) * time.Millisecond,
		JPEGQuality:      c.JPEGQuality,
		Header:           c.Header.options(),
		Footer:           c.Footer.options(),
		Cover:            c.Cover.options(),
		Backcover:        c.Backcover.options(),
	}
	if c.Landscape {
		o.Orientation = dompdf.Landscape
	}
	if c.Cover != nil {
		o.CoverSelector = c.Cover.Selector
	}
	if c.Backcover != nil {
		o.BackcoverSelector = c.Backcover.Selector
	}
	return o, nil
}

func (b *bandConfig) options() *render.HeaderFooterOptions {
	if b == nil {
		return nil
	}
	return &render.HeaderFooterOptions{
		Text:        b.Text,
		Image:       b.Image,
		ImageWidth:  b.ImageWidth,
		ImageHeight: b.ImageHeight,
		FontSize:    b.FontSize,
		Align:       render.Align(strings.ToLower(b.Align)),
		Color:       b.Color,
	}
}

func (c *coverConfig) options() *render.CoverOptions {
	if c == nil {
		return nil
	}
	return &render.CoverOptions{
		BackgroundColor: c.BackgroundColor,
		Image:           c.Image,
		Fit:             render.Fit(strings.ToLower(c.Fit)),
		Text:            c.Text,
		FontSize:        c.FontSize,
		FontWeight:      c.FontWeight,
		Color:           c.Color,
		ElementFit:      render.Fit(strings.ToLower(c.ElementFit)),
	}
}
