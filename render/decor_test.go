package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadImage(t *testing.T) {
	data := pngBytes(t, 4, 3, color.Black)
	ctx := context.Background()

	t.Run("data URL", func(t *testing.T) {
		img, err := LoadImage(ctx, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(data))
		require.NoError(t, err)
		assert.Equal(t, image.Pt(4, 3), img.Bounds().Size())
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logo.png")
		require.NoError(t, os.WriteFile(path, data, 0o644))
		img, err := LoadImage(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, 4, img.Bounds().Dx())
	})

	t.Run("http", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/logo.png" {
				http.NotFound(w, r)
				return
			}
			w.Write(data)
		}))
		defer srv.Close()

		img, err := LoadImage(ctx, srv.URL+"/logo.png")
		require.NoError(t, err)
		assert.Equal(t, 3, img.Bounds().Dy())

		_, err = LoadImage(ctx, srv.URL+"/missing.png")
		assert.ErrorIs(t, err, ErrImageLoad)
	})

	t.Run("failures", func(t *testing.T) {
		for _, src := range []string{"", "/nonexistent/logo.png", "data:image/png;base64,!!!", "data:nocomma"} {
			_, err := LoadImage(ctx, src)
			assert.ErrorIs(t, err, ErrImageLoad, "source %q", src)
		}
	})
}

func TestParseColor(t *testing.T) {
	fallback := color.Gray{Y: 0x99}
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#fff", color.RGBA{0xff, 0xff, 0xff, 0xff}},
		{"#FF0000", color.RGBA{0xff, 0, 0, 0xff}},
		{" #00f ", color.RGBA{0, 0, 0xff, 0xff}},
		{"black", color.RGBA{0, 0, 0, 0xff}},
		{"teal", color.RGBA{0x99, 0x99, 0x99, 0xff}},
		{"#12", color.RGBA{0x99, 0x99, 0x99, 0xff}},
		{"", color.RGBA{0x99, 0x99, 0x99, 0xff}},
	}
	for _, tt := range tests {
		got := color.RGBAModel.Convert(ParseColor(tt.in, fallback)).(color.RGBA)
		assert.Equal(t, tt.want, got, "ParseColor(%q)", tt.in)
	}
}

func TestFitRects(t *testing.T) {
	page := image.Pt(100, 100)
	tests := []struct {
		name     string
		size     image.Point
		fit      Fit
		src, dst image.Rectangle
	}{
		{"fill", image.Pt(200, 100), FitFill, image.Rect(0, 0, 200, 100), image.Rect(0, 0, 100, 100)},
		{"contain wide", image.Pt(200, 100), FitContain, image.Rect(0, 0, 200, 100), image.Rect(0, 25, 100, 75)},
		{"contain tall", image.Pt(100, 200), FitContain, image.Rect(0, 0, 100, 200), image.Rect(25, 0, 75, 100)},
		{"cover wide", image.Pt(200, 100), FitCover, image.Rect(50, 0, 150, 100), image.Rect(0, 0, 100, 100)},
		{"cover tall", image.Pt(100, 200), FitCover, image.Rect(0, 50, 100, 150), image.Rect(0, 0, 100, 100)},
		{"none small", image.Pt(50, 50), FitNone, image.Rect(0, 0, 50, 50), image.Rect(25, 25, 75, 75)},
		{"none large", image.Pt(300, 300), FitNone, image.Rect(100, 100, 200, 200), image.Rect(0, 0, 100, 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, dst := fitRects(tt.size, page, tt.fit)
			assert.Equal(t, tt.src, src)
			assert.Equal(t, tt.dst, dst)
		})
	}
}

func TestHeaderFooterDefaults(t *testing.T) {
	h := newHeaderFooter(edgeTop, HeaderFooterOptions{Text: "Report"}, nil)
	assert.Equal(t, "header", h.Name())
	assert.Equal(t, AlignLeft, h.opts.Align)
	assert.Equal(t, 8.0, h.opts.FontSize)

	f := newHeaderFooter(edgeBottom, HeaderFooterOptions{Text: "{page} / {total}"}, nil)
	assert.Equal(t, "footer", f.Name())
	assert.Equal(t, AlignRight, f.opts.Align)
	assert.Equal(t, "3 / 7", f.label(PageInfo{Index: 3, Total: 7}))
}

func TestHeaderFooterDrawsInMargins(t *testing.T) {
	l, err := NewLayout(200, 200, Margin{Top: 16, Right: 10, Bottom: 16, Left: 10}, 360)
	require.NoError(t, err)
	book := &Book{Layout: l, Background: color.White}
	info := PageInfo{Layout: l, Index: 1, Total: 1}

	for _, tc := range []struct {
		plugin Plugin
		rows   [2]int
	}{
		{NewHeader(HeaderFooterOptions{Text: "Quarterly report", Color: "#000"}, nil), [2]int{0, int(l.Px(16))}},
		{NewFooter(HeaderFooterOptions{Text: "page {page}", Color: "#000", Align: AlignCenter}, nil), [2]int{int(l.Px(184)), l.CanvasHeight}},
	} {
		dc := book.NewCanvas()
		require.NoError(t, tc.plugin.(Drawer).Draw(context.Background(), dc, info))
		img := dc.Image().(*image.RGBA)
		assert.True(t, hasInk(img, tc.rows[0], tc.rows[1]), "%s drew nothing in its margin", tc.plugin.Name())
		assert.False(t, hasInk(img, int(l.Px(40)), int(l.Px(160))), "%s drew into the content area", tc.plugin.Name())
	}
}

func TestHeaderImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 20, 10, color.Black), 0o644))

	l, err := NewLayout(200, 200, Margin{Top: 16, Right: 10, Bottom: 16, Left: 10}, 180)
	require.NoError(t, err)
	book := &Book{Layout: l, Background: color.White}
	dc := book.NewCanvas()

	h := NewHeader(HeaderFooterOptions{Image: path, ImageHeight: 8}, nil)
	require.NoError(t, h.(Drawer).Draw(context.Background(), dc, PageInfo{Layout: l, Index: 1, Total: 1}))
	assert.True(t, hasInk(dc.Image().(*image.RGBA), 0, int(l.Px(16))))
}

func TestHeaderMissingImage(t *testing.T) {
	l, err := NewLayout(200, 200, Margin{Top: 16, Right: 10, Bottom: 16, Left: 10}, 180)
	require.NoError(t, err)
	book := &Book{Layout: l, Background: color.White}
	dc := book.NewCanvas()

	h := NewHeader(HeaderFooterOptions{Image: "/nonexistent/logo.png"}, nil)
	assert.NoError(t, h.(Drawer).Draw(context.Background(), dc, PageInfo{Layout: l, Index: 1, Total: 1}))
	assert.False(t, hasInk(dc.Image().(*image.RGBA), 0, l.CanvasHeight))
}

// hasInk reports whether any pixel in rows [y0, y1) is darker than white.
func hasInk(img *image.RGBA, y0, y1 int) bool {
	b := img.Bounds()
	for y := max(y0, b.Min.Y); y < min(y1, b.Max.Y); y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y).R < 0xc0 {
				return true
			}
		}
	}
	return false
}
