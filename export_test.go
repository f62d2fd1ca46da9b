package dompdf

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"
	"log/slog"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/porticus-lab/go-dom-pdf/geometry"
	"github.com/porticus-lab/go-dom-pdf/render"
)

// square is a 2in square page. With 10pt margins it holds a 124px wide
// master at one point per pixel, 124px per page.
var square = PageSize{Width: 5.08, Height: 5.08}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// rows returns a 124px wide table of n rows, 40px each.
func rows(n int, classes map[int][]string) *geometry.Element {
	root := &geometry.Element{Tag: "table", Width: 124, Height: float64(40 * n)}
	for i := 0; i < n; i++ {
		root.Children = append(root.Children, &geometry.Element{
			Tag:     "tr",
			Classes: classes[i],
			Top:     float64(40 * i),
			Width:   124,
			Height:  40,
		})
	}
	return root
}

func isPDF(data []byte) bool {
	return len(data) > 4 && string(data[:5]) == "%PDF-"
}

func master(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	return img
}

func squareOptions() *ExportOptions {
	return &ExportOptions{Name: "rows", Size: square, Margin: []float64{10}, Scale: 1}
}

func TestPaginate_Rows(t *testing.T) {
	c := Capture{Master: master(124, 400), Root: rows(10, nil)}

	res, err := Paginate(context.Background(), c, squareOptions(), quietLogger())
	require.NoError(t, err)

	assert.True(t, isPDF(res.Bytes()))
	assert.Equal(t, []float64{0, 120, 240, 360}, res.Plan().Cuts)
	assert.Equal(t, float64(124), res.Plan().Capacity)
	assert.Equal(t, 4, res.PageCount())
	assert.Len(t, res.PageImages(), 4)
	assert.Equal(t, "rows.pdf", res.Name())
}

func TestPaginate_SinglePage(t *testing.T) {
	c := Capture{Master: master(124, 100), Root: rows(2, nil)}

	res, err := Paginate(context.Background(), c, squareOptions(), quietLogger())
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, res.Plan().Cuts)
	assert.Equal(t, 1, res.PageCount())
}

func TestPaginate_PageBreakClass(t *testing.T) {
	c := Capture{
		Master: master(124, 200),
		Root:   rows(5, map[int][]string{1: {"chapter"}}),
	}
	opts := squareOptions()
	opts.PageBreakClasses = []string{"chapter"}

	res, err := Paginate(context.Background(), c, opts, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 40, 80}, res.Plan().Cuts)
}

func TestPaginate_SkipTags(t *testing.T) {
	// A tall colgroup would be split on its own when not skipped.
	root := &geometry.Element{Tag: "table", Width: 124, Height: 300}
	root.Children = []*geometry.Element{
		{Tag: "div", Top: 0, Width: 124, Height: 300, Children: []*geometry.Element{
			{Tag: "colgroup", Top: 0, Width: 124, Height: 300},
			{Tag: "tr", Top: 0, Width: 124, Height: 100},
			{Tag: "tr", Top: 100, Width: 124, Height: 100},
			{Tag: "tr", Top: 200, Width: 124, Height: 100},
		}},
	}
	opts := squareOptions()
	opts.SkipTags = []string{"colgroup"}

	res, err := Paginate(context.Background(), Capture{Master: master(124, 300), Root: root}, opts, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 100, 200}, res.Plan().Cuts)
}

func TestPaginate_HeaderShrinksCapacity(t *testing.T) {
	opts := squareOptions()
	opts.Header = &render.HeaderFooterOptions{Text: "{page}/{total}"}

	res, err := Paginate(context.Background(), Capture{Master: master(124, 400), Root: rows(10, nil)}, opts, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, float64(118), res.Plan().Capacity)
	assert.Equal(t, []float64{0, 80, 160, 240, 320}, res.Plan().Cuts)
}

func TestPaginate_Covers(t *testing.T) {
	c := Capture{
		Master:           master(124, 400),
		Root:             rows(10, nil),
		BackcoverElement: master(20, 20),
	}
	opts := squareOptions()
	opts.Cover = &render.CoverOptions{Text: "Annual report"}

	res, err := Paginate(context.Background(), c, opts, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 6, res.PageCount(), "cover, four content pages, back cover")
	assert.Nil(t, opts.Backcover, "caller options are not modified")
}

type failingPlugin struct{ calls int }

func (p *failingPlugin) Name() string { return "failing" }

func (p *failingPlugin) Draw(context.Context, *gg.Context, render.PageInfo) error {
	p.calls++
	return errors.New("boom")
}

func TestPaginate_PluginFailureIsNotFatal(t *testing.T) {
	p := &failingPlugin{}
	opts := squareOptions()
	opts.Plugins = []render.Plugin{p}

	res, err := Paginate(context.Background(), Capture{Master: master(124, 400), Root: rows(10, nil)}, opts, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 4, p.calls)
	assert.True(t, isPDF(res.Bytes()))
}

func TestPaginate_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Paginate(ctx, Capture{Master: master(124, 10)}, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Paginate(ctx, Capture{Master: master(124, 0), Root: rows(0, nil)}, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyResult)

	opts := squareOptions()
	opts.Margin = []float64{80}
	_, err = Paginate(ctx, Capture{Master: master(124, 10), Root: rows(1, nil)}, opts, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Paginate(canceled, Capture{Master: master(124, 400), Root: rows(10, nil)}, squareOptions(), nil)
	assert.ErrorIs(t, err, ErrRender)
	assert.ErrorIs(t, err, context.Canceled)
}
