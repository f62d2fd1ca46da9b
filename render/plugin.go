package render

import (
	"context"
	"fmt"

	"github.com/fogleman/gg"

	"github.com/porticus-lab/go-dom-pdf/paginate"
)

// Plugin decorates an export. A plugin implements any of [BeforeDrawer],
// [Drawer] and [AfterDrawer]; plugins run in registration order.
type Plugin interface {
	Name() string
}

// BeforeDrawer runs once before the first content page. It may add pages
// to the book, e.g. a cover.
type BeforeDrawer interface {
	BeforeDraw(ctx context.Context, b *Book) error
}

// Drawer runs on every content page after the background is painted and
// before the master slice is placed.
type Drawer interface {
	Draw(ctx context.Context, dc *gg.Context, p PageInfo) error
}

// AfterDrawer runs once after the last content page.
type AfterDrawer interface {
	AfterDraw(ctx context.Context, b *Book) error
}

// PageInfo describes the content page being drawn.
type PageInfo struct {
	Layout
	// Index is the 1-based content page number.
	Index int
	// Total is the number of content pages, covers excluded.
	Total int
	// Segment is the master slice shown on the page.
	Segment paginate.Segment
}

// DecorationError records a failed plugin hook.
type DecorationError struct {
	Plugin string
	Hook   string
	Page   int
	Err    error
}

func (e *DecorationError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("render: plugin %s %s on page %d: %v", e.Plugin, e.Hook, e.Page, e.Err)
	}
	return fmt.Sprintf("render: plugin %s %s: %v", e.Plugin, e.Hook, e.Err)
}

func (e *DecorationError) Unwrap() error { return e.Err }
