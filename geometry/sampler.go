package geometry

import (
	"strings"

	"github.com/porticus-lab/go-dom-pdf/paginate"
)

// Sampler reads element geometry relative to a fixed origin, scaled by the
// device pixel ratio.
type Sampler struct {
	origin float64
	dpr    float64
}

// NewSampler returns a Sampler whose origin is the top of root.
func NewSampler(root *Element, dpr float64) *Sampler {
	if dpr <= 0 {
		dpr = 1
	}
	return &Sampler{origin: root.Top, dpr: dpr}
}

// Box wraps e. Its children are wrapped on first use.
func (s *Sampler) Box(e *Element) *Box {
	return &Box{el: e, s: s}
}

// Root samples root with a new Sampler.
func Root(root *Element, dpr float64) *Box {
	return NewSampler(root, dpr).Box(root)
}

// Box is a [paginate.Box] backed by a snapshot element.
type Box struct {
	el   *Element
	s    *Sampler
	kids []paginate.Box
}

var _ paginate.Box = (*Box)(nil)

// Element returns the underlying snapshot element.
func (b *Box) Element() *Element { return b.el }

func (b *Box) Tag() string { return strings.ToLower(b.el.Tag) }

func (b *Box) HasClass(name string) bool {
	for _, c := range b.el.Classes {
		if c == name {
			return true
		}
	}
	return false
}

func (b *Box) Height() float64 { return b.el.Height * b.s.dpr }

func (b *Box) Top() float64 { return (b.el.Top - b.s.origin) * b.s.dpr }

func (b *Box) LineHeight() float64 {
	return LineHeight(b.el.LineHeight, b.el.FontSize) * b.s.dpr
}

func (b *Box) Children() []paginate.Box {
	if b.kids == nil && len(b.el.Children) > 0 {
		b.kids = make([]paginate.Box, len(b.el.Children))
		for i, c := range b.el.Children {
			b.kids[i] = b.s.Box(c)
		}
	}
	return b.kids
}
