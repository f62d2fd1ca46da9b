package paginate

// Box is one rendered node as seen by the planner. All lengths are in
// device pixels, already scaled by the device pixel ratio.
//
// Implementations must return the same values for the whole planning pass.
type Box interface {
	// Tag is the lower-case element name, e.g. "div" or "tr".
	Tag() string
	// HasClass reports whether the box carries the given class name.
	HasClass(name string) bool
	// Height is the rendered height of the box.
	Height() float64
	// Top is the offset of the box from the content origin.
	Top() float64
	// LineHeight is the height of one text line inside the box.
	LineHeight() float64
	// Children returns the child boxes in document order.
	Children() []Box
}

// Node is a plain in-memory Box.
type Node struct {
	Name    string
	Classes []string
	H       float64
	Y       float64
	Line    float64
	Kids    []*Node
}

func (n *Node) Tag() string         { return n.Name }
func (n *Node) Height() float64     { return n.H }
func (n *Node) Top() float64        { return n.Y }
func (n *Node) LineHeight() float64 { return n.Line }

func (n *Node) HasClass(name string) bool {
	for _, c := range n.Classes {
		if c == name {
			return true
		}
	}
	return false
}

func (n *Node) Children() []Box {
	if len(n.Kids) == 0 {
		return nil
	}
	out := make([]Box, len(n.Kids))
	for i, k := range n.Kids {
		out[i] = k
	}
	return out
}

// Filter returns the boxes the planner should visit in place of the literal
// children of b.
type Filter func(b Box) []Box

// SkipTags returns a Filter that drops children with any of the given tags.
// Tags such as "colgroup" carry no height of their own but confuse the
// decomposition of tables.
func SkipTags(tags ...string) Filter {
	skip := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		skip[t] = struct{}{}
	}
	return func(b Box) []Box {
		var out []Box
		for _, k := range b.Children() {
			if _, ok := skip[k.Tag()]; ok {
				continue
			}
			out = append(out, k)
		}
		return out
	}
}
