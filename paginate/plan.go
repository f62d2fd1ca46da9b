package paginate

// Plan is the result of one planning pass.
type Plan struct {
	// Cuts are non-decreasing offsets starting at 0. Cuts[i] is where page
	// i begins.
	Cuts []float64
	// Capacity is the page capacity the plan was computed for.
	Capacity float64
	// Height is the content height of the planned root.
	Height float64
}

// Segment is the vertical slice [Start, End) shown on one page.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Len is the height of the slice.
func (s Segment) Len() float64 { return s.End - s.Start }

// Pages returns the number of pages in the plan.
func (p Plan) Pages() int { return len(p.Cuts) }

// Segments returns one slice per page. The last page ends one capacity
// after its cut, or at the content height when that comes first.
func (p Plan) Segments() []Segment {
	segs := make([]Segment, len(p.Cuts))
	for i, start := range p.Cuts {
		end := start + p.Capacity
		if i+1 < len(p.Cuts) {
			end = p.Cuts[i+1]
		} else if p.Height >= start && p.Height < end {
			end = p.Height
		}
		segs[i] = Segment{Start: start, End: end}
	}
	return segs
}
