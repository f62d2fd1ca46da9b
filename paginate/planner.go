package paginate

// Planner computes page cuts for one box tree. The zero value never cuts;
// Capacity must be set.
type Planner struct {
	// Capacity is the content height of one page in device pixels.
	Capacity float64
	// MonoblockClasses mark boxes that are kept whole like table rows.
	MonoblockClasses []string
	// PageBreakClasses mark boxes that start and end a page.
	PageBreakClasses []string
	// Filter, when set, replaces the children of a box being decomposed.
	Filter Filter
}

// Plan returns the cut offsets for root. Content no taller than one page
// yields the single cut 0 without walking the tree.
//
// Plan only reads root; the same snapshot always yields the same plan.
func (p *Planner) Plan(root Box) Plan {
	plan := Plan{
		Cuts:     []float64{0},
		Capacity: p.Capacity,
		Height:   root.Height(),
	}
	if p.Capacity <= 0 || plan.Height <= p.Capacity {
		return plan
	}

	s := &pass{
		planner: p,
		cuts:    plan.Cuts,
		queue:   newWorkQueue(root.Children()),
	}
	s.run()
	plan.Cuts = trimTail(s.cuts, plan.Height)
	return plan
}

// pass holds the running totals of one planning pass.
type pass struct {
	planner *Planner

	// pageLong is the height used on the current page. Between boxes it
	// equals distance minus the last cut.
	pageLong float64
	// distance is the offset accounted for so far. It never decreases.
	distance float64

	cuts  []float64
	queue *workQueue
}

func (s *pass) run() {
	capacity := s.planner.Capacity
	for s.queue.len() > 0 {
		el := s.queue.popFront()
		height := el.Height()
		wTop := el.Top()
		if wTop < s.distance {
			wTop = s.distance
		}
		top := wTop - s.distance
		s.pageLong += top

		class := Classify(el, s.planner.MonoblockClasses, s.planner.PageBreakClasses)

		// Forced break before: only when something is already on the page.
		// The gap in front of el moves to the new page with it.
		if class.ForcesBreak && s.pageLong > 0 {
			s.emit(s.distance)
			s.pageLong = wTop - s.lastCut()
		}

		// The gap in front of el ran past the end of the page. Cut where
		// the capacity ran out and carry the overflow onto the next page.
		for s.pageLong > capacity {
			s.emit(s.lastCut() + capacity)
			s.pageLong -= capacity
		}
		s.advance(wTop)

		if s.pageLong+height <= capacity {
			s.pageLong += height
			s.distance += height
			if class.ForcesBreak {
				s.emit(s.distance)
				s.pageLong = 0
			}
			continue
		}

		if class.IsAtomic || class.ForcesBreak {
			s.emitAll(SplitOversize(s.distance, height, s.pageLong, capacity))
			s.pageLong = 0
			continue
		}
		if kids := s.children(el); len(kids) > 0 {
			s.queue.pushFront(kids)
			continue
		}
		s.emitAll(SplitLines(s.distance, s.pageLong, capacity, el.LineHeight(), wTop+height))
		s.pageLong = 0
	}
}

func (s *pass) children(b Box) []Box {
	if s.planner.Filter != nil {
		return s.planner.Filter(b)
	}
	return b.Children()
}

// lastCut is where the current page begins.
func (s *pass) lastCut() float64 { return s.cuts[len(s.cuts)-1] }

// advance moves distance forward to at, never backward.
func (s *pass) advance(at float64) {
	if at > s.distance {
		s.distance = at
	}
}

// emit records a cut at offset. A cut that does not move past the previous
// one would produce an empty page and is dropped.
func (s *pass) emit(offset float64) {
	if offset > s.lastCut() {
		s.cuts = append(s.cuts, offset)
	}
}

// emitAll records cuts and moves distance to the last of them.
func (s *pass) emitAll(cuts []float64) {
	for _, c := range cuts {
		s.emit(c)
	}
	if n := len(cuts); n > 0 {
		s.advance(cuts[n-1])
	}
}

// trimTail drops cuts at or past the end of the content, which would only
// open blank trailing pages.
func trimTail(cuts []float64, height float64) []float64 {
	for len(cuts) > 1 && cuts[len(cuts)-1] >= height {
		cuts = cuts[:len(cuts)-1]
	}
	return cuts
}
