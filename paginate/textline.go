package paginate

import "math"

// SplitLines returns the cuts for a text leaf that overflows the current
// page. Cuts fall on whole line boundaries: the first after the lines that
// still fit in capacity-pageLong, the following ones one page of lines apart
// for as long as the rest of the leaf, which ends at end, is taller than a
// page.
//
// A non-positive lineHeight, or one taller than the page, gives up on line
// boundaries and cuts where the page is exhausted.
func SplitLines(distance, pageLong, capacity, lineHeight, end float64) []float64 {
	first := linesSpan(capacity-pageLong, lineHeight)
	if lineHeight <= 0 {
		first = math.Max(capacity-pageLong, 0)
	}
	distance += first
	cuts := []float64{distance}

	step := linesSpan(capacity, lineHeight)
	if step <= 0 {
		step = capacity
	}
	for end-distance > capacity {
		distance += step
		cuts = append(cuts, distance)
	}
	return cuts
}

// linesSpan is the height of the whole lines of lineHeight that fit in room.
func linesSpan(room, lineHeight float64) float64 {
	if lineHeight <= 0 || room <= 0 {
		return 0
	}
	return math.Floor(room/lineHeight) * lineHeight
}
