package paginate

import "math"

// SplitOversize returns the cuts for an atomic box that does not fit in the
// space left on the current page.
//
// distance is where the box was reached, pageLong how much of the current
// page is already used. A box that fits on a fresh page gets one cut at
// distance, moving it whole to the next page. A taller box is cut where the
// current page is exhausted, then once every capacity pixels; the last value
// returned is always the final cut inside the box.
func SplitOversize(distance, height, pageLong, capacity float64) []float64 {
	var cuts []float64
	if height > capacity {
		distance += math.Max(capacity-pageLong, 0)
		count := int(math.Floor((height + pageLong - capacity) / capacity))
		for i := 0; i < count; i++ {
			cuts = append(cuts, distance)
			distance += capacity
		}
	}
	return append(cuts, distance)
}
