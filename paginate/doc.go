// Package paginate decides where a tall rendered box tree is cut into pages.
//
// The input is a frozen snapshot of rendered boxes, each with a height and a
// top offset in device pixels measured from the content origin. [Planner.Plan]
// walks the tree in document order and returns a [Plan]: a non-decreasing
// list of cut offsets starting at 0. Consecutive offsets bound one page.
//
//	p := paginate.Planner{
//	    Capacity:         1200,
//	    MonoblockClasses: []string{"html-pdf-monoblock"},
//	    PageBreakClasses: []string{"html-pdf-page-break"},
//	}
//	plan := p.Plan(root)
//	for _, seg := range plan.Segments() {
//	    fmt.Println(seg.Start, seg.End)
//	}
//
// Rows, images, vector graphics, canvases and monoblock-tagged boxes are kept
// whole whenever they fit on one page. Other boxes are decomposed into their
// children, and text leaves are cut on whole line boundaries.
package paginate
