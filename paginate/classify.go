package paginate

// Verdict is the atomicity class of a box.
type Verdict int

const (
	// Decomposable boxes may be split between their children.
	Decomposable Verdict = iota
	// Atomic boxes are kept whole unless they are taller than a page.
	Atomic
	// ForcedBreak boxes always start a new page and end the page after them.
	ForcedBreak
)

func (v Verdict) String() string {
	switch v {
	case Atomic:
		return "atomic"
	case ForcedBreak:
		return "forced-break"
	default:
		return "decomposable"
	}
}

// atomicTags are rendered as one unit by the browser and cannot be cut
// between children.
var atomicTags = map[string]bool{
	"tr":     true,
	"img":    true,
	"svg":    true,
	"canvas": true,
}

// Class holds the classification of one box.
type Class struct {
	IsAtomic    bool
	ForcesBreak bool
}

// Verdict collapses c into a single Verdict. ForcedBreak wins over Atomic.
func (c Class) Verdict() Verdict {
	switch {
	case c.ForcesBreak:
		return ForcedBreak
	case c.IsAtomic:
		return Atomic
	default:
		return Decomposable
	}
}

// Classify reports whether b is atomic and whether it forces a page break.
func Classify(b Box, monoblock, pageBreak []string) Class {
	return Class{
		IsAtomic:    atomicTags[b.Tag()] || hasAny(b, monoblock),
		ForcesBreak: hasAny(b, pageBreak),
	}
}

// IsTextLeaf reports whether b is a non-atomic box without children.
func IsTextLeaf(b Box, monoblock []string) bool {
	return !Classify(b, monoblock, nil).IsAtomic && len(b.Children()) == 0
}

func hasAny(b Box, classes []string) bool {
	for _, c := range classes {
		if b.HasClass(c) {
			return true
		}
	}
	return false
}
