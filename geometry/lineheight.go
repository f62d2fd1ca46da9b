package geometry

import (
	"strconv"
	"strings"
)

// LineHeight resolves a computed line-height against the computed font
// size, both as reported by getComputedStyle. The result is in CSS pixels,
// or 0 when neither value can be parsed.
//
//	LineHeight("normal", "16px") // 16
//	LineHeight("24px", "16px")   // 24
//	LineHeight("1.5", "16px")    // 24
func LineHeight(lineHeight, fontSize string) float64 {
	size := cssPixels(fontSize)
	lh := strings.TrimSpace(lineHeight)
	switch {
	case lh == "" || lh == "normal":
		return size
	case strings.HasSuffix(lh, "px"):
		return cssPixels(lh)
	}
	n, err := strconv.ParseFloat(lh, 64)
	if err != nil {
		return 0
	}
	return n * size
}

func cssPixels(v string) float64 {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return n
}
