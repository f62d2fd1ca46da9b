package render

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]color.Color{
	"transparent": color.Transparent,
	"white":       color.White,
	"black":       color.Black,
}

// ParseColor parses a CSS hex color such as "#fff" or "#1e90ff", or one of
// a few keywords. It returns fallback for anything else.
func ParseColor(s string, fallback color.Color) color.Color {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c
	}
	if !strings.HasPrefix(s, "#") {
		return fallback
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	return c.Clamped()
}
