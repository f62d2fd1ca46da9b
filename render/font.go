package render

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontsOnce sync.Once
	regular   *truetype.Font
	bold      *truetype.Font
)

func loadFonts() {
	regular, _ = truetype.Parse(goregular.TTF)
	bold, _ = truetype.Parse(gobold.TTF)
}

// fontFace returns a Go font face size pixels high.
func fontFace(size float64, heavy bool) font.Face {
	fontsOnce.Do(loadFonts)
	f := regular
	if heavy {
		f = bold
	}
	if size < 1 {
		size = 1
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72})
}

// isBold reports whether a CSS font-weight selects the bold face.
func isBold(weight string) bool {
	switch weight {
	case "bold", "bolder", "600", "700", "800", "900":
		return true
	}
	return false
}
