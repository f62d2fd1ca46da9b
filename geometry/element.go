// Package geometry turns a frozen snapshot of rendered elements into boxes
// the paginate planner can walk.
//
// Snapshots are taken once in the browser, in CSS pixels and document
// coordinates. A [Sampler] scales each element by the device pixel ratio
// and makes it relative to the snapshot root only when the planner reaches
// it.
package geometry

import (
	"encoding/json"
	"fmt"
	"io"
)

// Element is one rendered element as measured by the browser.
type Element struct {
	Tag     string   `json:"tag"`
	Classes []string `json:"classes,omitempty"`

	// Left, Top, Width and Height are the border box in CSS pixels.
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// LineHeight and FontSize are the computed style values, e.g. "normal",
	// "24px" or "1.5".
	LineHeight string `json:"lineHeight,omitempty"`
	FontSize   string `json:"fontSize,omitempty"`

	Children []*Element `json:"children,omitempty"`
}

// Count returns the number of elements in the tree rooted at e.
func (e *Element) Count() int {
	if e == nil {
		return 0
	}
	n := 1
	for _, c := range e.Children {
		n += c.Count()
	}
	return n
}

// Decode reads a JSON snapshot.
func Decode(r io.Reader) (*Element, error) {
	var root Element
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("geometry: decoding snapshot: %w", err)
	}
	return &root, nil
}
