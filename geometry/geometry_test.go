package geometry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/porticus-lab/go-dom-pdf/paginate"
)

func TestLineHeight(t *testing.T) {
	tests := []struct {
		lineHeight, fontSize string
		want                 float64
	}{
		{"normal", "16px", 16},
		{"", "14px", 14},
		{"24px", "16px", 24},
		{"22.5px", "16px", 22.5},
		{"1.5", "16px", 24},
		{"2", "10px", 20},
		{"bogus", "16px", 0},
		{"normal", "", 0},
	}
	for _, tt := range tests {
		got := LineHeight(tt.lineHeight, tt.fontSize)
		assert.InDelta(t, tt.want, got, 1e-9, "LineHeight(%q, %q)", tt.lineHeight, tt.fontSize)
	}
}

func TestSamplerScalesRelativeToRoot(t *testing.T) {
	root := &Element{Tag: "DIV", Top: 100, Height: 500, Children: []*Element{
		{Tag: "P", Classes: []string{"lead"}, Top: 120, Height: 40, LineHeight: "normal", FontSize: "20px"},
		{Tag: "TABLE", Top: 160, Height: 300, Children: []*Element{
			{Tag: "TR", Top: 160, Height: 30},
		}},
	}}

	box := Root(root, 2)
	assert.Equal(t, "div", box.Tag())
	assert.Zero(t, box.Top())
	assert.Equal(t, 1000.0, box.Height())

	kids := box.Children()
	require.Len(t, kids, 2)
	assert.Equal(t, "p", kids[0].Tag())
	assert.True(t, kids[0].HasClass("lead"))
	assert.False(t, kids[0].HasClass("html-pdf-monoblock"))
	assert.Equal(t, 40.0, kids[0].Top())
	assert.Equal(t, 80.0, kids[0].Height())
	assert.Equal(t, 40.0, kids[0].LineHeight())

	row := kids[1].Children()[0]
	assert.Equal(t, "tr", row.Tag())
	assert.Equal(t, 120.0, row.Top())
	assert.Equal(t, 60.0, row.Height())
}

func TestSamplerWrapsChildrenOnce(t *testing.T) {
	root := &Element{Tag: "div", Children: []*Element{{Tag: "p"}}}
	box := Root(root, 1)
	assert.Same(t, box.Children()[0], box.Children()[0])
	assert.Nil(t, box.Children()[0].Children())
}

func TestSamplerDefaultsRatio(t *testing.T) {
	box := Root(&Element{Tag: "div", Top: 10, Height: 30}, 0)
	assert.Equal(t, 30.0, box.Height())
}

func TestDecodeAndPlan(t *testing.T) {
	const snapshot = `{
	  "tag": "div", "top": 0, "height": 2000,
	  "children": [
	    {"tag": "p", "top": 0, "height": 2000, "lineHeight": "20px", "fontSize": "16px"}
	  ]
	}`
	root, err := Decode(strings.NewReader(snapshot))
	require.NoError(t, err)
	assert.Equal(t, 2, root.Count())

	p := paginate.Planner{Capacity: 1200}
	plan := p.Plan(Root(root, 1))
	assert.Equal(t, []float64{0, 1200}, plan.Cuts)
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(strings.NewReader("{"))
	assert.Error(t, err)
}
