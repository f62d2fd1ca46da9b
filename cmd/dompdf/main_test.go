package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dompdf "github.com/porticus-lab/go-dom-pdf"
	"github.com/porticus-lab/go-dom-pdf/render"
)

const snapshot = `{
  "tag": "table", "left": 0, "top": 50, "width": 100, "height": 300,
  "children": [
    {"tag": "tr", "top": 50,  "width": 100, "height": 100},
    {"tag": "tr", "top": 150, "width": 100, "height": 100},
    {"tag": "tr", "top": 250, "width": 100, "height": 100}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunPlan_Text(t *testing.T) {
	path := writeFile(t, "snapshot.json", snapshot)

	var out bytes.Buffer
	require.NoError(t, runPlan([]string{"-capacity", "150", path}, &out))
	assert.Equal(t, "capacity 150, height 300, 3 pages\n"+
		"  page 1: 0-100\n"+
		"  page 2: 100-200\n"+
		"  page 3: 200-300\n", out.String())
}

func TestRunPlan_JSONFromLayout(t *testing.T) {
	path := writeFile(t, "snapshot.json", snapshot)

	var out bytes.Buffer
	require.NoError(t, runPlan([]string{"-f", "json", path}, &out))

	var got planOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, float64(142), got.Capacity, "A4 with 10pt margins over 100px")
	assert.Equal(t, []float64{0, 100, 200}, got.Cuts)
	assert.Len(t, got.Pages, 3)
}

func TestRunPlan_Errors(t *testing.T) {
	path := writeFile(t, "snapshot.json", snapshot)
	var out bytes.Buffer

	assert.ErrorContains(t, runPlan(nil, &out), "no input file")
	assert.ErrorContains(t, runPlan([]string{"-capacity"}, &out), "-capacity: missing argument")
	assert.ErrorContains(t, runPlan([]string{"-f", "xml", path}, &out), "unknown format")
	assert.ErrorContains(t, runPlan([]string{"-scale", "0", path}, &out), "invalid scale")
	assert.Error(t, runPlan([]string{writeFile(t, "bad.json", "{")}, &out))
}

func TestParseExportArgs(t *testing.T) {
	a, err := parseExportArgs([]string{"-s", "#main", "-m", "20,15", "-landscape", "-no-sandbox", "page.html"})
	require.NoError(t, err)
	assert.Equal(t, "#main", a.selector)
	assert.Equal(t, "20,15", a.margin)
	assert.True(t, a.landscape)
	assert.True(t, a.noSandbox)
	assert.Equal(t, "page.html", a.input)

	_, err = parseExportArgs([]string{"-o"})
	assert.ErrorContains(t, err, "-o requires an argument")
	_, err = parseExportArgs([]string{"-x", "page.html"})
	assert.ErrorContains(t, err, "unknown option")
	_, err = parseExportArgs(nil)
	assert.ErrorContains(t, err, "no input")
}

const reportConfig = `
name = "report"
selector = "#report"
size = "letter"
margin = [20.0, 15.0]
monoblock_classes = ["card"]
skip_tags = ["colgroup"]
reset_view_script = "el.dataset.ready = 1"
reset_view_delay_ms = 250

[footer]
text = "{page} / {total}"
align = "Center"

[cover]
text = "Q3"
fit = "contain"
selector = "#logo"

[browser]
no_sandbox = true
timeout_seconds = 90
`

func TestResolve_ConfigAndOverrides(t *testing.T) {
	path := writeFile(t, "report.toml", reportConfig)
	a := exportArgs{configFile: path, selector: "#summary", scale: "3", output: "out.pdf", input: "report.html"}

	cfg, opts, err := a.resolve()
	require.NoError(t, err)

	assert.True(t, cfg.Browser.NoSandbox)
	assert.Equal(t, 90, cfg.Browser.TimeoutSec)

	assert.Equal(t, "out.pdf", opts.Name)
	assert.Equal(t, "#summary", opts.Selector)
	assert.Equal(t, dompdf.Letter, opts.Size)
	assert.Equal(t, []float64{20, 15}, opts.Margin)
	assert.Equal(t, float64(3), opts.Scale)
	assert.Equal(t, []string{"card"}, opts.MonoblockClasses)
	assert.Equal(t, []string{"colgroup"}, opts.SkipTags)
	assert.Equal(t, 250*time.Millisecond, opts.ResetViewDelay)
	require.NotNil(t, opts.Footer)
	assert.Equal(t, render.AlignCenter, opts.Footer.Align)
	assert.Nil(t, opts.Header)
	require.NotNil(t, opts.Cover)
	assert.Equal(t, render.FitContain, opts.Cover.Fit)
	assert.Equal(t, "#logo", opts.CoverSelector)
	assert.Nil(t, opts.Backcover)
}

func TestResolve_Errors(t *testing.T) {
	_, _, err := exportArgs{configFile: writeFile(t, "bad.toml", "colour = 1\n")}.resolve()
	assert.Error(t, err, "unknown keys are rejected")

	_, _, err = exportArgs{size: "B5"}.resolve()
	assert.ErrorContains(t, err, "unknown page size")

	_, _, err = exportArgs{margin: "10,x"}.resolve()
	assert.ErrorContains(t, err, "invalid margin")

	_, _, err = exportArgs{scale: "-1"}.resolve()
	assert.ErrorContains(t, err, "invalid scale")
}

func TestRunInfo(t *testing.T) {
	path := writeFile(t, "doc.pdf", "%PDF-1.3\n"+
		"1 0 obj\n<</Type /Pages\n/Kids [3 0 R]\n/Count 1\n/MediaBox [0 0 595.28 841.89]\n>>\nendobj\n"+
		"2 0 obj\n<</Type /Catalog\n/Pages 1 0 R>>\nendobj\n"+
		"3 0 obj\n<</Type /Page\n/Parent 1 0 R>>\nendobj\n")

	var out bytes.Buffer
	require.NoError(t, runInfo([]string{path}, &out))
	assert.Contains(t, out.String(), "Version: PDF-1.3\n")
	assert.Contains(t, out.String(), "Pages:   1\n")
	assert.Contains(t, out.String(), "Page 1: 595 x 842 pt\n")

	assert.ErrorContains(t, runInfo(nil, &out), "no input file")
	assert.Error(t, runInfo([]string{writeFile(t, "x.txt", "hello")}, &out))
}
