package dompdf_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	dompdf "github.com/porticus-lab/go-dom-pdf"
	"github.com/porticus-lab/go-dom-pdf/render"
)

// chromeAvailable reports whether a Chrome/Chromium executable is in PATH.
func chromeAvailable() bool {
	for _, name := range []string{
		"chromium-browser", "chromium", "google-chrome",
		"google-chrome-stable", "chrome",
	} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

func skipIfNoChrome(t *testing.T) {
	t.Helper()
	if !chromeAvailable() {
		t.Skip("skipping: Chrome/Chromium not found in PATH")
	}
}

func newTestConverter(t *testing.T) *dompdf.Converter {
	t.Helper()
	skipIfNoChrome(t)
	c, err := dompdf.NewConverter(dompdf.WithNoSandbox())
	if err != nil {
		t.Fatalf("NewConverter: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// isPDF checks whether data starts with the PDF magic number.
func isPDF(data []byte) bool {
	return len(data) > 4 && string(data[:5]) == "%PDF-"
}

func TestExportHTML_Basic(t *testing.T) {
	c := newTestConverter(t)

	res, err := c.ExportHTML(context.Background(), "<h1>Hello World</h1>", nil)
	if err != nil {
		t.Fatalf("ExportHTML: %v", err)
	}
	if !isPDF(res.Bytes()) {
		t.Fatal("output is not a valid PDF")
	}
	if res.PageCount() != 1 {
		t.Errorf("PageCount() = %d, want 1", res.PageCount())
	}
}

func TestExportHTML_TableRows(t *testing.T) {
	c := newTestConverter(t)

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body style="margin:0">
<table id="report" style="border-collapse:collapse;width:100%">`)
	for i := 0; i < 120; i++ {
		b.WriteString(`<tr style="height:40px"><td>row</td></tr>`)
	}
	b.WriteString(`</table>
<div class="html-pdf-page-break" style="height:100px">appendix</div>
</body></html>`)

	res, err := c.ExportHTML(context.Background(), b.String(), &dompdf.ExportOptions{
		Footer: &render.HeaderFooterOptions{Text: "{page} / {total}"},
	})
	if err != nil {
		t.Fatalf("ExportHTML: %v", err)
	}
	if res.PageCount() < 3 {
		t.Fatalf("PageCount() = %d, want several pages", res.PageCount())
	}
	cuts := res.Plan().Cuts
	for i := 1; i < len(cuts); i++ {
		if cuts[i] <= cuts[i-1] {
			t.Fatalf("cuts not increasing: %v", cuts)
		}
	}
}

func TestExportHTML_SelectorNotFound(t *testing.T) {
	c := newTestConverter(t)

	_, err := c.ExportHTML(context.Background(), "<p>text</p>", &dompdf.ExportOptions{Selector: "#missing"})
	if !errors.Is(err, dompdf.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestExportHTML_RestoresPage(t *testing.T) {
	c := newTestConverter(t)

	// Exporting twice from the same converter must not see leftovers of
	// the first adaptive clone.
	for i := 0; i < 2; i++ {
		res, err := c.ExportHTML(context.Background(), `<div id="a" style="height:50px">a</div>`, &dompdf.ExportOptions{Selector: "#a"})
		if err != nil {
			t.Fatalf("ExportHTML #%d: %v", i, err)
		}
		if res.PageCount() != 1 {
			t.Errorf("PageCount() = %d, want 1", res.PageCount())
		}
	}
}

func TestExportFile(t *testing.T) {
	c := newTestConverter(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.html")
	if err := os.WriteFile(path, []byte("<h1>From File</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := c.ExportFile(context.Background(), path, &dompdf.ExportOptions{Selector: "h1", DisableAdaptive: true})
	if err != nil {
		t.Fatalf("ExportFile: %v", err)
	}
	if !isPDF(res.Bytes()) {
		t.Fatal("output is not a valid PDF")
	}
}

func TestExportFile_NotFound(t *testing.T) {
	c := newTestConverter(t)

	_, err := c.ExportFile(context.Background(), "/nonexistent/file.html", nil)
	if !errors.Is(err, dompdf.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestExportURL_InvalidURL(t *testing.T) {
	c := newTestConverter(t)

	_, err := c.ExportURL(context.Background(), "not a url", nil)
	if !errors.Is(err, dompdf.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestConverter_Closed(t *testing.T) {
	skipIfNoChrome(t)

	c, err := dompdf.NewConverter(dompdf.WithNoSandbox())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := c.ExportHTML(context.Background(), "<p>x</p>", nil); !errors.Is(err, dompdf.ErrClosed) {
		t.Fatalf("ExportHTML after Close: err = %v, want ErrClosed", err)
	}
}
