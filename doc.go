// Package dompdf exports an element of a web page to a paged PDF.
//
// The element is laid out in headless Chrome (Chrome DevTools Protocol),
// captured as one tall raster and sliced into pages. Page breaks are
// planned over the element's box tree so that table rows, images and
// marked blocks are not cut in half and text is cut between lines.
//
// For one-off exports use the package-level helpers:
//
//	res, err := dompdf.ExportHTML(ctx, html, &dompdf.ExportOptions{Selector: "#report"})
//
// For repeated exports create a [Converter], which reuses the browser process:
//
//	c, err := dompdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	res, err := c.ExportHTML(ctx, "<h1>Hello</h1>", nil)
//	res, err  = c.ExportURL(ctx, "https://example.com", nil)
//	res, err  = c.ExportFile(ctx, "report.html", nil)
//
// Use [ExportOptions] to control paper, margins, break classes and
// decorations:
//
//	opts := &dompdf.ExportOptions{
//	    Name:             "invoice",
//	    Selector:         "main",
//	    Size:             dompdf.Letter,
//	    Margin:           []float64{20, 15},
//	    MonoblockClasses: []string{"keep"},
//	    Footer:           &render.HeaderFooterOptions{Text: "{page} / {total}"},
//	}
//
// Mark an element with class "html-pdf-monoblock" to keep it on one page,
// or "html-pdf-page-break" to give it pages of its own.
//
// A [Result] gives access to the generated PDF and its page images:
//
//	res.Bytes()                       // []byte
//	res.Base64()                      // base64 string (RFC 4648)
//	res.Reader()                      // *bytes.Reader
//	res.WriteTo(w)                    // io.WriterTo
//	res.Save()                        // write to res.Name()
//	res.PageImages()                  // JPEG per page
//
// [Paginate] runs the same pipeline over an existing [Capture] without a
// browser.
//
// Chrome or Chromium must be available in PATH, or use [WithAutoDownload]:
//
//	c, err := dompdf.NewConverter(dompdf.WithAutoDownload())
package dompdf
