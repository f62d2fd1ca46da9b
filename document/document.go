// Package document assembles page images into a PDF file.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	"codeberg.org/go-pdf/fpdf"
)

// ErrNoPages is returned when a document without pages is encoded. Zero
// pages means the capture failed upstream, not that the content was empty.
var ErrNoPages = errors.New("document: no pages")

// Document is an ordered list of full-bleed JPEG pages of one size.
type Document struct {
	width, height float64
	pages         [][]byte
}

// New returns an empty document with pages width by height points.
func New(width, height float64) *Document {
	return &Document{width: width, height: height}
}

// AddPage appends a page showing the given JPEG image edge to edge.
func (d *Document) AddPage(jpeg []byte) {
	d.pages = append(d.pages, jpeg)
}

// PageCount returns the number of pages added.
func (d *Document) PageCount() int { return len(d.pages) }

// Bytes encodes the document.
func (d *Document) Bytes() ([]byte, error) {
	if len(d.pages) == 0 {
		return nil, ErrNoPages
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: d.width, Ht: d.height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	opts := fpdf.ImageOptions{ImageType: "JPG"}
	for i, page := range d.pages {
		name := "page-" + strconv.Itoa(i+1)
		pdf.AddPage()
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(page))
		pdf.ImageOptions(name, 0, 0, d.width, d.height, false, opts, 0, "")
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("document: page %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("document: encoding: %w", err)
	}
	return buf.Bytes(), nil
}

// Save encodes the document and writes it to path.
func (d *Document) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
