package dompdf

import (
	"bytes"
	"encoding/base64"
	"io"
	"os"

	"github.com/porticus-lab/go-dom-pdf/paginate"
)

// Result holds a generated PDF and provides helpers for common output
// formats such as raw bytes, base64 encoding, and streaming readers.
//
// A Result is returned by every export method. It is safe to call its
// methods multiple times; the underlying data is never modified.
type Result struct {
	data  []byte
	pages [][]byte
	name  string
	plan  paginate.Plan
}

// Bytes returns the raw PDF content.
func (r *Result) Bytes() []byte {
	return r.data
}

// Base64 returns the PDF encoded as a standard base64 string (RFC 4648).
func (r *Result) Base64() string {
	return base64.StdEncoding.EncodeToString(r.data)
}

// Reader returns an [*bytes.Reader] over the PDF content.
func (r *Result) Reader() *bytes.Reader {
	return bytes.NewReader(r.data)
}

// WriteTo writes the full PDF content to w. It implements [io.WriterTo].
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.data)
	return int64(n), err
}

// WriteToFile writes the PDF to the file at path, creating it if needed.
func (r *Result) WriteToFile(path string, perm os.FileMode) error {
	if len(r.pages) == 0 {
		return ErrEmptyResult
	}
	return os.WriteFile(path, r.data, perm)
}

// Save writes the PDF to [Result.Name] in the working directory.
func (r *Result) Save() error {
	return r.WriteToFile(r.name, 0o644)
}

// Len returns the size of the PDF in bytes.
func (r *Result) Len() int {
	return len(r.data)
}

// Name returns the file name from [ExportOptions.Name], always ending in ".pdf".
func (r *Result) Name() string {
	return r.name
}

// PageCount returns the number of pages, covers included.
func (r *Result) PageCount() int {
	return len(r.pages)
}

// PageImages returns the JPEG image of every page in order.
func (r *Result) PageImages() [][]byte {
	return r.pages
}

// Plan returns the cut offsets the content pages were sliced at, in
// capture pixels.
func (r *Result) Plan() paginate.Plan {
	return r.plan
}
