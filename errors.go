package dompdf

import "errors"

// Sentinel errors returned by the library.
var (
	// ErrClosed is returned when attempting to use a closed [Converter].
	ErrClosed = errors.New("dompdf: converter is closed")

	// ErrInvalidInput is returned when the URL, file or root selector
	// cannot be used.
	ErrInvalidInput = errors.New("dompdf: invalid input")

	// ErrRender is returned when the browser fails to lay out or capture
	// the root element.
	ErrRender = errors.New("dompdf: render failed")

	// ErrEmptyResult is returned when an export or a save has no pages.
	ErrEmptyResult = errors.New("dompdf: no pages")
)
