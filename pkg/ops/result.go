// Package ops implements the document transformations: merge, split,
// compress, watermark and the conversions between PDF, images and office
// formats. Every operation is a function of its inputs; none keeps state
// between calls.
package ops

import (
	"github.com/pyhub-apps/pdfops-golang/pkg/archive"
	"github.com/pyhub-apps/pdfops-golang/pkg/office"
	"github.com/pyhub-apps/pdfops-golang/pkg/pdf"
)

// Media types of operation results
const (
	PDFMediaType  = "application/pdf"
	PptxMediaType = office.PptxMediaType
	DocxMediaType = office.DocxMediaType
	ZipMediaType  = archive.MediaType
)

// Result is the terminal value of an operation: either a single stream
// (Data) or a bundle of named streams (Entries).
type Result struct {
	Data      []byte
	MediaType string
	Filename  string
	Entries   []archive.Entry
}

// IsBundle reports whether the result is a list of named streams
func (r *Result) IsBundle() bool {
	return r.Entries != nil
}

// Bytes returns the result as a single stream, zipping bundles
func (r *Result) Bytes() ([]byte, error) {
	if !r.IsBundle() {
		return r.Data, nil
	}
	return archive.Bundle(r.Entries)
}

// DocumentResult wraps a PDF document
func DocumentResult(doc *pdf.Document, filename string) *Result {
	return &Result{Data: doc.Bytes(), MediaType: PDFMediaType, Filename: filename}
}

// BundleResult wraps a list of named streams delivered as a zip archive
func BundleResult(entries []archive.Entry, filename string) *Result {
	if entries == nil {
		entries = []archive.Entry{}
	}
	return &Result{Entries: entries, MediaType: ZipMediaType, Filename: filename}
}
