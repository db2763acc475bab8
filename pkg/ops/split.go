package ops

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"github.com/pyhub-apps/pdfops-golang/pkg/pdf"
)

// ValidateRange checks the 1-based inclusive range [start, end] against a
// document of pageCount pages. The checks run in a fixed order and the
// first violation is returned; only the upper bound reports pageCount.
func ValidateRange(start, end, pageCount int) error {
	switch {
	case start < 1:
		return pdf.Errorf(pdf.KindInvalidRange, "split", "start page %d must be at least 1", start)
	case end < start:
		return pdf.Errorf(pdf.KindInvalidRange, "split", "end page %d is before start page %d", end, start)
	case end > pageCount:
		e := pdf.Errorf(pdf.KindInvalidRange, "split", "end page %d exceeds page count %d", end, pageCount)
		e.PageCount = pageCount
		return e
	}
	return nil
}

// Split returns a new document holding pages start through end of doc
func Split(doc *pdf.Document, start, end int) (*pdf.Document, error) {
	if err := ValidateRange(start, end, doc.PageCount()); err != nil {
		return nil, err
	}

	ctx, err := doc.Context()
	if err != nil {
		return nil, err
	}

	pages := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		pages = append(pages, n)
	}

	out, err := pdfcpu.ExtractPages(ctx, pages, false)
	if err != nil {
		return nil, pdf.Wrap(pdf.KindMalformedDocument, "split", err, "failed to extract pages %d-%d", start, end)
	}

	return pdf.FromContext(out)
}
