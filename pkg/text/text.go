// Package text extracts the text layer of PDF pages. It does no OCR: pages
// without a text layer yield empty strings.
package text

import (
	"bytes"
	"fmt"
	"strings"

	gopdf "github.com/dslipak/pdf"
	lpdf "github.com/ledongthuc/pdf"
)

// PageExtractor returns the plain text of one 1-based page
type PageExtractor interface {
	NumPage() int
	PageText(number int) (string, error)
}

// Open returns an extractor for data. The ledongthuc reader is tried first
// as it gives the most accurate plain text; dslipak is the fallback both
// for documents ledongthuc cannot open and for pages it fails on.
func Open(data []byte) (PageExtractor, error) {
	primary, perr := openLedongthuc(data)
	fallback, ferr := openDslipak(data)

	switch {
	case perr == nil && ferr == nil:
		return &chain{extractors: []PageExtractor{primary, fallback}}, nil
	case perr == nil:
		return primary, nil
	case ferr == nil:
		return fallback, nil
	}
	return nil, fmt.Errorf("failed to open PDF for text extraction: %w", perr)
}

// Pages extracts the text of every page in order
func Pages(data []byte) ([]string, error) {
	ext, err := Open(data)
	if err != nil {
		return nil, err
	}

	texts := make([]string, ext.NumPage())
	for i := range texts {
		s, err := ext.PageText(i + 1)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		texts[i] = s
	}
	return texts, nil
}

type chain struct {
	extractors []PageExtractor
}

func (c *chain) NumPage() int {
	return c.extractors[0].NumPage()
}

// PageText returns the first non-empty result. A failure is only reported
// when every extractor failed; a page some extractor read without finding
// text is empty, not broken.
func (c *chain) PageText(number int) (string, error) {
	var firstErr error
	read := false
	for _, e := range c.extractors {
		s, err := e.PageText(number)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if strings.TrimSpace(s) != "" {
			return s, nil
		}
		read = true
	}
	if read {
		return "", nil
	}
	return "", firstErr
}

type ledongthucExtractor struct {
	reader *lpdf.Reader
}

func openLedongthuc(data []byte) (ext *ledongthucExtractor, err error) {
	defer func() {
		if r := recover(); r != nil {
			ext, err = nil, fmt.Errorf("ledongthuc: %v", r)
		}
	}()

	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF with ledongthuc: %w", err)
	}
	return &ledongthucExtractor{reader: r}, nil
}

func (e *ledongthucExtractor) NumPage() int {
	return e.reader.NumPage()
}

func (e *ledongthucExtractor) PageText(number int) (s string, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = "", fmt.Errorf("ledongthuc: %v", r)
		}
	}()

	page := e.reader.Page(number)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d not found", number)
	}
	return page.GetPlainText(nil)
}

type dslipakExtractor struct {
	reader *gopdf.Reader
}

func openDslipak(data []byte) (ext *dslipakExtractor, err error) {
	defer func() {
		if r := recover(); r != nil {
			ext, err = nil, fmt.Errorf("dslipak: %v", r)
		}
	}()

	r, err := gopdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF with dslipak: %w", err)
	}
	return &dslipakExtractor{reader: r}, nil
}

func (e *dslipakExtractor) NumPage() int {
	return e.reader.NumPage()
}

// PageText joins the page's text runs, starting a new line whenever the
// baseline moves.
func (e *dslipakExtractor) PageText(number int) (s string, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = "", fmt.Errorf("dslipak: %v", r)
		}
	}()

	page := e.reader.Page(number)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d not found", number)
	}

	var b strings.Builder
	var lastY float64
	for i, t := range page.Content().Text {
		if i > 0 && t.Y != lastY {
			b.WriteByte('\n')
		}
		b.WriteString(t.S)
		lastY = t.Y
	}
	return b.String(), nil
}
