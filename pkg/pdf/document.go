package pdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Document is a PDF held in memory as an ordered sequence of pages.
// A Document is immutable: operations obtain a private pdfcpu context with
// Context and turn their result back into a new Document with FromContext.
type Document struct {
	ctx   *model.Context
	raw   []byte
	pages []*Page
}

// NewConfiguration returns the pdfcpu configuration used for reading and
// writing documents
func NewConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Read parses data into a Document. Parse failures and damage to the page
// tree are reported as MalformedDocument; a damaged page resource only marks
// that Resource with Err.
func Read(data []byte) (doc *Document, err error) {
	if len(data) == 0 {
		return nil, Errorf(KindMalformedDocument, "read", "empty input")
	}

	// pdfcpu may panic on badly damaged input
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = Errorf(KindMalformedDocument, "read", "failed to parse PDF: %v", r)
		}
	}()

	ctx, err := readContext(data)
	if err != nil {
		return nil, err
	}

	doc = &Document{
		ctx: ctx,
		raw: data,
	}

	if err := doc.initializePages(); err != nil {
		return nil, Wrap(KindMalformedDocument, "read", err, "failed to initialize pages")
	}

	return doc, nil
}

func readContext(data []byte) (*model.Context, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), NewConfiguration())
	if err != nil {
		return nil, Wrap(KindMalformedDocument, "read", err, "failed to read PDF context")
	}

	if verr := api.ValidateContext(ctx); verr != nil {
		// A damaged resource fails validation of the whole file. Keep the
		// document as long as its page tree is intact; resource walks report
		// the bad entries per page.
		ctx, err = api.ReadContext(bytes.NewReader(data), NewConfiguration())
		if err != nil {
			return nil, Wrap(KindMalformedDocument, "read", verr, "invalid PDF")
		}
		if err := ctx.EnsurePageCount(); err != nil || ctx.PageCount == 0 {
			return nil, Wrap(KindMalformedDocument, "read", verr, "invalid PDF")
		}
		return ctx, nil
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, Wrap(KindMalformedDocument, "read", err, "failed to count pages")
	}

	return ctx, nil
}

// FromContext serializes ctx and reads the result back as a new Document
func FromContext(ctx *model.Context) (*Document, error) {
	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF context: %w", err)
	}
	return Read(buf.Bytes())
}

// initializePages initializes all pages in the document
func (d *Document) initializePages() error {
	pageCount := d.ctx.PageCount
	d.pages = make([]*Page, pageCount)

	for i := 1; i <= pageCount; i++ {
		page, err := newPage(d, i)
		if err != nil {
			return fmt.Errorf("failed to create page %d: %w", i, err)
		}
		d.pages[i-1] = page
	}

	return nil
}

// Context returns a freshly parsed pdfcpu context for this document.
// The caller owns it and may mutate it freely.
func (d *Document) Context() (*model.Context, error) {
	return readContext(d.raw)
}

// Pages returns all pages in document order
func (d *Document) Pages() []*Page {
	return d.pages
}

// Page returns a page by its 1-based number
func (d *Document) Page(number int) (*Page, error) {
	if number < 1 || number > len(d.pages) {
		return nil, fmt.Errorf("page number %d out of range [1, %d]", number, len(d.pages))
	}
	return d.pages[number-1], nil
}

// PageCount returns the total number of pages
func (d *Document) PageCount() int {
	return len(d.pages)
}

// Bytes returns the serialized document. The slice must not be modified.
func (d *Document) Bytes() []byte {
	return d.raw
}

// Write writes the serialized document to w
func (d *Document) Write(w io.Writer) error {
	_, err := w.Write(d.raw)
	return err
}

// Len returns the size of the serialized document in bytes
func (d *Document) Len() int {
	return len(d.raw)
}
