package ops

import (
	"bytes"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/pyhub-apps/pdfops-golang/pkg/pdf"
)

// Merge concatenates the pages of docs in argument order. At least two
// documents are required. Resources are copied per page as they are.
func Merge(docs []*pdf.Document) (*pdf.Document, error) {
	if len(docs) < 2 {
		return nil, pdf.Errorf(pdf.KindInsufficientInput, "merge", "need at least 2 documents, got %d", len(docs))
	}

	readers := make([]io.ReadSeeker, len(docs))
	for i, doc := range docs {
		readers[i] = bytes.NewReader(doc.Bytes())
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, pdf.NewConfiguration()); err != nil {
		return nil, pdf.Wrap(pdf.KindMalformedDocument, "merge", err, "failed to merge documents")
	}

	return pdf.Read(out.Bytes())
}

// MergeBytes parses every input before merging so a corrupt upload is
// reported with its position.
func MergeBytes(inputs [][]byte) (*pdf.Document, error) {
	if len(inputs) < 2 {
		return nil, pdf.Errorf(pdf.KindInsufficientInput, "merge", "need at least 2 documents, got %d", len(inputs))
	}

	docs := make([]*pdf.Document, len(inputs))
	for i, data := range inputs {
		doc, err := pdf.Read(data)
		if err != nil {
			return nil, pdf.Wrap(pdf.KindMalformedDocument, "merge", err, "document %d", i+1)
		}
		docs[i] = doc
	}

	return Merge(docs)
}
