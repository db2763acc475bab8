package ops

import (
	"strings"

	"github.com/pyhub-apps/pdfops-golang/pkg/office"
	"github.com/pyhub-apps/pdfops-golang/pkg/pdf"
	"github.com/pyhub-apps/pdfops-golang/pkg/text"
)

// DocumentToWordText writes the text layer of doc into a .docx, one
// paragraph per page. Pages without extractable text are skipped.
func DocumentToWordText(doc *pdf.Document) ([]byte, error) {
	word, err := WordTextDocument(doc)
	if err != nil {
		return nil, err
	}

	data, err := word.Bytes()
	if err != nil {
		return nil, pdf.Wrap(pdf.KindUnknown, "pdf2word", err, "failed to write document")
	}
	return data, nil
}

// WordTextDocument collects the paragraphs DocumentToWordText writes
func WordTextDocument(doc *pdf.Document) (*office.WordDocument, error) {
	pages, err := text.Pages(doc.Bytes())
	if err != nil {
		return nil, pdf.Wrap(pdf.KindMalformedDocument, "pdf2word", err, "failed to extract text")
	}

	word := &office.WordDocument{}
	for _, s := range pages {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		word.AddParagraph(s)
	}
	return word, nil
}
