package ops

import (
	"context"

	"github.com/pyhub-apps/pdfops-golang/pkg/office"
	"github.com/pyhub-apps/pdfops-golang/pkg/pdf"
)

// OfficeToDocument converts a .pptx or .docx through conv. A nil conv
// behaves like office.Unavailable.
func OfficeToDocument(ctx context.Context, conv office.Converter, data []byte, kind office.SourceKind) (*pdf.Document, error) {
	if conv == nil {
		conv = office.Unavailable{}
	}
	if len(data) == 0 {
		return nil, pdf.Errorf(pdf.KindMissingInput, "convert", "empty %s document", kind)
	}

	out, err := conv.Convert(ctx, data, kind)
	if err != nil {
		return nil, err
	}
	return pdf.Read(out)
}
