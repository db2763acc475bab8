package ops

import (
	"context"

	"github.com/pyhub-apps/pdfops-golang/pkg/office"
	"github.com/pyhub-apps/pdfops-golang/pkg/pdf"
	"github.com/pyhub-apps/pdfops-golang/pkg/raster"
)

// DocumentToPresentation renders doc and puts each page on its own 4:3
// slide. Every picture is stretched to the full slide, so pages of a
// different aspect ratio come out distorted.
func DocumentToPresentation(ctx context.Context, r raster.Rasterizer, doc *pdf.Document, dpi int) ([]byte, error) {
	images, err := DocumentToImages(ctx, r, doc, dpi)
	if err != nil {
		return nil, err
	}

	var p office.Presentation
	for i, img := range images {
		if err := p.AddPictureSlide(img); err != nil {
			return nil, pdf.Wrap(pdf.KindUnknown, "pdf2ppt", err, "slide %d", i+1)
		}
	}

	data, err := p.Bytes()
	if err != nil {
		return nil, pdf.Wrap(pdf.KindUnknown, "pdf2ppt", err, "failed to write presentation")
	}
	return data, nil
}
