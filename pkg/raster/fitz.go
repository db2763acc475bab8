//go:build mupdf

package raster

import (
	"context"

	"github.com/gen2brain/go-fitz"

	"github.com/pyhub-apps/pdfops-golang/pkg/pdf"
)

func init() {
	registry["mupdf"] = func() Rasterizer { return Fitz{} }
}

// Fitz renders pages in-process with MuPDF
type Fitz struct{}

// Rasterize renders every page of data at dpi
func (Fitz) Rasterize(ctx context.Context, data []byte, dpi int) (ImageSet, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, pdf.Wrap(pdf.KindMalformedDocument, "rasterize", err, "failed reading document")
	}
	defer doc.Close()

	n := doc.NumPage()
	images := make(ImageSet, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := doc.ImageDPI(i, float64(dpi))
		if err != nil {
			return nil, pdf.Wrap(pdf.KindMalformedDocument, "rasterize", err, "page %d could not be rendered", i+1)
		}
		images = append(images, img)
	}

	return images, nil
}
