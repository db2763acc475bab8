package ops

import (
	"bytes"
	"context"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/pyhub-apps/pdfops-golang/pkg/archive"
	"github.com/pyhub-apps/pdfops-golang/pkg/pdf"
	"github.com/pyhub-apps/pdfops-golang/pkg/raster"
)

// JPEGQuality is used when pages are exported as JPEG
const JPEGQuality = 75

// ImagesToDocument builds a PDF with one full-bleed page per image, in
// order. Images with transparency or a palette are flattened onto white
// first; opaque JPEGs are embedded as they are.
func ImagesToDocument(images [][]byte) (*pdf.Document, error) {
	if len(images) == 0 {
		return nil, pdf.Errorf(pdf.KindNoInputImages, "image2pdf", "no images supplied")
	}

	readers := make([]io.Reader, len(images))
	for i, data := range images {
		normalized, err := normalizeImage(data)
		if err != nil {
			return nil, pdf.Wrap(pdf.KindMalformedImage, "image2pdf", err, "image %d", i+1)
		}
		readers[i] = bytes.NewReader(normalized)
	}

	imp, err := pdfcpu.ParseImportDetails("pos:full", types.POINTS)
	if err != nil {
		return nil, pdf.Wrap(pdf.KindUnknown, "image2pdf", err, "bad import configuration")
	}

	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, readers, imp, pdf.NewConfiguration()); err != nil {
		return nil, pdf.Wrap(pdf.KindMalformedImage, "image2pdf", err, "failed to import images")
	}

	return pdf.Read(out.Bytes())
}

// normalizeImage returns data ready for embedding: an opaque JPEG without
// CMYK data unchanged, anything else re-encoded as an opaque RGB PNG.
func normalizeImage(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	if format == "jpeg" && img.ColorModel() != color.CMYKModel {
		return data, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, flatten(img)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// flatten composes img over a white background. The PNG encoder writes an
// opaque *image.RGBA as plain RGB.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// DocumentToImages renders every page of doc at dpi through r. The whole
// operation fails when any page cannot be rendered.
func DocumentToImages(ctx context.Context, r raster.Rasterizer, doc *pdf.Document, dpi int) (raster.ImageSet, error) {
	if dpi <= 0 {
		dpi = raster.DefaultDPI
	}

	images, err := r.Rasterize(ctx, doc.Bytes(), dpi)
	if err != nil {
		if ctx.Err() != nil || pdf.KindOf(err) != pdf.KindUnknown {
			return nil, err
		}
		return nil, pdf.Wrap(pdf.KindMalformedDocument, "rasterize", err, "failed to render pages")
	}

	if len(images) != doc.PageCount() {
		return nil, pdf.Errorf(pdf.KindMalformedDocument, "rasterize",
			"rendered %d of %d pages", len(images), doc.PageCount())
	}
	return images, nil
}

// DocumentToJPEGBundle renders every page and encodes it as a JPEG entry
// named page_<n>.jpeg.
func DocumentToJPEGBundle(ctx context.Context, r raster.Rasterizer, doc *pdf.Document, dpi int) ([]archive.Entry, error) {
	images, err := DocumentToImages(ctx, r, doc, dpi)
	if err != nil {
		return nil, err
	}

	entries := make([]archive.Entry, len(images))
	for i, img := range images {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, pdf.Wrap(pdf.KindUnknown, "pdf2jpeg", err, "page %d", i+1)
		}
		entries[i] = archive.Entry{Name: archive.PageName(i+1, "jpeg"), Data: buf.Bytes()}
	}
	return entries, nil
}
