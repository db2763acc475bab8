package ops

import (
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/filter"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/pyhub-apps/pdfops-golang/pkg/pdf"
)

// Compress rewrites a text or vector document more densely: unfiltered
// streams are Flate encoded, duplicate objects are dropped and the result
// is written with object streams and a cross-reference stream. Documents
// that reference raster images are refused. Duplicate removal is skipped
// for documents with damaged resources.
func Compress(doc *pdf.Document) (*pdf.Document, error) {
	if pdf.HasImageContent(doc) {
		return nil, pdf.Errorf(pdf.KindUnsupportedForImageContent, "compress",
			"document embeds images on pages %v", pdf.ImagePages(doc))
	}

	ctx, err := doc.Context()
	if err != nil {
		return nil, err
	}

	if err := flateStreams(ctx); err != nil {
		return nil, pdf.Wrap(pdf.KindMalformedDocument, "compress", err, "failed to encode streams")
	}

	if err := api.OptimizeContext(ctx); err != nil {
		// The optimizer stops at the first unresolvable resource and leaves
		// ctx half rewritten. Start over and keep the stream encoding only.
		if ctx, err = doc.Context(); err != nil {
			return nil, err
		}
		if err := flateStreams(ctx); err != nil {
			return nil, pdf.Wrap(pdf.KindMalformedDocument, "compress", err, "failed to encode streams")
		}
	}

	ctx.Configuration.WriteObjectStream = true
	ctx.Configuration.WriteXRefStream = true

	return pdf.FromContext(ctx)
}

// flateStreams Flate encodes every stream that carries no filter yet.
// Cross-reference and object streams are left to the writer.
func flateStreams(ctx *model.Context) error {
	for _, entry := range ctx.XRefTable.Table {
		if entry == nil || entry.Free || entry.Object == nil {
			continue
		}

		sd, ok := entry.Object.(types.StreamDict)
		if !ok || len(sd.FilterPipeline) > 0 {
			continue
		}
		if t := sd.Type(); t != nil && (*t == "XRef" || *t == "ObjStm") {
			continue
		}
		if sd.Raw == nil && sd.Content == nil {
			continue
		}

		if err := sd.Decode(); err != nil {
			return err
		}
		sd.InsertName("Filter", filter.Flate)
		sd.FilterPipeline = []types.PDFFilter{{Name: filter.Flate}}
		if err := sd.Encode(); err != nil {
			return err
		}
		entry.Object = sd
	}
	return nil
}
