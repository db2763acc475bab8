package ops

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding/charmap"

	"github.com/pyhub-apps/pdfops-golang/pkg/pdf"
)

// WatermarkSpec is the tiling geometry of a text watermark
type WatermarkSpec struct {
	Text     string
	Angle    float64 // degrees, counter-clockwise
	Step     float64 // points between tiles on both axes
	Opacity  float64
	FontSize float64
	Gray     float64 // fill gray level, 0 is black
}

// NewWatermarkSpec returns the standard tiling for text: 45 degrees, a tile
// every 150pt, 20pt Helvetica in 50% gray at 40% opacity.
func NewWatermarkSpec(text string) WatermarkSpec {
	return WatermarkSpec{
		Text:     text,
		Angle:    45,
		Step:     150,
		Opacity:  0.4,
		FontSize: 20,
		Gray:     0.5,
	}
}

func (s WatermarkSpec) validate() error {
	if strings.TrimSpace(s.Text) == "" {
		return pdf.Errorf(pdf.KindEmptyWatermarkText, "watermark", "watermark text is blank")
	}
	if s.Step <= 0 || s.FontSize <= 0 || s.Opacity < 0 || s.Opacity > 1 {
		return pdf.Errorf(pdf.KindInvalidParameter, "watermark", "invalid watermark geometry")
	}
	return nil
}

// Watermark overlays text tiled diagonally across every page of doc
func Watermark(doc *pdf.Document, text string) (*pdf.Document, error) {
	return WatermarkWithSpec(doc, NewWatermarkSpec(text))
}

// WatermarkWithSpec overlays the tiling described by spec. One template
// content stream covering the largest page is shared by all pages; each
// page wraps its original content in q/Q and draws the template on top,
// shifted to its own MediaBox origin.
func WatermarkWithSpec(doc *pdf.Document, spec WatermarkSpec) (*pdf.Document, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	ctx, err := doc.Context()
	if err != nil {
		return nil, err
	}

	var w, h float64
	for _, page := range doc.Pages() {
		w = math.Max(w, page.MediaBox.Width())
		h = math.Max(h, page.MediaBox.Height())
	}

	fontName, gsName := watermarkNames(ctx, doc.PageCount())

	fontRef, err := ctx.IndRefForNewObject(types.Dict{
		"Type":     types.Name("Font"),
		"Subtype":  types.Name("Type1"),
		"BaseFont": types.Name("Helvetica"),
		"Encoding": types.Name("WinAnsiEncoding"),
	})
	if err != nil {
		return nil, watermarkErr(err)
	}
	gsRef, err := ctx.IndRefForNewObject(types.Dict{
		"Type": types.Name("ExtGState"),
		"ca":   types.Float(spec.Opacity),
		"CA":   types.Float(spec.Opacity),
	})
	if err != nil {
		return nil, watermarkErr(err)
	}

	template, err := newContentStream(ctx, tileContent(spec, fontName, gsName, w, h))
	if err != nil {
		return nil, watermarkErr(err)
	}
	open, err := newContentStream(ctx, []byte("q\n"))
	if err != nil {
		return nil, watermarkErr(err)
	}
	closing, err := newContentStream(ctx, []byte("Q\n"))
	if err != nil {
		return nil, watermarkErr(err)
	}

	for _, page := range doc.Pages() {
		pageDict, _, inh, err := ctx.PageDict(page.Number, false)
		if err != nil || pageDict == nil {
			return nil, pdf.Wrap(pdf.KindMalformedDocument, "watermark", err, "page %d", page.Number)
		}

		shift, err := newContentStream(ctx, []byte(fmt.Sprintf("Q q 1 0 0 1 %.4f %.4f cm\n", page.MediaBox.LLX, page.MediaBox.LLY)))
		if err != nil {
			return nil, watermarkErr(err)
		}

		original, err := contentParts(ctx, pageDict)
		if err != nil {
			return nil, pdf.Wrap(pdf.KindMalformedDocument, "watermark", err, "page %d", page.Number)
		}

		contents := types.Array{*open}
		contents = append(contents, original...)
		contents = append(contents, *shift, *template, *closing)
		pageDict["Contents"] = contents

		var res types.Dict
		if inh != nil {
			res = inh.Resources
		}
		res = mergedResources(ctx, res, pageDict)
		res["Font"] = withEntry(ctx, res, "Font", fontName, *fontRef)
		res["ExtGState"] = withEntry(ctx, res, "ExtGState", gsName, *gsRef)
		pageDict["Resources"] = res
	}

	out, err := pdf.FromContext(ctx)
	if err != nil {
		return nil, watermarkErr(err)
	}
	return out, nil
}

func watermarkErr(err error) error {
	return pdf.Wrap(pdf.KindMalformedDocument, "watermark", err, "failed to apply watermark")
}

// watermarkNames picks a font and an ExtGState resource name that no page
// of the document uses yet, so the shared template resolves on every page.
func watermarkNames(ctx *model.Context, pageCount int) (string, string) {
	used := map[string]bool{}
	for n := 1; n <= pageCount; n++ {
		pageDict, _, inh, err := ctx.PageDict(n, false)
		if err != nil || pageDict == nil {
			continue
		}
		var res types.Dict
		if inh != nil {
			res = inh.Resources
		}
		res = mergedResources(ctx, res, pageDict)
		for _, category := range []string{"Font", "ExtGState"} {
			d, _ := ctx.DereferenceDict(res[category])
			for name := range d {
				used[category+"/"+name] = true
			}
		}
	}

	pick := func(category, base string) string {
		name := base
		for i := 1; used[category+"/"+name]; i++ {
			name = fmt.Sprintf("%s%d", base, i)
		}
		return name
	}
	return pick("Font", "WmF"), pick("ExtGState", "WmGS")
}

// mergedResources returns a private copy of the page's resource dictionary.
// Inherited entries are kept; the page's own entries win.
func mergedResources(ctx *model.Context, inherited types.Dict, pageDict types.Dict) types.Dict {
	res := types.Dict{}
	for k, v := range inherited {
		res[k] = v
	}
	if obj, found := pageDict.Find("Resources"); found {
		if own, err := ctx.DereferenceDict(obj); err == nil {
			for k, v := range own {
				res[k] = v
			}
		}
	}
	return res
}

// withEntry returns a copy of res[category] with name added
func withEntry(ctx *model.Context, res types.Dict, category, name string, obj types.Object) types.Dict {
	d := types.Dict{}
	if existing, err := ctx.DereferenceDict(res[category]); err == nil {
		for k, v := range existing {
			d[k] = v
		}
	}
	d[name] = obj
	return d
}

// contentParts returns the page's content streams as an array of references
func contentParts(ctx *model.Context, pageDict types.Dict) (types.Array, error) {
	obj, found := pageDict.Find("Contents")
	if !found || obj == nil {
		return nil, nil
	}

	if ref, ok := obj.(types.IndirectRef); ok {
		resolved, err := ctx.Dereference(ref)
		if err != nil {
			return nil, err
		}
		if arr, ok := resolved.(types.Array); ok {
			return arr, nil
		}
		return types.Array{ref}, nil
	}

	if arr, ok := obj.(types.Array); ok {
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected Contents type %T", obj)
}

func newContentStream(ctx *model.Context, content []byte) (*types.IndirectRef, error) {
	sd, err := ctx.NewStreamDictForBuf(content)
	if err != nil {
		return nil, err
	}
	if err := sd.Encode(); err != nil {
		return nil, err
	}
	return ctx.IndRefForNewObject(*sd)
}

// tileContent draws spec.Text on a grid covering [-h, w) x [-h, h). The
// grid starts one page height off the lower left corner so the rotated
// rows reach every corner whatever the aspect ratio.
func tileContent(spec WatermarkSpec, fontName, gsName string, w, h float64) []byte {
	rad := spec.Angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	text := pdfString(encodeWinAnsi(spec.Text))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "/%s gs %.2f g\n", gsName, spec.Gray)
	for x := -h; x < w; x += spec.Step {
		for y := -h; y < h; y += spec.Step {
			fmt.Fprintf(&buf, "q %.5f %.5f %.5f %.5f %.2f %.2f cm BT /%s %.1f Tf 0 0 Td %s Tj ET Q\n",
				cos, sin, -sin, cos, x, y, fontName, spec.FontSize, text)
		}
	}
	return buf.Bytes()
}

// encodeWinAnsi maps s to Windows-1252, the encoding of the watermark
// font. Characters outside it become '?'.
func encodeWinAnsi(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}

// pdfString writes b as a PDF literal string
func pdfString(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, c := range b {
		switch {
		case c == '(' || c == ')' || c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c < 0x20 || c > 0x7e:
			fmt.Fprintf(&sb, "\\%03o", c)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte(')')
	return sb.String()
}
