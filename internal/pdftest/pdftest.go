// Package pdftest builds small, valid PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Page describes one page of a generated document
type Page struct {
	// Text is drawn once in Helvetica near the top of the page
	Text string

	// Width and Height default to US Letter
	Width, Height float64

	// Image draws a 2x2 RGB image XObject on the page
	Image bool

	// FormImage draws the same image through a form XObject
	FormImage bool

	// BrokenXObject adds an XObject entry /Bad that points at a plain
	// dictionary instead of a stream
	BrokenXObject bool
}

// PageText is the text Pages puts on page n
func PageText(n int) string {
	return fmt.Sprintf("Page %d", n)
}

// Pages builds a text-only document with n pages labelled "Page 1".."Page n"
func Pages(n int) []byte {
	pages := make([]Page, n)
	for i := range pages {
		pages[i] = Page{Text: PageText(i + 1)}
	}
	return Build(pages...)
}

// WithImage builds a one page document that embeds a raster image
func WithImage(text string) []byte {
	return Build(Page{Text: text, Image: true})
}

type builder struct {
	buf     bytes.Buffer
	offsets []int
}

func (b *builder) next() int {
	b.offsets = append(b.offsets, 0)
	return len(b.offsets)
}

func (b *builder) object(num int, body string) {
	b.offsets[num-1] = b.buf.Len()
	fmt.Fprintf(&b.buf, "%d 0 obj\n%s\nendobj\n", num, body)
}

func (b *builder) stream(num int, dict string, data []byte) {
	b.offsets[num-1] = b.buf.Len()
	fmt.Fprintf(&b.buf, "%d 0 obj\n<< %s /Length %d >>\nstream\n", num, dict, len(data))
	b.buf.Write(data)
	b.buf.WriteString("\nendstream\nendobj\n")
}

// Build assembles a PDF with one page per entry
func Build(pages ...Page) []byte {
	b := &builder{}
	b.buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	catalog := b.next()
	pagesNum := b.next()
	font := b.next()

	b.object(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesNum))
	b.object(font, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	var kids []string
	for _, p := range pages {
		w, h := p.Width, p.Height
		if w <= 0 || h <= 0 {
			w, h = 612, 792
		}

		var content strings.Builder
		xobjects := map[string]int{}

		if p.Image || p.FormImage {
			img := b.next()
			b.stream(img, "/Type /XObject /Subtype /Image /Width 2 /Height 2 /ColorSpace /DeviceRGB /BitsPerComponent 8",
				[]byte{255, 0, 0, 0, 255, 0, 0, 0, 255, 255, 255, 255})
			if p.Image {
				xobjects["Im1"] = img
				content.WriteString("q 100 0 0 100 72 400 cm /Im1 Do Q\n")
			}
			if p.FormImage {
				form := b.next()
				b.stream(form, fmt.Sprintf("/Type /XObject /Subtype /Form /BBox [0 0 1 1] /Resources << /XObject << /Im1 %d 0 R >> >>", img),
					[]byte("/Im1 Do"))
				xobjects["Fm1"] = form
				content.WriteString("q 100 0 0 100 72 250 cm /Fm1 Do Q\n")
			}
		}

		if p.BrokenXObject {
			bad := b.next()
			b.object(bad, "<< /NotAStream true >>")
			xobjects["Bad"] = bad
		}

		if p.Text != "" {
			fmt.Fprintf(&content, "BT /F1 24 Tf 72 %.0f Td (%s) Tj ET\n", h-92, escape(p.Text))
		}

		contentNum := b.next()
		b.stream(contentNum, "", []byte(content.String()))

		res := fmt.Sprintf("/Font << /F1 %d 0 R >>", font)
		if len(xobjects) > 0 {
			var xs []string
			for _, name := range []string{"Im1", "Fm1", "Bad"} {
				if num, ok := xobjects[name]; ok {
					xs = append(xs, fmt.Sprintf("/%s %d 0 R", name, num))
				}
			}
			res += " /XObject << " + strings.Join(xs, " ") + " >>"
		}

		pageNum := b.next()
		b.object(pageNum, fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %.0f %.0f] /Resources << %s >> /Contents %d 0 R >>",
			pagesNum, w, h, res, contentNum))
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNum))
	}

	b.object(pagesNum, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids)))

	xref := b.buf.Len()
	fmt.Fprintf(&b.buf, "xref\n0 %d\n", len(b.offsets)+1)
	b.buf.WriteString("0000000000 65535 f \n")
	for _, off := range b.offsets {
		fmt.Fprintf(&b.buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b.buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(b.offsets)+1, catalog, xref)

	return b.buf.Bytes()
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
