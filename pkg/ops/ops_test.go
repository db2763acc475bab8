package ops

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pyhub-apps/pdfops-golang/internal/pdftest"
	"github.com/pyhub-apps/pdfops-golang/pkg/pdf"
)

func read(t *testing.T, data []byte) *pdf.Document {
	t.Helper()
	doc, err := pdf.Read(data)
	if err != nil {
		t.Fatalf("Failed to read PDF: %v", err)
	}
	return doc
}

// contents returns the decoded content of every page
func contents(t *testing.T, doc *pdf.Document) []string {
	t.Helper()
	out := make([]string, doc.PageCount())
	for i, page := range doc.Pages() {
		c, err := page.Content()
		if err != nil {
			t.Fatalf("Failed to read content of page %d: %v", i+1, err)
		}
		out[i] = string(c)
	}
	return out
}

func TestMerge(t *testing.T) {
	a := read(t, pdftest.Pages(3))
	b := read(t, pdftest.Build(pdftest.Page{Text: "Second A"}, pdftest.Page{Text: "Second B"}))

	merged, err := Merge([]*pdf.Document{a, b})
	if err != nil {
		t.Fatalf("Merge() failed: %v", err)
	}
	if merged.PageCount() != 5 {
		t.Fatalf("Expected 5 pages, got %d", merged.PageCount())
	}

	want := append(contents(t, a), contents(t, b)...)
	if diff := cmp.Diff(want, contents(t, merged)); diff != "" {
		t.Errorf("Merged pages mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeInsufficientInput(t *testing.T) {
	one := read(t, pdftest.Pages(1))

	for _, docs := range [][]*pdf.Document{nil, {}, {one}} {
		_, err := Merge(docs)
		if !errors.Is(err, pdf.ErrInsufficientInput) {
			t.Errorf("Merge(%d docs): expected InsufficientInput, got %v", len(docs), err)
		}
	}

	if _, err := MergeBytes([][]byte{pdftest.Pages(1)}); !errors.Is(err, pdf.ErrInsufficientInput) {
		t.Errorf("MergeBytes: expected InsufficientInput, got %v", err)
	}
}

func TestMergeBytesMalformed(t *testing.T) {
	_, err := MergeBytes([][]byte{pdftest.Pages(1), []byte("garbage")})
	if !errors.Is(err, pdf.ErrMalformedDocument) {
		t.Fatalf("Expected MalformedDocument, got %v", err)
	}
	if !strings.Contains(err.Error(), "document 2") {
		t.Errorf("Error does not name the bad input: %v", err)
	}
}

func TestSplitAllRanges(t *testing.T) {
	const n = 4
	doc := read(t, pdftest.Pages(n))
	all := contents(t, doc)

	for start := 1; start <= n; start++ {
		for end := start; end <= n; end++ {
			out, err := Split(doc, start, end)
			if err != nil {
				t.Fatalf("Split(%d, %d) failed: %v", start, end, err)
			}
			if diff := cmp.Diff(all[start-1:end], contents(t, out)); diff != "" {
				t.Errorf("Split(%d, %d) mismatch (-want +got):\n%s", start, end, diff)
			}
		}
	}
}

func TestSplitExample(t *testing.T) {
	doc := read(t, pdftest.Pages(10))

	out, err := Split(doc, 3, 5)
	if err != nil {
		t.Fatalf("Split() failed: %v", err)
	}
	if out.PageCount() != 3 {
		t.Fatalf("Expected 3 pages, got %d", out.PageCount())
	}
	for i, c := range contents(t, out) {
		want := pdftest.PageText(i + 3)
		if !strings.Contains(c, want) {
			t.Errorf("Page %d does not contain %q", i+1, want)
		}
	}
}

func TestSplitInvalidRange(t *testing.T) {
	doc := read(t, pdftest.Pages(10))

	tests := []struct {
		name          string
		start, end    int
		wantPageCount int
	}{
		{"start zero", 0, 5, 0},
		{"negative start", -1, 5, 0},
		{"end before start", 5, 4, 0},
		{"end past last page", 3, 11, 10},
		// the start check runs first
		{"start zero and end past last page", 0, 11, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split(doc, tt.start, tt.end)
			if !errors.Is(err, pdf.ErrInvalidRange) {
				t.Fatalf("Expected InvalidRange, got %v", err)
			}
			var e *pdf.Error
			if !errors.As(err, &e) {
				t.Fatalf("Expected *pdf.Error, got %T", err)
			}
			if e.PageCount != tt.wantPageCount {
				t.Errorf("PageCount = %d, want %d", e.PageCount, tt.wantPageCount)
			}
		})
	}
}

func TestCompressRefusesImages(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"embedded photo", pdftest.WithImage("lots of text")},
		{"image through form", pdftest.Build(pdftest.Page{Text: "form", FormImage: true})},
		{"image on last page", pdftest.Build(pdftest.Page{Text: "one"}, pdftest.Page{Text: "two"}, pdftest.Page{Image: true})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compress(read(t, tt.data))
			if !errors.Is(err, pdf.ErrUnsupportedForImageContent) {
				t.Errorf("Expected UnsupportedForImageContent, got %v", err)
			}
		})
	}
}

func TestCompressPreservesPages(t *testing.T) {
	doc := read(t, pdftest.Pages(5))

	out, err := Compress(doc)
	if err != nil {
		t.Fatalf("Compress() failed: %v", err)
	}
	if diff := cmp.Diff(contents(t, doc), contents(t, out)); diff != "" {
		t.Errorf("Compressed pages mismatch (-want +got):\n%s", diff)
	}
}

func TestWatermarkBlankText(t *testing.T) {
	doc := read(t, pdftest.Pages(1))
	for _, text := range []string{"", " ", "\t\n "} {
		_, err := Watermark(doc, text)
		if !errors.Is(err, pdf.ErrEmptyWatermarkText) {
			t.Errorf("Watermark(%q): expected EmptyWatermarkText, got %v", text, err)
		}
	}
}

func TestWatermarkPreservesContent(t *testing.T) {
	doc := read(t, pdftest.Build(
		pdftest.Page{Text: "Letter"},
		pdftest.Page{Text: "A4", Width: 595, Height: 842},
		pdftest.Page{Text: "Landscape", Width: 842, Height: 595, Image: true},
	))

	out, err := Watermark(doc, "CONFIDENTIAL")
	if err != nil {
		t.Fatalf("Watermark() failed: %v", err)
	}
	if out.PageCount() != doc.PageCount() {
		t.Fatalf("Expected %d pages, got %d", doc.PageCount(), out.PageCount())
	}

	before := contents(t, doc)
	after := contents(t, out)
	for i := range before {
		if !strings.Contains(after[i], before[i]) {
			t.Errorf("Page %d lost its original content", i+1)
		}
		if !strings.Contains(after[i], "(CONFIDENTIAL) Tj") {
			t.Errorf("Page %d has no watermark", i+1)
		}
		if strings.Index(after[i], before[i]) > strings.Index(after[i], "(CONFIDENTIAL)") {
			t.Errorf("Page %d: watermark is drawn below the original content", i+1)
		}
	}

	for _, page := range out.Pages() {
		var font, gs bool
		for _, r := range page.Resources {
			font = font || (r.Category == "Font" && r.Name == "WmF")
			gs = gs || (r.Category == "ExtGState" && r.Name == "WmGS")
		}
		if !font || !gs {
			t.Errorf("Page %d is missing watermark resources: %+v", page.Number, page.Resources)
		}
	}

	if !pdf.HasImageContent(out) {
		t.Error("Watermark dropped the image resource")
	}
}

func TestTileContentCoversPage(t *testing.T) {
	spec := NewWatermarkSpec("x")
	content := string(tileContent(spec, "F", "GS", 612, 792))

	// x in [-792, 612) and y in [-792, 792) at a 150pt step
	if got := strings.Count(content, " Tj "); got != 10*11 {
		t.Errorf("Expected 110 tiles, got %d", got)
	}
	if !strings.HasPrefix(content, "/GS gs 0.50 g\n") {
		t.Errorf("Unexpected graphics state: %q", content[:20])
	}
	if !strings.Contains(content, "q 0.70711 0.70711 -0.70711 0.70711 -792.00 -792.00 cm BT /F 20.0 Tf") {
		t.Errorf("First tile not at the off-page origin")
	}
}

func TestEncodeWinAnsi(t *testing.T) {
	got := pdfString(encodeWinAnsi("café (draft) \\ ✓"))
	want := `(caf\351 \(draft\) \\ ?)`
	if got != want {
		t.Errorf("pdfString() = %s, want %s", got, want)
	}
}

func TestWordText(t *testing.T) {
	doc := read(t, pdftest.Build(
		pdftest.Page{Text: "First page"},
		pdftest.Page{Image: true},
		pdftest.Page{Text: "Third page"},
	))

	word, err := WordTextDocument(doc)
	if err != nil {
		t.Fatalf("WordTextDocument() failed: %v", err)
	}

	paragraphs := word.Paragraphs()
	if len(paragraphs) != 2 {
		t.Fatalf("Expected 2 paragraphs, got %q", paragraphs)
	}
	if !strings.Contains(paragraphs[0], "First page") || !strings.Contains(paragraphs[1], "Third page") {
		t.Errorf("Unexpected paragraphs %q", paragraphs)
	}

	data, err := DocumentToWordText(doc)
	if err != nil {
		t.Fatalf("DocumentToWordText() failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("Empty .docx")
	}
}

func TestCompressDamagedResource(t *testing.T) {
	doc := read(t, pdftest.Build(
		pdftest.Page{Text: "intact"},
		pdftest.Page{Text: "damaged", BrokenXObject: true},
	))

	out, err := Compress(doc)
	if err != nil {
		t.Fatalf("Compress() failed: %v", err)
	}
	if diff := cmp.Diff(contents(t, doc), contents(t, out)); diff != "" {
		t.Errorf("Compressed pages mismatch (-want +got):\n%s", diff)
	}
}
