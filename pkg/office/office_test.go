package office

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pyhub-apps/pdfops-golang/pkg/pdf"
)

func unzip(t *testing.T, data []byte) map[string][]byte {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Output is not a zip archive: %v", err)
	}

	parts := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("Failed to read %s: %v", f.Name, err)
		}
		parts[f.Name] = b
	}
	return parts
}

func wellFormed(t *testing.T, name string, data []byte) {
	t.Helper()
	d := xml.NewDecoder(bytes.NewReader(data))
	for {
		_, err := d.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			t.Fatalf("%s is not well-formed XML: %v", name, err)
		}
	}
}

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestWordDocument(t *testing.T) {
	var doc WordDocument
	doc.AddParagraph("Page 1")
	doc.AddParagraph("first line\nsecond <line> & more")

	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes() failed: %v", err)
	}

	parts := unzip(t, data)
	for _, name := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"} {
		b, ok := parts[name]
		if !ok {
			t.Fatalf("Missing part %s", name)
		}
		wellFormed(t, name, b)
	}

	body := string(parts["word/document.xml"])
	if got := strings.Count(body, "<w:p>"); got != 2 {
		t.Errorf("Expected 2 paragraphs, got %d", got)
	}
	if got := strings.Count(body, "<w:br/>"); got != 1 {
		t.Errorf("Expected 1 line break, got %d", got)
	}
	if !strings.Contains(body, "second &lt;line&gt; &amp; more") {
		t.Errorf("Text not escaped: %s", body)
	}
}

func TestWordDocumentEmpty(t *testing.T) {
	var doc WordDocument
	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes() failed: %v", err)
	}
	body := string(unzip(t, data)["word/document.xml"])
	if strings.Contains(body, "<w:p>") {
		t.Errorf("Expected no paragraphs, got %s", body)
	}
}

func TestPresentation(t *testing.T) {
	var p Presentation
	colors := []color.Color{color.White, color.Black, color.RGBA{R: 255, A: 255}}
	for _, c := range colors {
		if err := p.AddPictureSlide(solid(4, 3, c)); err != nil {
			t.Fatalf("AddPictureSlide() failed: %v", err)
		}
	}
	if p.SlideCount() != 3 {
		t.Fatalf("Expected 3 slides, got %d", p.SlideCount())
	}

	data, err := p.Bytes()
	if err != nil {
		t.Fatalf("Bytes() failed: %v", err)
	}
	parts := unzip(t, data)

	for name, b := range parts {
		if strings.HasSuffix(name, ".xml") || strings.HasSuffix(name, ".rels") {
			wellFormed(t, name, b)
		}
	}

	var slides, media []string
	for name := range parts {
		switch filepath.Dir(name) {
		case "ppt/slides":
			slides = append(slides, name)
		case "ppt/media":
			media = append(media, name)
		}
	}
	if len(slides) != 3 || len(media) != 3 {
		t.Fatalf("Expected 3 slides and 3 images, got %v and %v", slides, media)
	}

	pres := string(parts["ppt/presentation.xml"])
	if !strings.Contains(pres, `<p:sldSz cx="9144000" cy="6858000"`) {
		t.Errorf("Unexpected slide size: %s", pres)
	}

	// each picture covers the whole slide
	slide := string(parts["ppt/slides/slide2.xml"])
	if !strings.Contains(slide, `<a:off x="0" y="0"/><a:ext cx="9144000" cy="6858000"/>`) {
		t.Errorf("Picture does not fill the slide: %s", slide)
	}

	img, err := png.Decode(bytes.NewReader(parts["ppt/media/image2.png"]))
	if err != nil {
		t.Fatalf("Slide image is not a PNG: %v", err)
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("Slide 2 image is not black: %d %d %d", r, g, b)
	}
}

func TestPresentationRelationships(t *testing.T) {
	var p Presentation
	for i := 0; i < 2; i++ {
		if err := p.AddPictureSlide(solid(1, 1, color.White)); err != nil {
			t.Fatal(err)
		}
	}
	data, err := p.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	parts := unzip(t, data)

	type relationship struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	}
	var doc struct {
		Relationships []relationship `xml:"Relationship"`
	}
	if err := xml.Unmarshal(parts["ppt/_rels/presentation.xml.rels"], &doc); err != nil {
		t.Fatal(err)
	}

	want := []relationship{
		{"rId1", "slideMasters/slideMaster1.xml"},
		{"rId2", "slides/slide1.xml"},
		{"rId3", "slides/slide2.xml"},
		{"rId4", "theme/theme1.xml"},
	}
	if diff := cmp.Diff(want, doc.Relationships); diff != "" {
		t.Errorf("Relationships mismatch (-want +got):\n%s", diff)
	}

	// every relationship target exists in the package
	for _, r := range doc.Relationships {
		if _, ok := parts["ppt/"+r.Target]; !ok {
			t.Errorf("Relationship %s points at missing part %s", r.ID, r.Target)
		}
	}
}

func TestUnavailableConverter(t *testing.T) {
	_, err := Unavailable{}.Convert(context.Background(), []byte("x"), SourceWord)
	if !errors.Is(err, pdf.ErrUnavailableDependency) {
		t.Errorf("Expected UnavailableDependency, got %v", err)
	}
}

func TestSofficeMissingBinary(t *testing.T) {
	s := &Soffice{Path: filepath.Join(t.TempDir(), "no-such-soffice")}
	_, err := s.Convert(context.Background(), []byte("x"), SourcePresentation)
	if !errors.Is(err, pdf.ErrUnavailableDependency) {
		t.Errorf("Expected UnavailableDependency, got %v", err)
	}
}

func TestSourceKind(t *testing.T) {
	if SourcePresentation.Ext() != ".pptx" || SourceWord.Ext() != ".docx" {
		t.Errorf("Unexpected extensions %q %q", SourcePresentation.Ext(), SourceWord.Ext())
	}
}
