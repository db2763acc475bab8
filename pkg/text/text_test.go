package text

import (
	"errors"
	"strings"
	"testing"

	lpdf "github.com/ledongthuc/pdf"

	"github.com/pyhub-apps/pdfops-golang/internal/pdftest"
)

func TestPages(t *testing.T) {
	texts, err := Pages(pdftest.Pages(3))
	if err != nil {
		t.Fatalf("Pages() failed: %v", err)
	}

	if len(texts) != 3 {
		t.Fatalf("Expected 3 pages, got %d", len(texts))
	}
	for i, s := range texts {
		want := pdftest.PageText(i + 1)
		if !strings.Contains(s, want) {
			t.Errorf("Page %d text %q does not contain %q", i+1, s, want)
		}
	}
}

func TestPagesWithoutText(t *testing.T) {
	texts, err := Pages(pdftest.Build(pdftest.Page{Image: true}))
	if err != nil {
		t.Fatalf("Pages() failed: %v", err)
	}
	if len(texts) != 1 {
		t.Fatalf("Expected 1 page, got %d", len(texts))
	}
	if strings.TrimSpace(texts[0]) != "" {
		t.Errorf("Expected no text, got %q", texts[0])
	}
}

func TestOpenGarbage(t *testing.T) {
	if _, err := Open([]byte("definitely not a pdf")); err == nil {
		t.Error("Expected an error")
	}
}

type fakeExtractor struct {
	pages map[int]string
	err   error
}

func (f fakeExtractor) NumPage() int { return len(f.pages) }

func (f fakeExtractor) PageText(n int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.pages[n], nil
}

func TestChainFallback(t *testing.T) {
	broken := errors.New("broken content stream")

	tests := []struct {
		name    string
		chain   *chain
		want    string
		wantErr bool
	}{
		{
			name: "primary wins",
			chain: &chain{extractors: []PageExtractor{
				fakeExtractor{pages: map[int]string{1: "primary"}},
				fakeExtractor{pages: map[int]string{1: "fallback"}},
			}},
			want: "primary",
		},
		{
			name: "primary empty",
			chain: &chain{extractors: []PageExtractor{
				fakeExtractor{pages: map[int]string{1: "  "}},
				fakeExtractor{pages: map[int]string{1: "fallback"}},
			}},
			want: "fallback",
		},
		{
			name: "primary fails",
			chain: &chain{extractors: []PageExtractor{
				fakeExtractor{pages: map[int]string{1: ""}, err: broken},
				fakeExtractor{pages: map[int]string{1: "fallback"}},
			}},
			want: "fallback",
		},
		{
			name: "all fail",
			chain: &chain{extractors: []PageExtractor{
				fakeExtractor{pages: map[int]string{1: ""}, err: broken},
				fakeExtractor{pages: map[int]string{1: ""}, err: broken},
			}},
			wantErr: true,
		},
		{
			name: "primary empty and fallback fails",
			chain: &chain{extractors: []PageExtractor{
				fakeExtractor{pages: map[int]string{1: ""}},
				fakeExtractor{pages: map[int]string{1: ""}, err: broken},
			}},
			want: "",
		},
		{
			name: "primary fails and fallback empty",
			chain: &chain{extractors: []PageExtractor{
				fakeExtractor{pages: map[int]string{1: ""}, err: broken},
				fakeExtractor{pages: map[int]string{1: " \n"}},
			}},
			want: "",
		},
		{
			name: "all empty",
			chain: &chain{extractors: []PageExtractor{
				fakeExtractor{pages: map[int]string{1: ""}},
				fakeExtractor{pages: map[int]string{1: ""}},
			}},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.chain.PageText(1)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PageText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("PageText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLedongthucBrokenReader(t *testing.T) {
	// a reader without a page tree must fail the page, not the process
	e := &ledongthucExtractor{reader: &lpdf.Reader{}}
	if _, err := e.PageText(1); err == nil {
		t.Error("Expected an error")
	}
}
