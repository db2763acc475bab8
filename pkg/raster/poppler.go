package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pyhub-apps/pdfops-golang/pkg/pdf"
)

// Poppler renders pages with poppler's pdftoppm
type Poppler struct {
	// Path to the pdftoppm binary; looked up on PATH when empty
	Path string
}

func (p *Poppler) binary() (string, error) {
	bin := p.Path
	if bin == "" {
		bin = "pdftoppm"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", pdf.Wrap(pdf.KindUnavailableDependency, "rasterize", err, "%s not found", bin)
	}
	return path, nil
}

// Rasterize writes data to a private temp dir, renders it to PNG files and
// decodes them in page order. The temp dir is removed before returning.
func (p *Poppler) Rasterize(ctx context.Context, data []byte, dpi int) (ImageSet, error) {
	bin, err := p.binary()
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	dir, err := os.MkdirTemp("", "pdfops-raster-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(input, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write input: %w", err)
	}

	prefix := filepath.Join(dir, "page")
	cmd := exec.CommandContext(ctx, bin, "-r", strconv.Itoa(dpi), "-png", input, prefix)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, pdf.Wrap(pdf.KindMalformedDocument, "rasterize", err, "pdftoppm failed: %s", strings.TrimSpace(stderr.String()))
	}

	files, err := pageFiles(dir)
	if err != nil {
		return nil, err
	}

	images := make(ImageSet, 0, len(files))
	for _, f := range files {
		img, err := decodePNG(f.path)
		if err != nil {
			return nil, pdf.Wrap(pdf.KindMalformedDocument, "rasterize", err, "page %d could not be rendered", f.page)
		}
		images = append(images, img)
	}

	return images, nil
}

type pageFile struct {
	page int
	path string
}

// pageFiles lists pdftoppm's output files ordered by page number. pdftoppm
// zero-pads the number to the width of the page count, so a lexical sort is
// not reliable across naming variants.
func pageFiles(dir string) ([]pageFile, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "page-*.png"))
	if err != nil {
		return nil, err
	}

	files := make([]pageFile, 0, len(matches))
	for _, m := range matches {
		base := strings.TrimSuffix(filepath.Base(m), ".png")
		n, err := strconv.Atoi(base[strings.LastIndex(base, "-")+1:])
		if err != nil {
			continue
		}
		files = append(files, pageFile{page: n, path: m})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].page < files[j].page
	})
	return files, nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}
