// Package office reads and writes office documents: it writes .pptx and
// .docx packages directly and converts office files to PDF through an
// external converter.
package office

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pyhub-apps/pdfops-golang/pkg/pdf"
)

// SourceKind identifies the office format handed to a Converter
type SourceKind int

const (
	SourcePresentation SourceKind = iota
	SourceWord
)

// Ext returns the file extension for the kind
func (k SourceKind) Ext() string {
	if k == SourceWord {
		return ".docx"
	}
	return ".pptx"
}

func (k SourceKind) String() string {
	if k == SourceWord {
		return "word"
	}
	return "presentation"
}

// Converter turns an office document into PDF bytes
type Converter interface {
	Convert(ctx context.Context, data []byte, kind SourceKind) ([]byte, error)
}

// Unavailable is the converter used when no office suite is configured
type Unavailable struct{}

// Convert always fails with UnavailableDependency
func (Unavailable) Convert(ctx context.Context, data []byte, kind SourceKind) ([]byte, error) {
	return nil, pdf.Errorf(pdf.KindUnavailableDependency, "convert", "no %s converter configured", kind)
}

// Soffice converts with a headless LibreOffice
type Soffice struct {
	// Path to the soffice binary; looked up on PATH when empty
	Path string
}

// Convert runs soffice --convert-to pdf inside a private temp dir that is
// removed before returning.
func (s *Soffice) Convert(ctx context.Context, data []byte, kind SourceKind) ([]byte, error) {
	bin := s.Path
	if bin == "" {
		bin = "soffice"
	}
	bin, err := exec.LookPath(bin)
	if err != nil {
		return nil, pdf.Wrap(pdf.KindUnavailableDependency, "convert", err, "soffice not found")
	}
	if len(data) == 0 {
		return nil, pdf.Errorf(pdf.KindMissingInput, "convert", "empty %s document", kind)
	}

	dir, err := os.MkdirTemp("", "pdfops-office-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input"+kind.Ext())
	if err := os.WriteFile(input, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write input: %w", err)
	}

	// A per-call profile keeps concurrent conversions from fighting over
	// the user's LibreOffice lock.
	profile := "-env:UserInstallation=file://" + filepath.ToSlash(filepath.Join(dir, "profile"))
	cmd := exec.CommandContext(ctx, bin, profile, "--headless", "--convert-to", "pdf", "--outdir", dir, input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, pdf.Wrap(pdf.KindMalformedDocument, "convert", err, "soffice failed: %s", strings.TrimSpace(stderr.String()))
	}

	out, err := os.ReadFile(filepath.Join(dir, "input.pdf"))
	if err != nil {
		return nil, pdf.Wrap(pdf.KindMalformedDocument, "convert", err, "soffice produced no output")
	}
	return out, nil
}
