package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/pyhub-apps/pdfops-golang/pkg/dispatch"
	"github.com/pyhub-apps/pdfops-golang/pkg/office"
	"github.com/pyhub-apps/pdfops-golang/pkg/raster"
)

// formFlag collects repeated -set key=value flags
type formFlag map[string]string

func (f formFlag) String() string {
	pairs := make([]string, 0, len(f))
	for k, v := range f {
		pairs = append(pairs, k+"="+v)
	}
	return strings.Join(pairs, ",")
}

func (f formFlag) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	f[k] = v
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: pdfops [flags] <operation> <file>...")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Examples:")
	fmt.Fprintln(os.Stderr, "  pdfops merge a.pdf b.pdf")
	fmt.Fprintln(os.Stderr, "  pdfops -set start=3 -set end=5 split doc.pdf")
	fmt.Fprintln(os.Stderr, "  pdfops -set watermark_text=DRAFT watermark doc.pdf")
	fmt.Fprintln(os.Stderr, "  pdfops -out pages.zip pdf2jpeg doc.pdf")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func main() {
	form := formFlag{}
	var (
		dpi        = flag.Int("dpi", raster.DefaultDPI, "resolution for rasterized pages")
		rasterizer = flag.String("rasterizer", "poppler", "page renderer: "+strings.Join(raster.Names(), ", "))
		pdftoppm   = flag.String("pdftoppm", os.Getenv("PDFOPS_PDFTOPPM"), "path to pdftoppm (env PDFOPS_PDFTOPPM)")
		soffice    = flag.String("soffice", os.Getenv("PDFOPS_SOFFICE"), "path to soffice; office conversions are disabled when empty (env PDFOPS_SOFFICE)")
		out        = flag.String("out", "", "output file; defaults to the operation's file name, - for stdout")
		verbose    = flag.Bool("v", false, "log debug output")
	)
	flag.Var(form, "set", "form field as key=value (repeatable)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := dispatch.Config{DPI: *dpi, Logger: logger}

	r, err := raster.ByName(*rasterizer)
	if err != nil {
		log.Fatalf("Invalid rasterizer: %v", err)
	}
	if p, ok := r.(*raster.Poppler); ok {
		p.Path = *pdftoppm
	}
	cfg.Rasterizer = r

	if *soffice != "" {
		cfg.Converter = &office.Soffice{Path: *soffice}
	}

	operation := flag.Arg(0)
	req := dispatch.Request{Form: form}
	for _, path := range flag.Args()[1:] {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", path, err)
		}
		req.Files = append(req.Files, data)
	}

	resp := dispatch.New(cfg).Serve(context.Background(), operation, req)
	if resp.Status != http.StatusOK {
		fmt.Fprintf(os.Stderr, "%s failed (%d): %s\n", operation, resp.Status, resp.Message)
		os.Exit(1)
	}

	if err := write(*out, resp); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
}

func write(out string, resp dispatch.Response) error {
	if out == "-" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("refusing to write %s to a terminal", resp.MediaType)
		}
		_, err := os.Stdout.Write(resp.Body)
		return err
	}

	if out == "" {
		out = resp.Filename
	}
	if err := os.WriteFile(out, resp.Body, 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d bytes)\n", filepath.Clean(out), len(resp.Body))
	return nil
}
