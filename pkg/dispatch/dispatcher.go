// Package dispatch is the entry point a request layer uses to run
// operations by name and turn their results and failures into responses.
package dispatch

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pyhub-apps/pdfops-golang/pkg/office"
	"github.com/pyhub-apps/pdfops-golang/pkg/ops"
	"github.com/pyhub-apps/pdfops-golang/pkg/pdf"
	"github.com/pyhub-apps/pdfops-golang/pkg/raster"
)

// Config holds the collaborators chosen at startup
type Config struct {
	// Rasterizer renders pages for pdf2jpeg and pdf2ppt. Defaults to poppler.
	Rasterizer raster.Rasterizer

	// Converter handles ppt2pdf and word2pdf. Defaults to office.Unavailable.
	Converter office.Converter

	// DPI for rasterized pages; raster.DefaultDPI when zero
	DPI int

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Rasterizer == nil {
		c.Rasterizer = &raster.Poppler{}
	}
	if c.Converter == nil {
		c.Converter = office.Unavailable{}
	}
	if c.DPI <= 0 {
		c.DPI = raster.DefaultDPI
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Request carries the uploaded files, in upload order, and the form fields
type Request struct {
	Files [][]byte
	Form  map[string]string
}

// Operation runs one named transformation
type Operation func(ctx context.Context, d *Dispatcher, req Request) (*ops.Result, error)

// Dispatcher runs operations by name
type Dispatcher struct {
	cfg        Config
	logger     *slog.Logger
	operations map[string]Operation
}

// New creates a Dispatcher with every built-in operation registered
func New(cfg Config) *Dispatcher {
	cfg.defaults()
	return &Dispatcher{
		cfg:    cfg,
		logger: cfg.Logger,
		operations: map[string]Operation{
			"merge":     runMerge,
			"split":     runSplit,
			"compress":  runCompress,
			"watermark": runWatermark,
			"image2pdf": runImageToPDF,
			"pdf2jpeg":  runPDFToJPEG,
			"pdf2ppt":   runPDFToPresentation,
			"pdf2word":  runPDFToWord,
			"ppt2pdf":   runOfficeToPDF(office.SourcePresentation),
			"word2pdf":  runOfficeToPDF(office.SourceWord),
		},
	}
}

// Operations lists the registered operation names
func (d *Dispatcher) Operations() []string {
	names := make([]string, 0, len(d.operations))
	for name := range d.operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the named operation
func (d *Dispatcher) Invoke(ctx context.Context, name string, req Request) (*ops.Result, error) {
	op, ok := d.operations[name]
	if !ok {
		return nil, &UnknownOperationError{Name: name}
	}

	start := time.Now()
	res, err := op(ctx, d, req)
	if err != nil {
		kind := pdf.KindOf(err)
		level := slog.LevelError
		if kind.IsValidation() {
			level = slog.LevelWarn
		}
		d.logger.Log(ctx, level, "operation failed",
			"operation", name,
			"kind", kind.String(),
			"duration", time.Since(start),
			"error", err)
		return nil, err
	}

	d.logger.Info("operation completed",
		"operation", name,
		"files", len(req.Files),
		"filename", res.Filename,
		"duration", time.Since(start))
	return res, nil
}

// UnknownOperationError is returned by Invoke for an unregistered name
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return "unknown operation " + strconv.Quote(e.Name)
}

func singleFile(op string, req Request) ([]byte, error) {
	if len(req.Files) == 0 || len(req.Files[0]) == 0 {
		return nil, pdf.Errorf(pdf.KindMissingInput, op, "no file uploaded")
	}
	return req.Files[0], nil
}

func readSingle(op string, req Request) (*pdf.Document, error) {
	data, err := singleFile(op, req)
	if err != nil {
		return nil, err
	}
	return pdf.Read(data)
}

func intField(op string, req Request, key string) (int, error) {
	v, ok := req.Form[key]
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return 0, pdf.Errorf(pdf.KindMissingInput, op, "missing %s", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, pdf.Wrap(pdf.KindInvalidParameter, op, err, "%s must be an integer", key)
	}
	return n, nil
}

func runMerge(ctx context.Context, d *Dispatcher, req Request) (*ops.Result, error) {
	doc, err := ops.MergeBytes(req.Files)
	if err != nil {
		return nil, err
	}
	return ops.DocumentResult(doc, "merged.pdf"), nil
}

func runSplit(ctx context.Context, d *Dispatcher, req Request) (*ops.Result, error) {
	data, err := singleFile("split", req)
	if err != nil {
		return nil, err
	}
	start, err := intField("split", req, "start")
	if err != nil {
		return nil, err
	}
	end, err := intField("split", req, "end")
	if err != nil {
		return nil, err
	}

	doc, err := pdf.Read(data)
	if err != nil {
		return nil, err
	}
	out, err := ops.Split(doc, start, end)
	if err != nil {
		return nil, err
	}
	return ops.DocumentResult(out, "split.pdf"), nil
}

func runCompress(ctx context.Context, d *Dispatcher, req Request) (*ops.Result, error) {
	doc, err := readSingle("compress", req)
	if err != nil {
		return nil, err
	}
	out, err := ops.Compress(doc)
	if err != nil {
		return nil, err
	}
	return ops.DocumentResult(out, "compressed.pdf"), nil
}

func runWatermark(ctx context.Context, d *Dispatcher, req Request) (*ops.Result, error) {
	data, err := singleFile("watermark", req)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(req.Form["watermark_text"])
	if text == "" {
		return nil, pdf.Errorf(pdf.KindEmptyWatermarkText, "watermark", "no watermark text provided")
	}

	doc, err := pdf.Read(data)
	if err != nil {
		return nil, err
	}
	out, err := ops.Watermark(doc, text)
	if err != nil {
		return nil, err
	}
	return ops.DocumentResult(out, "watermarked.pdf"), nil
}

func runImageToPDF(ctx context.Context, d *Dispatcher, req Request) (*ops.Result, error) {
	doc, err := ops.ImagesToDocument(req.Files)
	if err != nil {
		return nil, err
	}
	return ops.DocumentResult(doc, "converted.pdf"), nil
}

func runPDFToJPEG(ctx context.Context, d *Dispatcher, req Request) (*ops.Result, error) {
	doc, err := readSingle("pdf2jpeg", req)
	if err != nil {
		return nil, err
	}
	entries, err := ops.DocumentToJPEGBundle(ctx, d.cfg.Rasterizer, doc, d.cfg.DPI)
	if err != nil {
		return nil, err
	}
	return ops.BundleResult(entries, "pdf_images.zip"), nil
}

func runPDFToPresentation(ctx context.Context, d *Dispatcher, req Request) (*ops.Result, error) {
	doc, err := readSingle("pdf2ppt", req)
	if err != nil {
		return nil, err
	}
	data, err := ops.DocumentToPresentation(ctx, d.cfg.Rasterizer, doc, d.cfg.DPI)
	if err != nil {
		return nil, err
	}
	return &ops.Result{Data: data, MediaType: ops.PptxMediaType, Filename: "converted.pptx"}, nil
}

func runPDFToWord(ctx context.Context, d *Dispatcher, req Request) (*ops.Result, error) {
	doc, err := readSingle("pdf2word", req)
	if err != nil {
		return nil, err
	}
	data, err := ops.DocumentToWordText(doc)
	if err != nil {
		return nil, err
	}
	return &ops.Result{Data: data, MediaType: ops.DocxMediaType, Filename: "converted.docx"}, nil
}

func runOfficeToPDF(kind office.SourceKind) Operation {
	return func(ctx context.Context, d *Dispatcher, req Request) (*ops.Result, error) {
		// an absent converter is reported before looking at the upload
		if _, ok := d.cfg.Converter.(office.Unavailable); ok {
			return nil, pdf.Errorf(pdf.KindUnavailableDependency, "convert", "no %s converter configured", kind)
		}
		data, err := singleFile("convert", req)
		if err != nil {
			return nil, err
		}
		doc, err := ops.OfficeToDocument(ctx, d.cfg.Converter, data, kind)
		if err != nil {
			return nil, err
		}
		return ops.DocumentResult(doc, "converted.pdf"), nil
	}
}
