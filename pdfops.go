// Package pdfops provides stateless PDF transformations: merge, split,
// compress, watermark and conversions between PDF, images and office formats
package pdfops

import (
	"fmt"
	"os"

	"github.com/pyhub-apps/pdfops-golang/pkg/dispatch"
	"github.com/pyhub-apps/pdfops-golang/pkg/ops"
	"github.com/pyhub-apps/pdfops-golang/pkg/pdf"
)

// Re-export types for the public API
type (
	Document      = pdf.Document
	Page          = pdf.Page
	Resource      = pdf.Resource
	Error         = pdf.Error
	Kind          = pdf.Kind
	Result        = ops.Result
	WatermarkSpec = ops.WatermarkSpec
	Dispatcher    = dispatch.Dispatcher
	Config        = dispatch.Config
	Request       = dispatch.Request
	Response      = dispatch.Response
)

// Re-export operations
var (
	Read                   = pdf.Read
	HasImageContent        = pdf.HasImageContent
	Merge                  = ops.Merge
	MergeBytes             = ops.MergeBytes
	Split                  = ops.Split
	Compress               = ops.Compress
	Watermark              = ops.Watermark
	WatermarkWithSpec      = ops.WatermarkWithSpec
	NewWatermarkSpec       = ops.NewWatermarkSpec
	ImagesToDocument       = ops.ImagesToDocument
	DocumentToImages       = ops.DocumentToImages
	DocumentToJPEGBundle   = ops.DocumentToJPEGBundle
	DocumentToPresentation = ops.DocumentToPresentation
	DocumentToWordText     = ops.DocumentToWordText
	NewDispatcher          = dispatch.New
)

// Open reads a PDF file from disk
func Open(filepath string) (*Document, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath, err)
	}
	return pdf.Read(data)
}
