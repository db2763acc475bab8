// Package raster turns PDF pages into raster images through an external
// renderer.
package raster

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sort"
)

// DefaultDPI is the resolution pages are rendered at
const DefaultDPI = 200

// ImageSet is an ordered sequence of page images
type ImageSet []image.Image

// Rasterizer renders every page of a PDF, in page order
type Rasterizer interface {
	Rasterize(ctx context.Context, data []byte, dpi int) (ImageSet, error)
}

// RasterizerFunc adapts a function to the Rasterizer interface
type RasterizerFunc func(ctx context.Context, data []byte, dpi int) (ImageSet, error)

// Rasterize calls f
func (f RasterizerFunc) Rasterize(ctx context.Context, data []byte, dpi int) (ImageSet, error) {
	return f(ctx, data, dpi)
}

var registry = map[string]func() Rasterizer{
	"poppler": func() Rasterizer { return &Poppler{} },
}

// ByName returns a registered rasterizer. "poppler" is always available;
// "mupdf" only in builds with the mupdf tag.
func ByName(name string) (Rasterizer, error) {
	if name == "" {
		name = "poppler"
	}
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown rasterizer %q (available: %v)", name, Names())
	}
	return f(), nil
}

// Names lists the registered rasterizers
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ColorMode names the color model of img
func ColorMode(img image.Image) string {
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		return "Gray"
	case color.RGBAModel, color.RGBA64Model, color.NRGBAModel, color.NRGBA64Model:
		return "RGBA"
	case color.YCbCrModel, color.NYCbCrAModel:
		return "YCbCr"
	case color.CMYKModel:
		return "CMYK"
	case color.AlphaModel, color.Alpha16Model:
		return "Alpha"
	}
	if _, ok := img.ColorModel().(color.Palette); ok {
		return "Palette"
	}
	return "Other"
}
