package pdf

import "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

// Rect is a rectangle in default user space (points, origin bottom-left)
type Rect struct {
	LLX, LLY float64
	URX, URY float64
}

// Width returns the width of the rectangle
func (r Rect) Width() float64 {
	return r.URX - r.LLX
}

// Height returns the height of the rectangle
func (r Rect) Height() float64 {
	return r.URY - r.LLY
}

// Letter is used when a page carries no usable MediaBox
var Letter = Rect{URX: 612, URY: 792}

func rectFrom(r *types.Rectangle) Rect {
	if r == nil || r.Width() <= 0 || r.Height() <= 0 {
		return Letter
	}
	return Rect{LLX: r.LL.X, LLY: r.LL.Y, URX: r.UR.X, URY: r.UR.Y}
}
