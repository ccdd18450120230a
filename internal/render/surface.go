// Package render paints the ECG trace onto a 2D drawing surface.
package render

import (
	"image/color"
	"math"
)

// TextAlign is the horizontal anchor of FillText.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// TextBaseline is the vertical anchor of FillText.
type TextBaseline int

const (
	BaselineTop TextBaseline = iota
	BaselineMiddle
	BaselineBottom
)

// Surface is a resizable 2D drawing target with canvas-style path state.
// Coordinates passed to drawing calls are logical units; the transform set
// by SetTransform maps them onto the backing store.
type Surface interface {
	// DisplaySize is the current on-screen size in logical units.
	DisplaySize() (w, h float64)
	// PixelRatio is the number of backing pixels per logical unit.
	PixelRatio() float64
	// BackingSize is the size of the pixel store.
	BackingSize() (w, h int)
	// Resize reallocates the pixel store and resets the transform.
	Resize(w, h int)
	// SetTransform scales logical coordinates by s.
	SetTransform(s float64)

	Clear(x, y, w, h float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadraticCurveTo(cx, cy, x, y float64)
	Stroke()

	SetStrokeColor(c color.Color)
	SetLineWidth(w float64)
	SetShadow(c color.Color, blur float64)

	SetFillColor(c color.Color)
	SetFont(font string)
	SetTextAlign(a TextAlign)
	SetTextBaseline(b TextBaseline)
	FillText(text string, x, y float64)
}

// Layout sizes the backing store of s to its display size times its pixel
// ratio. It only resizes when the size changed and reports whether it did.
func Layout(s Surface) bool {
	ratio := math.Max(1, s.PixelRatio())
	dw, dh := s.DisplaySize()
	pw := int(math.Floor(dw * ratio))
	ph := int(math.Floor(dh * ratio))

	bw, bh := s.BackingSize()
	if bw == pw && bh == ph {
		return false
	}
	s.Resize(pw, ph)
	s.SetTransform(ratio)
	return true
}
