// Package rendertest provides a Surface that records drawing calls.
package rendertest

import (
	"image/color"

	"github.com/daviddao/ecgmon/internal/render"
)

// Path is one stroked path and the state it was stroked with.
type Path struct {
	Points []Point
	Color  color.Color
	Width  float64
	Glow   color.Color
	Blur   float64
}

// Point is a path vertex. Curve marks the end point of a quadratic segment.
type Point struct {
	X, Y  float64
	Curve bool
}

// Text is one FillText call.
type Text struct {
	S     string
	X, Y  float64
	Color color.Color
	Align render.TextAlign
	Base  render.TextBaseline
}

// Recorder is an in-memory render.Surface.
type Recorder struct {
	Width, Height float64
	Ratio         float64

	BackW, BackH int
	Scale        float64

	Resizes    int
	Transforms int
	Clears     int
	Strokes    []Path
	Texts      []Text

	cur    []Point
	stroke color.Color
	fill   color.Color
	width  float64
	glow   color.Color
	blur   float64
	align  render.TextAlign
	base   render.TextBaseline
}

// New returns a Recorder with the given display size and pixel ratio.
func New(w, h, ratio float64) *Recorder {
	return &Recorder{Width: w, Height: h, Ratio: ratio, Scale: 1}
}

// Reset drops recorded strokes and texts but keeps size state.
func (r *Recorder) Reset() {
	r.Clears = 0
	r.Strokes = nil
	r.Texts = nil
}

func (r *Recorder) DisplaySize() (float64, float64) { return r.Width, r.Height }
func (r *Recorder) PixelRatio() float64             { return r.Ratio }
func (r *Recorder) BackingSize() (int, int)         { return r.BackW, r.BackH }

func (r *Recorder) Resize(w, h int) {
	r.BackW, r.BackH = w, h
	r.Scale = 1
	r.Resizes++
}

func (r *Recorder) SetTransform(s float64) {
	r.Scale = s
	r.Transforms++
}

func (r *Recorder) Clear(x, y, w, h float64) { r.Clears++ }

func (r *Recorder) BeginPath()          { r.cur = nil }
func (r *Recorder) MoveTo(x, y float64) { r.cur = append(r.cur, Point{X: x, Y: y}) }
func (r *Recorder) LineTo(x, y float64) { r.cur = append(r.cur, Point{X: x, Y: y}) }

func (r *Recorder) QuadraticCurveTo(cx, cy, x, y float64) {
	r.cur = append(r.cur, Point{X: x, Y: y, Curve: true})
}

func (r *Recorder) Stroke() {
	pts := make([]Point, len(r.cur))
	copy(pts, r.cur)
	r.Strokes = append(r.Strokes, Path{
		Points: pts,
		Color:  r.stroke,
		Width:  r.width,
		Glow:   r.glow,
		Blur:   r.blur,
	})
}

func (r *Recorder) SetStrokeColor(c color.Color) { r.stroke = c }
func (r *Recorder) SetLineWidth(w float64)       { r.width = w }

func (r *Recorder) SetShadow(c color.Color, blur float64) {
	r.glow, r.blur = c, blur
}

func (r *Recorder) SetFillColor(c color.Color)            { r.fill = c }
func (r *Recorder) SetFont(string)                        {}
func (r *Recorder) SetTextAlign(a render.TextAlign)       { r.align = a }
func (r *Recorder) SetTextBaseline(b render.TextBaseline) { r.base = b }

func (r *Recorder) FillText(s string, x, y float64) {
	r.Texts = append(r.Texts, Text{S: s, X: x, Y: y, Color: r.fill, Align: r.align, Base: r.base})
}

// StrokesWithBlur returns strokes drawn with a glow, which are trace runs.
func (r *Recorder) StrokesWithBlur() []Path {
	var out []Path
	for _, p := range r.Strokes {
		if p.Blur > 0 {
			out = append(out, p)
		}
	}
	return out
}

var _ render.Surface = (*Recorder)(nil)
