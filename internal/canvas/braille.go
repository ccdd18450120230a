// Package canvas implements render.Surface on a grid of terminal cells.
//
// Each cell holds a 2x4 braille pattern, so one cell is two dots wide and
// four dots tall. A logical unit is one cell wide and half a cell tall; with
// the fixed pixel ratio of 2 that maps every logical unit onto a 2x2 block of
// dots. Colors are tracked per cell: the last stroke to touch a cell wins.
package canvas

import (
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/daviddao/ecgmon/internal/render"
	"github.com/daviddao/ecgmon/internal/theme"
)

const (
	dotsX = 2
	dotsY = 4

	// PixelRatio is the number of dots per logical unit on both axes.
	PixelRatio = 2

	brailleBase = 0x2800
	curveSteps  = 8
)

var dotBits = [dotsY][dotsX]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

type cell struct {
	dots uint8
	fg   colorful.Color

	tinted bool
	tint   colorful.Color

	text   rune
	textFG colorful.Color
	bold   bool
}

type point struct{ x, y float64 }

type segment struct{ a, b point }

// Canvas is a braille drawing surface. It is not safe for concurrent use.
type Canvas struct {
	cols, rows int

	backW, backH int
	gridW, gridH int
	cells        []cell
	scale        float64

	bg colorful.Color

	segs   []segment
	pen    point
	hasPen bool

	stroke color.Color
	width  float64
	glow   color.Color
	blur   float64
	fill   color.Color
	bold   bool
	align  render.TextAlign
	base   render.TextBaseline
}

// New returns a canvas covering cols x rows terminal cells. The backing store
// is allocated on the first render.Layout.
func New(cols, rows int) *Canvas {
	bg, _ := theme.ParseColor(theme.FallbackBackground)
	c := &Canvas{scale: 1, width: 1, bg: bg}
	c.SetSize(cols, rows)
	return c
}

// SetSize changes the on-screen size in cells. The backing store follows on
// the next render.Layout.
func (c *Canvas) SetSize(cols, rows int) {
	c.cols = max(cols, 0)
	c.rows = max(rows, 0)
}

// Size returns the on-screen size in cells.
func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

// IsNil lets an engine treat a nil *Canvas as no surface at all.
func (c *Canvas) IsNil() bool { return c == nil }

// SetBackground sets the color that translucent strokes are blended against.
func (c *Canvas) SetBackground(col color.Color) {
	c.bg, _ = toColorful(col)
}

func (c *Canvas) DisplaySize() (float64, float64) {
	return float64(c.cols), float64(c.rows * 2)
}

func (c *Canvas) PixelRatio() float64     { return PixelRatio }
func (c *Canvas) BackingSize() (int, int) { return c.backW, c.backH }

// Resize reallocates the cell grid for a w x h dot store and resets the
// transform.
func (c *Canvas) Resize(w, h int) {
	c.backW, c.backH = max(w, 0), max(h, 0)
	c.gridW = (c.backW + dotsX - 1) / dotsX
	c.gridH = (c.backH + dotsY - 1) / dotsY
	c.cells = make([]cell, c.gridW*c.gridH)
	c.scale = 1
}

func (c *Canvas) SetTransform(s float64) { c.scale = s }

func (c *Canvas) device(x, y float64) point {
	return point{x * c.scale, y * c.scale}
}

// Clear resets every cell overlapping the logical rectangle.
func (c *Canvas) Clear(x, y, w, h float64) {
	a, b := c.device(x, y), c.device(x+w, y+h)
	x0 := clampInt(int(math.Floor(a.x/dotsX)), 0, c.gridW)
	y0 := clampInt(int(math.Floor(a.y/dotsY)), 0, c.gridH)
	x1 := clampInt(int(math.Ceil(b.x/dotsX)), 0, c.gridW)
	y1 := clampInt(int(math.Ceil(b.y/dotsY)), 0, c.gridH)
	for row := y0; row < y1; row++ {
		for col := x0; col < x1; col++ {
			c.cells[row*c.gridW+col] = cell{}
		}
	}
}

func (c *Canvas) BeginPath() {
	c.segs = c.segs[:0]
	c.hasPen = false
}

func (c *Canvas) MoveTo(x, y float64) {
	c.pen = c.device(x, y)
	c.hasPen = true
}

func (c *Canvas) LineTo(x, y float64) {
	p := c.device(x, y)
	if c.hasPen {
		c.segs = append(c.segs, segment{c.pen, p})
	}
	c.pen, c.hasPen = p, true
}

// QuadraticCurveTo flattens the curve into short line segments.
func (c *Canvas) QuadraticCurveTo(cx, cy, x, y float64) {
	ctrl, end := c.device(cx, cy), c.device(x, y)
	if !c.hasPen {
		c.pen, c.hasPen = ctrl, true
	}
	start, prev := c.pen, c.pen
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		u := 1 - t
		p := point{
			x: u*u*start.x + 2*u*t*ctrl.x + t*t*end.x,
			y: u*u*start.y + 2*u*t*ctrl.y + t*t*end.y,
		}
		c.segs = append(c.segs, segment{prev, p})
		prev = p
	}
	c.pen = end
}

// Stroke rasterizes the current path. A set shadow tints the background of
// every cell the path touched.
func (c *Canvas) Stroke() {
	if c.stroke == nil || len(c.cells) == 0 {
		return
	}
	col := c.blend(c.stroke)
	thick := max(1, int(math.Floor(c.width*c.scale/2)))

	touched := make(map[int]struct{})
	for _, s := range c.segs {
		c.line(s, thick, col, touched)
	}

	if c.glow == nil || c.blur <= 0 {
		return
	}
	tint := c.blend(c.glow)
	for idx := range touched {
		c.cells[idx].tinted = true
		c.cells[idx].tint = tint
	}
}

func (c *Canvas) line(s segment, thick int, col colorful.Color, touched map[int]struct{}) {
	dx, dy := s.b.x-s.a.x, s.b.y-s.a.y
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		c.stamp(s.a, thick, col, touched)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.stamp(point{s.a.x + dx*t, s.a.y + dy*t}, thick, col, touched)
	}
}

func (c *Canvas) stamp(p point, thick int, col colorful.Color, touched map[int]struct{}) {
	off := (thick - 1) / 2
	x0 := int(math.Floor(p.x)) - off
	y0 := int(math.Floor(p.y)) - off
	for y := y0; y < y0+thick; y++ {
		for x := x0; x < x0+thick; x++ {
			if idx, ok := c.plot(x, y, col); ok {
				touched[idx] = struct{}{}
			}
		}
	}
}

func (c *Canvas) plot(x, y int, col colorful.Color) (int, bool) {
	if x < 0 || y < 0 || x >= c.backW || y >= c.backH {
		return 0, false
	}
	idx := (y/dotsY)*c.gridW + x/dotsX
	cl := &c.cells[idx]
	cl.dots |= dotBits[y%dotsY][x%dotsX]
	cl.fg = col
	cl.text = 0
	return idx, true
}

func (c *Canvas) SetStrokeColor(col color.Color) { c.stroke = col }
func (c *Canvas) SetLineWidth(w float64)         { c.width = w }

func (c *Canvas) SetShadow(col color.Color, blur float64) {
	c.glow, c.blur = col, blur
}

func (c *Canvas) SetFillColor(col color.Color) { c.fill = col }

// SetFont only honors the weight: 600 and above, or "bold", render bold.
func (c *Canvas) SetFont(font string) {
	c.bold = false
	for _, f := range strings.Fields(font) {
		switch strings.ToLower(f) {
		case "bold", "bolder", "600", "700", "800", "900":
			c.bold = true
		}
	}
}

func (c *Canvas) SetTextAlign(a render.TextAlign)       { c.align = a }
func (c *Canvas) SetTextBaseline(b render.TextBaseline) { c.base = b }

// FillText writes text one rune per cell. Text is one cell tall, so the top
// and middle baselines share a row and the bottom baseline uses the row
// above y.
func (c *Canvas) FillText(text string, x, y float64) {
	if c.fill == nil || len(c.cells) == 0 {
		return
	}
	p := c.device(x, y)
	runes := []rune(text)

	col := int(math.Floor(p.x / dotsX))
	switch c.align {
	case render.AlignCenter:
		col -= len(runes) / 2
	case render.AlignRight:
		col -= len(runes)
	}
	row := int(math.Floor(p.y / dotsY))
	if c.base == render.BaselineBottom {
		row = int(math.Ceil(p.y/dotsY)) - 1
	}
	if row < 0 || row >= c.gridH {
		return
	}

	fg := c.blend(c.fill)
	for i, r := range runes {
		cx := col + i
		if cx < 0 || cx >= c.gridW {
			continue
		}
		cl := &c.cells[row*c.gridW+cx]
		cl.text, cl.textFG, cl.bold = r, fg, c.bold
	}
}

func (c *Canvas) blend(col color.Color) colorful.Color {
	fg, a := toColorful(col)
	return c.bg.BlendRgb(fg, a).Clamped()
}

func toColorful(col color.Color) (colorful.Color, float64) {
	n := color.NRGBAModel.Convert(col).(color.NRGBA)
	return colorful.Color{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
	}, float64(n.A) / 255
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

var _ render.Surface = (*Canvas)(nil)
