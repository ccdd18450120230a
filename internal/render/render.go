package render

import (
	"github.com/daviddao/ecgmon/internal/signal"
	"github.com/daviddao/ecgmon/internal/theme"
)

// DefaultLabel is drawn over the trace once risk mode has persisted.
const DefaultLabel = "ST Elevation MI"

const (
	traceWidth     = 2.0
	sweepWidth     = 2.0
	majorWidth     = 1.0
	minorWidth     = 0.5
	glowBlurNormal = 4.0
	glowBlurRisk   = 6.0
	labelFont      = "600 24px ui-sans-serif, system-ui"
)

// Options tunes the static parts of a frame.
type Options struct {
	GridSpacing float64 // minor grid step in logical units
	MajorEvery  int     // every Nth grid line is major
	Label       string
}

// DefaultOptions returns the stock grid and label settings.
func DefaultOptions() Options {
	return Options{GridSpacing: 10, MajorEvery: 5, Label: DefaultLabel}
}

// Frame is everything one call to Render needs.
type Frame struct {
	Samples   []signal.Sample
	Capacity  int
	Palette   theme.Palette
	ShowLabel bool
}

// Renderer draws frames. It holds no per-frame state.
type Renderer struct {
	opts Options
}

// NewRenderer returns a Renderer. Zero fields in opts take defaults.
func NewRenderer(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.GridSpacing <= 0 {
		opts.GridSpacing = def.GridSpacing
	}
	if opts.MajorEvery <= 0 {
		opts.MajorEvery = def.MajorEvery
	}
	if opts.Label == "" {
		opts.Label = def.Label
	}
	return &Renderer{opts: opts}
}

// Render paints f onto s: clear, grid, trace, sweep, then the label.
// It reports false and draws nothing when s has no area yet.
func (r *Renderer) Render(s Surface, f Frame) bool {
	w, h := s.DisplaySize()
	if w <= 0 || h <= 0 {
		return false
	}
	Layout(s)

	s.SetShadow(nil, 0)
	s.Clear(0, 0, w, h)
	r.drawGrid(s, w, h, f.Palette)
	r.drawTrace(s, w, h, f)
	r.drawSweep(s, w, h, f)
	if f.ShowLabel {
		r.drawLabel(s, w, h, f.Palette)
	}
	return true
}

func (r *Renderer) drawGrid(s Surface, w, h float64, p theme.Palette) {
	step := r.opts.GridSpacing
	for i := 0; float64(i)*step <= w; i++ {
		x := float64(i) * step
		r.gridLine(s, i, p)
		s.MoveTo(x, 0)
		s.LineTo(x, h)
		s.Stroke()
	}
	for j := 0; float64(j)*step <= h; j++ {
		y := float64(j) * step
		r.gridLine(s, j, p)
		s.MoveTo(0, y)
		s.LineTo(w, y)
		s.Stroke()
	}
}

func (r *Renderer) gridLine(s Surface, i int, p theme.Palette) {
	s.BeginPath()
	if i%r.opts.MajorEvery == 0 {
		s.SetStrokeColor(p.GridMajor)
		s.SetLineWidth(majorWidth)
		return
	}
	s.SetStrokeColor(p.GridMinor)
	s.SetLineWidth(minorWidth)
}

// drawTrace strokes one path per run so color changes exactly at flag
// boundaries. Inside a run, points are joined by quadratic curves through
// the midpoints of neighbouring samples.
func (r *Renderer) drawTrace(s Surface, w, h float64, f Frame) {
	pts := f.Samples
	if len(pts) < 2 {
		return
	}
	denom := float64(f.Capacity - 1)
	if denom < 1 {
		denom = 1
	}
	xAt := func(i int) float64 { return float64(i) / denom * w }
	yAt := func(i int) float64 { return (1 - pts[i].Value) * h }

	for _, run := range signal.Runs(pts) {
		stroke, glow := f.Palette.Trace(run.Risk)
		blur := glowBlurNormal
		if run.Risk {
			blur = glowBlurRisk
		}
		s.SetStrokeColor(stroke)
		s.SetLineWidth(traceWidth)
		s.SetShadow(glow, blur)

		s.BeginPath()
		px, py := xAt(run.Start), yAt(run.Start)
		s.MoveTo(px, py)
		for i := run.Start + 1; i < run.End; i++ {
			x, y := xAt(i), yAt(i)
			s.QuadraticCurveTo(px, py, (px+x)/2, (py+y)/2)
			px, py = x, y
		}
		s.LineTo(px, py)
		s.Stroke()
	}
	s.SetShadow(nil, 0)
}

func (r *Renderer) drawSweep(s Surface, w, h float64, f Frame) {
	if f.Capacity <= 0 {
		return
	}
	x := float64(len(f.Samples)) / float64(f.Capacity) * w
	s.SetStrokeColor(f.Palette.Sweep)
	s.SetLineWidth(sweepWidth)
	s.BeginPath()
	s.MoveTo(x, 0)
	s.LineTo(x, h)
	s.Stroke()
}

func (r *Renderer) drawLabel(s Surface, w, h float64, p theme.Palette) {
	s.SetFont(labelFont)
	s.SetFillColor(p.TraceRisk)
	s.SetTextAlign(AlignCenter)
	s.SetTextBaseline(BaselineTop)
	s.FillText(r.opts.Label, w/2, h/4)
}
