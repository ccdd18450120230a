package render_test

import (
	"math"
	"testing"

	"github.com/daviddao/ecgmon/internal/render"
	"github.com/daviddao/ecgmon/internal/render/rendertest"
	"github.com/daviddao/ecgmon/internal/signal"
	"github.com/daviddao/ecgmon/internal/theme"
)

func samples(flags ...bool) []signal.Sample {
	out := make([]signal.Sample, len(flags))
	for i, f := range flags {
		out[i] = signal.Sample{Value: 0.2 + 0.1*float64(i%5), Risk: f}
	}
	return out
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func newFrame(s []signal.Sample, capacity int) render.Frame {
	return render.Frame{Samples: s, Capacity: capacity, Palette: theme.NewPalette(nil)}
}

func TestRenderSkipsUnsizedSurface(t *testing.T) {
	rec := rendertest.New(0, 40, 1)
	r := render.NewRenderer(render.Options{})

	if r.Render(rec, newFrame(samples(false, false), 10)) {
		t.Error("Render should report false for a zero-width surface")
	}
	if len(rec.Strokes) != 0 || rec.Clears != 0 || rec.Resizes != 0 {
		t.Errorf("unsized surface should see no drawing: strokes=%d clears=%d resizes=%d",
			len(rec.Strokes), rec.Clears, rec.Resizes)
	}
}

func TestLayoutResizesOnlyOnChange(t *testing.T) {
	rec := rendertest.New(40.5, 20, 2)

	if !render.Layout(rec) {
		t.Fatal("first Layout should resize")
	}
	if rec.BackW != 81 || rec.BackH != 40 {
		t.Errorf("backing = %dx%d, want 81x40", rec.BackW, rec.BackH)
	}
	if rec.Scale != 2 {
		t.Errorf("transform scale = %v, want 2", rec.Scale)
	}
	if render.Layout(rec) {
		t.Error("second Layout with same size should not resize")
	}
	if rec.Resizes != 1 || rec.Transforms != 1 {
		t.Errorf("resizes=%d transforms=%d, want 1 and 1", rec.Resizes, rec.Transforms)
	}

	rec.Width = 60
	if !render.Layout(rec) {
		t.Error("Layout should resize after the display size changes")
	}
	if rec.Resizes != 2 {
		t.Errorf("resizes = %d, want 2", rec.Resizes)
	}
}

func TestLayoutPixelRatioFloor(t *testing.T) {
	rec := rendertest.New(10, 10, 0)
	render.Layout(rec)
	if rec.BackW != 10 || rec.Scale != 1 {
		t.Errorf("ratio below 1 should be treated as 1: backing=%d scale=%v", rec.BackW, rec.Scale)
	}
}

func TestRenderGrid(t *testing.T) {
	rec := rendertest.New(100, 50, 1)
	r := render.NewRenderer(render.Options{GridSpacing: 10, MajorEvery: 5})
	p := theme.NewPalette(nil)

	r.Render(rec, render.Frame{Capacity: 10, Palette: p})

	var major, minor int
	for _, s := range rec.Strokes {
		switch s.Color {
		case p.GridMajor:
			major++
		case p.GridMinor:
			minor++
		}
	}
	// 11 vertical (3 major) and 6 horizontal (2 major) lines.
	if major != 5 {
		t.Errorf("major grid lines = %d, want 5", major)
	}
	if minor != 12 {
		t.Errorf("minor grid lines = %d, want 12", minor)
	}
	if rec.Clears != 1 {
		t.Errorf("clears = %d, want 1", rec.Clears)
	}
}

func TestRenderTraceSegmentsByRun(t *testing.T) {
	rec := rendertest.New(100, 50, 1)
	r := render.NewRenderer(render.DefaultOptions())
	p := theme.NewPalette(nil)

	in := samples(false, false, false, true, true, false)
	r.Render(rec, render.Frame{Samples: in, Capacity: 10, Palette: p})

	trace := rec.StrokesWithBlur()
	if len(trace) != 3 {
		t.Fatalf("trace strokes = %d, want 3", len(trace))
	}
	wantColors := []any{p.TraceNormal, p.TraceRisk, p.TraceNormal}
	wantPoints := []int{4, 3, 2}
	for i, s := range trace {
		if s.Color != wantColors[i] {
			t.Errorf("run %d color = %v, want %v", i, s.Color, wantColors[i])
		}
		if len(s.Points) != wantPoints[i] {
			t.Errorf("run %d points = %d, want %d", i, len(s.Points), wantPoints[i])
		}
	}
	if trace[1].Blur <= trace[0].Blur {
		t.Errorf("risk glow blur %v should exceed normal %v", trace[1].Blur, trace[0].Blur)
	}

	// The first risk run starts at sample 3: x = 3/9*w.
	if got, want := trace[1].Points[0].X, 3.0/9.0*100; !approx(got, want) {
		t.Errorf("risk run starts at x=%v, want %v", got, want)
	}
	if got, want := trace[1].Points[0].Y, (1-in[3].Value)*50; !approx(got, want) {
		t.Errorf("risk run starts at y=%v, want %v", got, want)
	}
}

func TestRenderTraceUsesMidpointCurves(t *testing.T) {
	rec := rendertest.New(90, 10, 1)
	r := render.NewRenderer(render.DefaultOptions())

	in := []signal.Sample{{Value: 0.5}, {Value: 0.5}, {Value: 0.5}}
	r.Render(rec, newFrame(in, 10))

	trace := rec.StrokesWithBlur()
	if len(trace) != 1 {
		t.Fatalf("trace strokes = %d, want 1", len(trace))
	}
	pts := trace[0].Points
	// moveTo(0), curve to mid(0,10)=5, curve to mid(10,20)=15, lineTo(20).
	wantX := []float64{0, 5, 15, 20}
	if len(pts) != len(wantX) {
		t.Fatalf("points = %v", pts)
	}
	for i, x := range wantX {
		if !approx(pts[i].X, x) {
			t.Errorf("point %d x = %v, want %v", i, pts[i].X, x)
		}
	}
	if !pts[1].Curve || !pts[2].Curve || pts[3].Curve {
		t.Errorf("expected two curve segments then a line: %v", pts)
	}
}

func TestRenderSingleSampleDrawsNoTrace(t *testing.T) {
	rec := rendertest.New(100, 50, 1)
	render.NewRenderer(render.DefaultOptions()).Render(rec, newFrame(samples(true), 10))
	if n := len(rec.StrokesWithBlur()); n != 0 {
		t.Errorf("trace strokes = %d, want 0", n)
	}
}

func TestRenderSweepPosition(t *testing.T) {
	rec := rendertest.New(200, 50, 1)
	p := theme.NewPalette(nil)
	render.NewRenderer(render.DefaultOptions()).Render(rec, render.Frame{
		Samples: samples(false, false, false, false), Capacity: 8, Palette: p,
	})

	last := rec.Strokes[len(rec.Strokes)-1]
	if last.Color != p.Sweep {
		t.Fatalf("last stroke should be the sweep, got color %v", last.Color)
	}
	if x := last.Points[0].X; x != 100 {
		t.Errorf("sweep x = %v, want 100", x)
	}
	if last.Blur != 0 {
		t.Errorf("sweep should have no glow, blur=%v", last.Blur)
	}
}

func TestRenderLabel(t *testing.T) {
	p := theme.NewPalette(nil)
	r := render.NewRenderer(render.DefaultOptions())

	rec := rendertest.New(120, 40, 1)
	r.Render(rec, render.Frame{Samples: samples(true, true), Capacity: 10, Palette: p})
	if len(rec.Texts) != 0 {
		t.Errorf("label drawn without ShowLabel: %v", rec.Texts)
	}

	rec = rendertest.New(120, 40, 1)
	r.Render(rec, render.Frame{Samples: samples(true, true), Capacity: 10, Palette: p, ShowLabel: true})
	if len(rec.Texts) != 1 {
		t.Fatalf("texts = %d, want 1", len(rec.Texts))
	}
	txt := rec.Texts[0]
	if txt.S != render.DefaultLabel {
		t.Errorf("label = %q, want %q", txt.S, render.DefaultLabel)
	}
	if txt.X != 60 || txt.Y != 10 {
		t.Errorf("label at (%v,%v), want (60,10)", txt.X, txt.Y)
	}
	if txt.Align != render.AlignCenter || txt.Base != render.BaselineTop {
		t.Errorf("label anchor = %v/%v, want center/top", txt.Align, txt.Base)
	}
	if txt.Color != p.TraceRisk {
		t.Errorf("label color = %v, want %v", txt.Color, p.TraceRisk)
	}
}
