// Package engine drives the ECG simulation: it owns the generator, the
// sample history and the frame loop, and paints onto whichever surface is
// currently attached.
//
// One Engine lives for the whole process. Views attach and detach surfaces
// and toggle the mode; none of that resets the signal, so switching screens
// resumes the trace where it left off.
//
// Engine is not safe for concurrent use. In the TUI every call happens on
// the bubbletea update goroutine.
package engine

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/daviddao/ecgmon/internal/render"
	"github.com/daviddao/ecgmon/internal/signal"
	"github.com/daviddao/ecgmon/internal/theme"
	"github.com/daviddao/ecgmon/internal/waveform"
)

// Scheduler arranges for Frame to be called once, some time later.
type Scheduler interface {
	RequestFrame()
}

// Config holds the tunables of the simulation.
type Config struct {
	MaxPoints  int
	Step       float64
	Smoothing  float64
	LabelDelay time.Duration
	// Seed fixes the jitter source. Zero seeds from the clock.
	Seed int64
}

// DefaultConfig returns the stock simulation settings.
func DefaultConfig() Config {
	return Config{
		MaxPoints:  signal.DefaultCapacity,
		Step:       1.15,
		Smoothing:  signal.DefaultSmoothing,
		LabelDelay: 3 * time.Second,
	}
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithScheduler sets where frame requests go.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

// WithLogger sets the log entry. The default discards everything.
func WithLogger(l *logrus.Entry) Option {
	return func(e *Engine) { e.log = l }
}

// WithGenerator replaces the seeded generator.
func WithGenerator(g *waveform.Generator) Option {
	return func(e *Engine) { e.gen = g }
}

// WithRenderOptions tunes the grid and label.
func WithRenderOptions(o render.Options) Option {
	return func(e *Engine) { e.renderer = render.NewRenderer(o) }
}

// Engine is the frame loop controller.
type Engine struct {
	cfg      Config
	gen      *waveform.Generator
	buf      *signal.Buffer
	renderer *render.Renderer
	resolver theme.Resolver

	x         float64
	risk      bool
	riskSince time.Time
	frames    uint64

	surface   render.Surface
	scheduled bool
	sched     Scheduler

	now func() time.Time
	log *logrus.Entry
}

// New creates an Engine. Zero fields in cfg take their defaults. The loop
// does not run until Start or Attach.
func New(cfg Config, opts ...Option) *Engine {
	def := DefaultConfig()
	if cfg.MaxPoints <= 0 {
		cfg.MaxPoints = def.MaxPoints
	}
	if cfg.Step <= 0 {
		cfg.Step = def.Step
	}
	if cfg.Smoothing <= 0 || cfg.Smoothing >= 1 {
		cfg.Smoothing = def.Smoothing
	}
	if cfg.LabelDelay <= 0 {
		cfg.LabelDelay = def.LabelDelay
	}

	e := &Engine{
		cfg:      cfg,
		buf:      signal.NewBuffer(cfg.MaxPoints, cfg.Smoothing, signal.DefaultInitial),
		renderer: render.NewRenderer(render.DefaultOptions()),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.gen == nil {
		if cfg.Seed != 0 {
			e.gen = waveform.NewSeeded(cfg.Seed)
		} else {
			e.gen = waveform.New(nil)
		}
	}
	if e.log == nil {
		l := logrus.New()
		l.Out = io.Discard
		e.log = logrus.NewEntry(l)
	}
	e.log = e.log.WithField("component", "engine")
	return e
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Start requests the first frame if none is pending.
func (e *Engine) Start() {
	e.schedule()
}

// Attach makes s the drawing target. Attaching the current surface again is
// a no-op; attaching nil, or a surface that reports IsNil, detaches. A new
// surface is laid out immediately and the loop is started if it was idle.
// Surfaces are compared by identity, so pass pointers.
func (e *Engine) Attach(s render.Surface) {
	if isNil(s) {
		s = nil
	}
	if s == e.surface {
		return
	}
	e.surface = s
	if s == nil {
		e.log.Debug("surface detached")
		e.schedule()
		return
	}
	if render.Layout(s) {
		w, h := s.BackingSize()
		e.log.WithFields(logrus.Fields{"width": w, "height": h}).Debug("surface resized")
	}
	e.log.Debug("surface attached")
	e.schedule()
}

// Surface returns the attached surface, or nil.
func (e *Engine) Surface() render.Surface { return e.surface }

// SetMode switches between the normal and risk morphology. Entering risk
// mode starts the label timer; leaving it clears the timer. Setting the
// current mode again changes nothing, so the timer keeps running.
func (e *Engine) SetMode(risk bool) {
	if risk == e.risk {
		return
	}
	e.risk = risk
	if risk {
		e.riskSince = e.now()
	} else {
		e.riskSince = time.Time{}
	}
	e.log.WithFields(logrus.Fields{"risk": risk, "x": e.x}).Info("mode changed")
}

// Risk reports the current mode.
func (e *Engine) Risk() bool { return e.risk }

// RiskSince returns when risk mode was entered, or the zero time.
func (e *Engine) RiskSince() time.Time { return e.riskSince }

// LabelVisible reports whether the warning label is shown at now.
func (e *Engine) LabelVisible(now time.Time) bool {
	if !e.risk || e.riskSince.IsZero() {
		return false
	}
	return now.Sub(e.riskSince) >= e.cfg.LabelDelay
}

// SetTheme makes r the token source. Tokens are looked up again on every
// draw, so a resolver whose values change takes effect on the next frame.
// A nil r restores the fallback colors.
func (e *Engine) SetTheme(r theme.Resolver) {
	e.resolver = r
	e.log.Debug("theme resolver updated")
}

// Palette resolves the colors the next frame would be drawn with.
func (e *Engine) Palette() theme.Palette { return theme.NewPalette(e.resolver) }

// Scheduled reports whether a frame request is outstanding.
func (e *Engine) Scheduled() bool { return e.scheduled }

// Frame runs one step of the loop: sample, smooth, draw if a surface is
// attached, advance time, then request the next frame. Frames without a
// surface still advance the signal.
func (e *Engine) Frame() {
	e.scheduled = false

	raw := e.gen.Sample(e.x, e.risk)
	e.buf.Ingest(raw, e.risk)

	e.Redraw()

	e.x += e.cfg.Step
	e.frames++
	e.schedule()
}

// Redraw paints the current history onto the attached surface without
// advancing the signal. It is used after a resize or theme change.
func (e *Engine) Redraw() bool {
	if e.surface == nil {
		return false
	}
	if render.Layout(e.surface) {
		w, h := e.surface.BackingSize()
		e.log.WithFields(logrus.Fields{"width": w, "height": h}).Debug("surface resized")
	}
	return e.renderer.Render(e.surface, render.Frame{
		Samples:   e.buf.Samples(),
		Capacity:  e.buf.Cap(),
		Palette:   e.Palette(),
		ShowLabel: e.LabelVisible(e.now()),
	})
}

// isNil catches typed nil pointers wrapped in a non-nil interface.
func isNil(s render.Surface) bool {
	if s == nil {
		return true
	}
	n, ok := s.(interface{ IsNil() bool })
	return ok && n.IsNil()
}

func (e *Engine) schedule() {
	if e.scheduled {
		return
	}
	e.scheduled = true
	if e.sched != nil {
		e.sched.RequestFrame()
	}
}
