package engine

import (
	"time"

	"github.com/daviddao/ecgmon/internal/signal"
	"github.com/daviddao/ecgmon/internal/waveform"
)

// Snapshot is an immutable copy of the engine state.
type Snapshot struct {
	Samples   []signal.Sample `json:"samples"`
	Capacity  int             `json:"capacity"`
	X         float64         `json:"x"`
	Risk      bool            `json:"risk"`
	RiskSince *time.Time      `json:"risk_since,omitempty"`
	Period    float64         `json:"period"`
	Phase     float64         `json:"phase"`
	Frames    uint64          `json:"frames"`
	Attached  bool            `json:"attached"`
	Label     bool            `json:"label"`
	TakenAt   time.Time       `json:"taken_at"`
}

// Snapshot copies the current state. The sample slice is not shared with
// the engine.
func (e *Engine) Snapshot() Snapshot {
	now := e.now()
	s := Snapshot{
		Samples:  e.buf.Samples(),
		Capacity: e.buf.Cap(),
		X:        e.x,
		Risk:     e.risk,
		Period:   waveform.Period(e.risk),
		Phase:    waveform.Phase(e.x, e.risk),
		Frames:   e.frames,
		Attached: e.surface != nil,
		Label:    e.LabelVisible(now),
		TakenAt:  now,
	}
	if !e.riskSince.IsZero() {
		since := e.riskSince
		s.RiskSince = &since
	}
	return s
}
