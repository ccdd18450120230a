// Package snapshot builds immutable summaries of the engine state.
//
// A DataSnapshot captures the sample history, its run segmentation and a
// few derived figures at a point in time. The UI rebuilds one per status
// refresh and the --json mode prints one and exits.
package snapshot

import (
	"math"
	"time"

	"github.com/daviddao/ecgmon/internal/engine"
	"github.com/daviddao/ecgmon/internal/signal"
)

// Stats are figures derived from the sample history.
type Stats struct {
	Samples     int     `json:"samples"`
	RiskSamples int     `json:"risk_samples"`
	Runs        int     `json:"runs"`
	Transitions int     `json:"transitions"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Mean        float64 `json:"mean"`
	// Fill is the share of the buffer in use, in [0,1].
	Fill float64 `json:"fill"`
}

// DataSnapshot is an immutable, self-contained view of the engine.
type DataSnapshot struct {
	Engine engine.Snapshot `json:"engine"`
	Runs   []signal.Run    `json:"runs"`
	Stats  Stats           `json:"stats"`

	// Timestamp of snapshot creation.
	BuiltAt time.Time `json:"built_at"`
}

// Build summarizes s. It never fails; an empty history yields zero stats.
func Build(s engine.Snapshot) *DataSnapshot {
	runs := signal.Runs(s.Samples)

	st := Stats{
		Samples: len(s.Samples),
		Runs:    len(runs),
	}
	if len(runs) > 0 {
		st.Transitions = len(runs) - 1
	}
	if s.Capacity > 0 {
		st.Fill = float64(len(s.Samples)) / float64(s.Capacity)
	}

	if len(s.Samples) > 0 {
		st.Min, st.Max = math.Inf(1), math.Inf(-1)
		var sum float64
		for _, smp := range s.Samples {
			st.Min = math.Min(st.Min, smp.Value)
			st.Max = math.Max(st.Max, smp.Value)
			sum += smp.Value
			if smp.Risk {
				st.RiskSamples++
			}
		}
		st.Mean = sum / float64(len(s.Samples))
	}

	return &DataSnapshot{
		Engine:  s,
		Runs:    runs,
		Stats:   st,
		BuiltAt: time.Now(),
	}
}

// RiskShare returns the fraction of samples taken in risk mode.
func (d *DataSnapshot) RiskShare() float64 {
	if d.Stats.Samples == 0 {
		return 0
	}
	return float64(d.Stats.RiskSamples) / float64(d.Stats.Samples)
}
