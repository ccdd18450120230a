package snapshot

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/daviddao/ecgmon/internal/engine"
	"github.com/daviddao/ecgmon/internal/signal"
)

func TestBuildEmpty(t *testing.T) {
	snap := Build(engine.Snapshot{Capacity: 600})

	if snap.Stats.Samples != 0 {
		t.Errorf("expected 0 samples, got %d", snap.Stats.Samples)
	}
	if snap.Stats.Runs != 0 || snap.Stats.Transitions != 0 {
		t.Errorf("expected no runs, got %d runs / %d transitions", snap.Stats.Runs, snap.Stats.Transitions)
	}
	if snap.Stats.Min != 0 || snap.Stats.Max != 0 || snap.Stats.Mean != 0 {
		t.Errorf("expected zero range, got %+v", snap.Stats)
	}
	if snap.RiskShare() != 0 {
		t.Errorf("expected 0 risk share, got %v", snap.RiskShare())
	}
	if snap.BuiltAt.IsZero() {
		t.Error("BuiltAt should not be zero")
	}
}

func TestBuildStats(t *testing.T) {
	s := engine.Snapshot{
		Capacity: 8,
		Samples: []signal.Sample{
			{Value: 0.2}, {Value: 0.4}, {Value: 0.6, Risk: true}, {Value: 0.8, Risk: true},
		},
	}
	snap := Build(s)

	if snap.Stats.Samples != 4 {
		t.Errorf("expected 4 samples, got %d", snap.Stats.Samples)
	}
	if snap.Stats.RiskSamples != 2 {
		t.Errorf("expected 2 risk samples, got %d", snap.Stats.RiskSamples)
	}
	if snap.Stats.Runs != 2 || snap.Stats.Transitions != 1 {
		t.Errorf("expected 2 runs / 1 transition, got %d / %d", snap.Stats.Runs, snap.Stats.Transitions)
	}
	if snap.Stats.Min != 0.2 || snap.Stats.Max != 0.8 {
		t.Errorf("expected range [0.2, 0.8], got [%v, %v]", snap.Stats.Min, snap.Stats.Max)
	}
	if math.Abs(snap.Stats.Mean-0.5) > 1e-12 {
		t.Errorf("expected mean 0.5, got %v", snap.Stats.Mean)
	}
	if snap.Stats.Fill != 0.5 {
		t.Errorf("expected fill 0.5, got %v", snap.Stats.Fill)
	}
	if snap.RiskShare() != 0.5 {
		t.Errorf("expected risk share 0.5, got %v", snap.RiskShare())
	}
}

func TestBuildFromEngine(t *testing.T) {
	e := engine.New(engine.Config{Seed: 11, MaxPoints: 100})
	for i := 0; i < 150; i++ {
		if i == 120 {
			e.SetMode(true)
		}
		e.Frame()
	}
	snap := Build(e.Snapshot())

	if snap.Stats.Samples != 100 {
		t.Errorf("expected 100 samples, got %d", snap.Stats.Samples)
	}
	if snap.Stats.RiskSamples != 30 {
		t.Errorf("expected 30 risk samples, got %d", snap.Stats.RiskSamples)
	}
	if len(snap.Runs) != 2 || !snap.Runs[1].Risk {
		t.Errorf("expected normal then risk run, got %+v", snap.Runs)
	}
	if snap.Stats.Min < 0.05 || snap.Stats.Max > 0.95 {
		t.Errorf("samples out of range: [%v, %v]", snap.Stats.Min, snap.Stats.Max)
	}
}

func TestJSONShape(t *testing.T) {
	e := engine.New(engine.Config{Seed: 5, MaxPoints: 10})
	e.Frame()
	e.SetMode(true)
	e.Frame()

	out, err := json.Marshal(Build(e.Snapshot()))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, key := range []string{`"engine"`, `"samples"`, `"runs"`, `"stats"`, `"transitions":1`, `"risk_since"`} {
		if !strings.Contains(string(out), key) {
			t.Errorf("JSON missing %s: %s", key, out)
		}
	}
}
