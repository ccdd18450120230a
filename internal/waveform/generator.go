// Package waveform synthesizes an ECG-style voltage trace.
//
// The trace is a closed-form sum of pulse shapes evaluated at the phase of
// the current beat. Normal mode draws a P-QRS-T complex; risk mode replaces
// the QRS and T with an rS complex riding on a raised ST plateau.
package waveform

import (
	"math"
	"math/rand"
	"time"
)

const (
	// NormalPeriod is the beat length in samples for the normal rhythm.
	NormalPeriod = 150.0
	// RiskPeriod is the beat length in samples for the risk rhythm.
	RiskPeriod = 180.0

	// MinValue and MaxValue bound every generated sample.
	MinValue = 0.05
	MaxValue = 0.95

	baseline = 0.4
	ampScale = 0.21

	jitterRange = 0.0012
	wanderAmp   = 0.0025
	wanderFreq  = 0.45
)

// Source supplies uniform values in [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Generator maps a time index and mode to a voltage sample.
type Generator struct {
	src Source
}

// New returns a Generator drawing jitter from src. A nil src seeds a
// private source from the wall clock.
func New(src Source) *Generator {
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{src: src}
}

// NewSeeded returns a Generator with deterministic jitter.
func NewSeeded(seed int64) *Generator {
	return New(rand.New(rand.NewSource(seed)))
}

// Period returns the beat length in samples for the given mode.
func Period(risk bool) float64 {
	if risk {
		return RiskPeriod
	}
	return NormalPeriod
}

// Phase returns the position of x inside its beat, in [0,1).
func Phase(x float64, risk bool) float64 {
	p := Period(risk)
	t := math.Mod(x, p) / p
	if t < 0 {
		t += 1
	}
	if t >= 1 {
		t = 0
	}
	return t
}

// Shape returns the noiseless, unscaled beat shape at phase t.
func Shape(t float64, risk bool) float64 {
	// P wave.
	v := skewBump(t, 0.115, 0.022, 0.09, 2.0)

	if !risk {
		v += -0.12 * gauss(t, 0.200, 0.008) // Q
		v += 1.22 * gauss(t, 0.220, 0.006)  // R
		v += -0.19 * gauss(t, 0.238, 0.010) // S
		v += skewBump(t, 0.40, 0.050, 0.30, -2.0)
		return v
	}

	v += 0.34 * gauss(t, 0.218, 0.004)  // small r
	v += -1.15 * gauss(t, 0.240, 0.013) // deep S

	const (
		jPoint  = 0.255
		riseDur = 0.020
		holdDur = 0.30
		fallDur = 0.080
		stAmp   = 0.64
	)
	v += plateau(t, jPoint, riseDur, holdDur, fallDur, stAmp)
	v += cosDome(t, jPoint+0.010, jPoint+0.070, stAmp*0.18)

	// Broad hyperacute T and a small lift at the ST/T junction.
	v += skewBump(t, 0.420, 0.075, 0.40, -0.9)
	v += 0.04 * gauss(t, 0.375, 0.020)
	return v
}

// Sample returns the voltage at time index x, including jitter and
// baseline wander, clamped to [MinValue, MaxValue].
func (g *Generator) Sample(x float64, risk bool) float64 {
	t := Phase(x, risk)

	value := baseline + Shape(t, risk)*ampScale
	value += (g.src.Float64() - 0.5) * jitterRange
	value += wanderAmp * math.Sin(2*math.Pi*t*wanderFreq)

	return Clamp(value)
}

// Clamp limits v to [MinValue, MaxValue].
func Clamp(v float64) float64 {
	return math.Min(MaxValue, math.Max(MinValue, v))
}
