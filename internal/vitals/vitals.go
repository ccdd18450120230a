// Package vitals simulates the heart rate, respiratory rate and signal
// quality shown under the trace.
package vitals

import (
	"math"
	"math/rand"
	"time"
)

// Interval is how often the readings drift.
const Interval = 3 * time.Second

const (
	initialHR     = 72
	initialRRNorm = 0.9
	initialRRRisk = 1.3

	minHR, maxHR = 68, 75
	minRR, maxRR = 0.8, 1.0
)

// Source supplies uniform values in [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Reading is one set of displayed vitals.
type Reading struct {
	HeartRate int     `json:"heart_rate"`
	RespRate  float64 `json:"resp_rate"`
	Quality   string  `json:"signal_quality"`
	Risk      bool    `json:"risk"`
}

// Monitor holds the current reading and random-walks it on each Step.
type Monitor struct {
	src Source
	cur Reading
}

// New returns a Monitor in the given mode. A nil src seeds from the clock.
func New(risk bool, src Source) *Monitor {
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	m := &Monitor{src: src}
	m.Reset(risk)
	return m
}

// Reset restores the starting reading for a mode.
func (m *Monitor) Reset(risk bool) {
	m.cur = Reading{HeartRate: initialHR, RespRate: initialRRNorm, Quality: "Good"}
	if risk {
		m.cur.RespRate = initialRRRisk
		m.cur.Quality = "Poor"
		m.cur.Risk = true
	}
}

// Reading returns the current values.
func (m *Monitor) Reading() Reading { return m.cur }

// Step advances the walk once. Normal mode nudges HR by at most 1 within
// [68,75] and RR by at most 0.05 within [0.8,1.0]. Risk mode drifts twice as
// fast and is unbounded. RR is kept to one decimal.
func (m *Monitor) Step() Reading {
	if m.cur.Risk {
		m.cur.HeartRate += int(math.Floor(m.src.Float64()*5 - 2))
		m.cur.RespRate = round1(m.cur.RespRate + m.src.Float64()*0.2 - 0.1)
		return m.cur
	}
	hr := m.cur.HeartRate + int(math.Floor(m.src.Float64()*3-1))
	m.cur.HeartRate = min(maxHR, max(minHR, hr))
	rr := m.cur.RespRate + m.src.Float64()*0.1 - 0.05
	m.cur.RespRate = round1(math.Min(maxRR, math.Max(minRR, rr)))
	return m.cur
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
