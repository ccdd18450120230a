package waveform

import "math"

// gauss is an unnormalized Gaussian centered on c with width w.
func gauss(t, c, w float64) float64 {
	z := (t - c) / w
	return math.Exp(-0.5 * z * z)
}

// smoothStep eases u in [0,1] with zero slope at both ends.
func smoothStep(u float64) float64 {
	return u * u * (3 - 2*u)
}

// plateau rises over riseDur from start, holds amp for holdDur, then falls
// over fallDur. Both edges use smoothStep.
func plateau(t, start, riseDur, holdDur, fallDur, amp float64) float64 {
	riseEnd := start + riseDur
	holdEnd := riseEnd + holdDur
	fallEnd := holdEnd + fallDur

	switch {
	case t < start || t > fallEnd:
		return 0
	case t < riseEnd:
		return amp * smoothStep((t-start)/riseDur)
	case t < holdEnd:
		return amp
	default:
		return amp * (1 - smoothStep((t-holdEnd)/fallDur))
	}
}

// cosDome is zero at start and end and peaks at amp halfway between.
func cosDome(t, start, end, amp float64) float64 {
	if t < start || t > end {
		return 0
	}
	u := (t - start) / (end - start)
	return amp * (1 - math.Cos(2*math.Pi*u)) * 0.5
}

// skewBump is a Gaussian bump tilted by a logistic term. Positive skew
// leans the mass late, negative skew leans it early.
func skewBump(t, center, width, amp, skew float64) float64 {
	z := (t - center) / width
	g := math.Exp(-0.5 * z * z)
	s := 1 / (1 + math.Exp(-skew*z))
	return amp * g * s
}
