package signal

// Run is a maximal stretch of samples sharing one Risk flag.
// It covers samples[Start:End].
type Run struct {
	Start int  `json:"start"`
	End   int  `json:"end"`
	Risk  bool `json:"risk"`
}

// Len returns the number of samples in the run.
func (r Run) Len() int { return r.End - r.Start }

// Runs partitions samples into maximal runs of equal Risk flag, in order.
// Neighbouring runs always differ in flag.
func Runs(samples []Sample) []Run {
	if len(samples) == 0 {
		return nil
	}
	var runs []Run
	current := Run{Start: 0, Risk: samples[0].Risk}
	for i := 1; i < len(samples); i++ {
		if samples[i].Risk != current.Risk {
			current.End = i
			runs = append(runs, current)
			current = Run{Start: i, Risk: samples[i].Risk}
		}
	}
	current.End = len(samples)
	return append(runs, current)
}

// Transitions counts flag changes between neighbouring samples.
func Transitions(samples []Sample) int {
	n := len(Runs(samples))
	if n == 0 {
		return 0
	}
	return n - 1
}
