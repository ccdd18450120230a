// Package signal holds the smoothed sample history that feeds the trace.
package signal

// DefaultCapacity is the number of samples kept on screen.
const DefaultCapacity = 600

// DefaultSmoothing is the weight given to the previous smoothed value.
const DefaultSmoothing = 0.65

// DefaultInitial is the smoother state before the first sample.
const DefaultInitial = 0.5

// Sample is one smoothed point of the trace and the mode it was taken in.
type Sample struct {
	Value float64 `json:"v"`
	Risk  bool    `json:"risk"`
}

// Buffer is a fixed-capacity FIFO of samples with an exponential smoother
// in front of it. Oldest samples are evicted first.
type Buffer struct {
	data     []Sample
	capacity int
	head     int // next write position
	size     int

	alpha float64
	prev  float64
}

// NewBuffer creates a Buffer holding at most capacity samples. alpha is the
// smoothing weight of the previous value and initial seeds the smoother.
func NewBuffer(capacity int, alpha, initial float64) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		data:     make([]Sample, capacity),
		capacity: capacity,
		alpha:    alpha,
		prev:     initial,
	}
}

// Ingest smooths raw against the previous value, appends the result and
// returns the stored sample.
func (b *Buffer) Ingest(raw float64, risk bool) Sample {
	smoothed := b.prev*b.alpha + raw*(1-b.alpha)
	b.prev = smoothed

	s := Sample{Value: smoothed, Risk: risk}
	b.push(s)
	return s
}

func (b *Buffer) push(s Sample) {
	b.data[b.head] = s
	b.head = (b.head + 1) % b.capacity
	if b.size < b.capacity {
		b.size++
	}
}

// Samples returns the history oldest first. The slice is a copy.
func (b *Buffer) Samples() []Sample {
	out := make([]Sample, b.size)
	start := (b.head - b.size + b.capacity) % b.capacity
	for i := 0; i < b.size; i++ {
		out[i] = b.data[(start+i)%b.capacity]
	}
	return out
}

// Len returns the number of stored samples.
func (b *Buffer) Len() int { return b.size }

// Cap returns the maximum number of stored samples.
func (b *Buffer) Cap() int { return b.capacity }

// Prev returns the last smoothed value.
func (b *Buffer) Prev() float64 { return b.prev }

// Latest returns the most recent sample, or false if the buffer is empty.
func (b *Buffer) Latest() (Sample, bool) {
	if b.size == 0 {
		return Sample{}, false
	}
	return b.data[(b.head-1+b.capacity)%b.capacity], true
}
