package signal

import (
	"math"
	"testing"
)

func TestIngestSmooths(t *testing.T) {
	b := NewBuffer(10, 0.65, 0.5)

	s := b.Ingest(1.0, false)
	want := 0.5*0.65 + 1.0*0.35
	if math.Abs(s.Value-want) > 1e-12 {
		t.Errorf("first smoothed value = %v, want %v", s.Value, want)
	}
	if b.Prev() != s.Value {
		t.Errorf("Prev() = %v, want %v", b.Prev(), s.Value)
	}

	s2 := b.Ingest(0.0, true)
	want2 := want * 0.65
	if math.Abs(s2.Value-want2) > 1e-12 {
		t.Errorf("second smoothed value = %v, want %v", s2.Value, want2)
	}
	if !s2.Risk {
		t.Error("second sample should carry risk flag")
	}
}

func TestBufferNeverExceedsCapacity(t *testing.T) {
	b := NewBuffer(5, 0.65, 0.5)
	for i := 0; i < 23; i++ {
		b.Ingest(0.5, false)
		if b.Len() > b.Cap() {
			t.Fatalf("Len() = %d exceeds Cap() = %d after %d ingests", b.Len(), b.Cap(), i+1)
		}
	}
	if b.Len() != 5 {
		t.Errorf("Len() = %d, want 5", b.Len())
	}
}

func TestBufferFIFOEviction(t *testing.T) {
	const capacity = 8
	// alpha=0 disables smoothing so stored values equal inputs.
	b := NewBuffer(capacity, 0, 0)
	const extra = 5
	for i := 0; i < capacity+extra; i++ {
		b.Ingest(float64(i), false)
	}

	got := b.Samples()
	if len(got) != capacity {
		t.Fatalf("len(Samples()) = %d, want %d", len(got), capacity)
	}
	for i, s := range got {
		if want := float64(extra + i); s.Value != want {
			t.Errorf("Samples()[%d] = %v, want %v", i, s.Value, want)
		}
	}

	latest, ok := b.Latest()
	if !ok || latest.Value != float64(capacity+extra-1) {
		t.Errorf("Latest() = %v, %v; want %v", latest, ok, capacity+extra-1)
	}
}

func TestBufferEmpty(t *testing.T) {
	b := NewBuffer(4, 0.65, 0.5)
	if len(b.Samples()) != 0 {
		t.Error("empty buffer should return no samples")
	}
	if _, ok := b.Latest(); ok {
		t.Error("Latest() on empty buffer should report false")
	}
}

func TestNewBufferClampsCapacity(t *testing.T) {
	b := NewBuffer(0, 0.65, 0.5)
	b.Ingest(0.2, false)
	b.Ingest(0.3, false)
	if b.Cap() != 1 || b.Len() != 1 {
		t.Errorf("Cap()=%d Len()=%d, want 1 and 1", b.Cap(), b.Len())
	}
}

func TestSamplesReturnsCopy(t *testing.T) {
	b := NewBuffer(3, 0, 0)
	b.Ingest(0.1, false)
	out := b.Samples()
	out[0].Value = 99
	if b.Samples()[0].Value == 99 {
		t.Error("mutating Samples() result should not change the buffer")
	}
}
