package engine

import (
	"testing"
	"time"
)

func TestTickSchedulerInterval(t *testing.T) {
	tests := []struct {
		fps  int
		want time.Duration
	}{
		{60, time.Second / 60},
		{30, time.Second / 30},
		{0, time.Second / DefaultFPS},
		{-5, time.Second / DefaultFPS},
	}
	for _, tt := range tests {
		if got := NewTickScheduler(tt.fps).Interval(); got != tt.want {
			t.Errorf("NewTickScheduler(%d).Interval() = %v, want %v", tt.fps, got, tt.want)
		}
	}
}

func TestTickSchedulerCmd(t *testing.T) {
	s := NewTickScheduler(60)
	if s.Cmd() != nil {
		t.Error("Cmd without a request should be nil")
	}

	s.RequestFrame()
	s.RequestFrame()
	if !s.Pending() {
		t.Fatal("RequestFrame should mark a pending frame")
	}
	if s.Cmd() == nil {
		t.Fatal("Cmd with a pending request should return a tick")
	}
	if s.Pending() || s.Cmd() != nil {
		t.Error("Cmd should consume the request")
	}
}

func TestEngineDrivesTickScheduler(t *testing.T) {
	s := NewTickScheduler(60)
	e := New(Config{Seed: 1}, WithScheduler(s))

	e.Start()
	if s.Cmd() == nil {
		t.Fatal("Start should produce a tick")
	}
	e.Frame()
	if s.Cmd() == nil {
		t.Fatal("Frame should produce the next tick")
	}
	if s.Cmd() != nil {
		t.Error("only one tick should be outstanding")
	}
}
