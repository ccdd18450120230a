package engine

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultFPS is the frame rate of the TUI loop.
const DefaultFPS = 60

// FrameMsg is delivered to the bubbletea model when a frame is due.
type FrameMsg time.Time

// TickScheduler turns frame requests into tea.Tick commands. RequestFrame
// only records the request; the model collects it with Cmd after each
// update, so at most one tick is in flight.
type TickScheduler struct {
	interval time.Duration
	pending  bool
}

// NewTickScheduler returns a scheduler ticking at fps frames per second.
// Non-positive fps uses DefaultFPS.
func NewTickScheduler(fps int) *TickScheduler {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &TickScheduler{interval: time.Second / time.Duration(fps)}
}

// RequestFrame implements Scheduler.
func (s *TickScheduler) RequestFrame() { s.pending = true }

// Pending reports whether a request is waiting for Cmd.
func (s *TickScheduler) Pending() bool { return s.pending }

// Interval returns the time between frames.
func (s *TickScheduler) Interval() time.Duration { return s.interval }

// Cmd returns the tick for a pending request and clears it, or nil.
func (s *TickScheduler) Cmd() tea.Cmd {
	if !s.pending {
		return nil
	}
	s.pending = false
	return tea.Tick(s.interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}
