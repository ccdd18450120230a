package main

import (
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/lucasb-eyer/go-colorful"
)

// pulse eases the emergency card between its dim and lit states. The target
// flips every pulsePeriod and the spring is stepped once per frame.
type pulse struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
}

func newPulse(frame time.Duration) pulse {
	fps := 60
	if frame > 0 {
		fps = max(1, int(time.Second/frame))
	}
	return pulse{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.8),
		target: 1,
	}
}

func (p *pulse) toggle() { p.target = 1 - p.target }

func (p *pulse) step() {
	p.pos, p.vel = p.spring.Update(p.pos, p.vel, p.target)
}

// level is the spring position clamped to [0,1].
func (p pulse) level() float64 {
	return min(1, max(0, p.pos))
}

// lit reports which side of the pulse the card is on.
func (p pulse) lit() bool { return p.target == 1 }

// color mixes dim toward bright by the current level.
func (p pulse) color(dim, bright colorful.Color) colorful.Color {
	return dim.BlendRgb(bright, p.level()).Clamped()
}
