package theme

import "image/color"

// Alpha levels applied to the resolved hues.
const (
	alphaGridMinor = 0.08
	alphaGridMajor = 0.18
	alphaSweep     = 0.25
	alphaGlowOK    = 0.35
	alphaGlowRisk  = 0.40
)

// Palette is the set of colors one frame is drawn with.
type Palette struct {
	TraceNormal color.NRGBA
	TraceRisk   color.NRGBA
	GlowNormal  color.NRGBA
	GlowRisk    color.NRGBA
	GridMinor   color.NRGBA
	GridMajor   color.NRGBA
	Sweep       color.NRGBA
	Background  color.NRGBA
}

// NewPalette resolves a palette through r. A nil r yields the fallbacks.
//
// Trace color prefers success, then primary. The grid hue prefers
// muted-foreground, then foreground, so only the trace switches color.
func NewPalette(r Resolver) Palette {
	ok := ResolveColor(r, FallbackSuccess, TokenSuccess, TokenPrimary)
	risk := ResolveColor(r, FallbackDestructive, TokenDestructive)
	grid := ResolveColor(r, FallbackGrid, TokenMutedForeground, TokenForeground)
	bg := ResolveColor(r, FallbackBackground, TokenBackground)

	return Palette{
		TraceNormal: WithAlpha(ok, 1),
		TraceRisk:   WithAlpha(risk, 1),
		GlowNormal:  WithAlpha(ok, alphaGlowOK),
		GlowRisk:    WithAlpha(risk, alphaGlowRisk),
		GridMinor:   WithAlpha(grid, alphaGridMinor),
		GridMajor:   WithAlpha(grid, alphaGridMajor),
		Sweep:       WithAlpha(grid, alphaSweep),
		Background:  WithAlpha(bg, 1),
	}
}

// Trace returns the stroke and glow colors for a run.
func (p Palette) Trace(risk bool) (stroke, glow color.NRGBA) {
	if risk {
		return p.TraceRisk, p.GlowRisk
	}
	return p.TraceNormal, p.GlowNormal
}
