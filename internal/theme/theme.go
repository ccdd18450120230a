// Package theme resolves named color tokens into the palette used by the
// trace renderer.
//
// Tokens hold CSS-style HSL triples ("142.1 76.2% 36.3%") or hex colors.
// A token that is missing or unparseable falls back to a fixed literal; the
// renderer never sees an error.
package theme

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Token names looked up at render time.
const (
	TokenSuccess         = "success"
	TokenPrimary         = "primary"
	TokenDestructive     = "destructive"
	TokenMutedForeground = "muted-foreground"
	TokenForeground      = "foreground"
	TokenBackground      = "background"
)

// Fallback literals used when a token is absent.
const (
	FallbackGrid        = "0 0% 50%"
	FallbackSuccess     = "142.1 76.2% 36.3%"
	FallbackDestructive = "0 84.2% 60.2%"
	FallbackBackground  = "222.2 84% 4.9%"
)

// Resolver looks up a color token. ok is false when the token is unset.
type Resolver interface {
	Lookup(token string) (value string, ok bool)
}

// Tokens is a static token table.
type Tokens map[string]string

// Lookup implements Resolver. Blank values count as unset.
func (t Tokens) Lookup(token string) (string, bool) {
	v := strings.TrimSpace(t[token])
	return v, v != ""
}

// Resolve returns the first set token value in order, or fallback.
func Resolve(r Resolver, fallback string, tokens ...string) string {
	if r == nil {
		return fallback
	}
	for _, tok := range tokens {
		if v, ok := r.Lookup(tok); ok {
			return v
		}
	}
	return fallback
}

// ParseColor parses "H S% L%", "hsl(H S% L%)" or "#rrggbb".
func ParseColor(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return colorful.Hex(s)
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "hsl("), ")")
	s = strings.ReplaceAll(s, ",", " ")

	fields := strings.Fields(s)
	if len(fields) != 3 {
		return colorful.Color{}, fmt.Errorf("color %q: want 3 HSL components, got %d", s, len(fields))
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(fields[0], "deg"), 64)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("color %q hue: %w", s, err)
	}
	sat, err := parsePercent(fields[1])
	if err != nil {
		return colorful.Color{}, fmt.Errorf("color %q saturation: %w", s, err)
	}
	light, err := parsePercent(fields[2])
	if err != nil {
		return colorful.Color{}, fmt.Errorf("color %q lightness: %w", s, err)
	}
	return colorful.Hsl(h, sat, light), nil
}

func parsePercent(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, err
	}
	return v / 100, nil
}

// WithAlpha converts c to a non-premultiplied color with alpha a in [0,1].
func WithAlpha(c colorful.Color, a float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	return color.NRGBA{R: r, G: g, B: b, A: uint8(a*255 + 0.5)}
}

// ResolveColor resolves tokens to a color, falling back on a bad value.
func ResolveColor(r Resolver, fallback string, tokens ...string) colorful.Color {
	if c, err := ParseColor(Resolve(r, fallback, tokens...)); err == nil {
		return c
	}
	c, _ := ParseColor(fallback)
	return c
}
