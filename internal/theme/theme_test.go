package theme

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func mustParse(t *testing.T, s string) colorful.Color {
	t.Helper()
	c, err := ParseColor(s)
	if err != nil {
		t.Fatalf("ParseColor(%q): %v", s, err)
	}
	return c
}

func TestResolveOrder(t *testing.T) {
	tokens := Tokens{
		TokenPrimary:    "10 50% 50%",
		TokenForeground: "20 50% 50%",
	}

	if got := Resolve(tokens, FallbackSuccess, TokenSuccess, TokenPrimary); got != "10 50% 50%" {
		t.Errorf("success should fall through to primary, got %q", got)
	}
	if got := Resolve(tokens, FallbackGrid, TokenMutedForeground, TokenForeground); got != "20 50% 50%" {
		t.Errorf("grid should fall through to foreground, got %q", got)
	}
	if got := Resolve(tokens, FallbackDestructive, TokenDestructive); got != FallbackDestructive {
		t.Errorf("missing destructive should use fallback, got %q", got)
	}
	if got := Resolve(nil, FallbackGrid, TokenForeground); got != FallbackGrid {
		t.Errorf("nil resolver should use fallback, got %q", got)
	}
}

func TestTokensBlankIsUnset(t *testing.T) {
	tokens := Tokens{TokenSuccess: "   "}
	if _, ok := tokens.Lookup(TokenSuccess); ok {
		t.Error("blank token should be treated as unset")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		wantHex string
		err     bool
	}{
		{"0 0% 50%", "#808080", false},
		{"hsl(0 100% 50%)", "#ff0000", false},
		{"120, 100%, 50%", "#00ff00", false},
		{"#3b82f6", "#3b82f6", false},
		{"240deg 100% 50%", "#0000ff", false},
		{"", "", true},
		{"red", "", true},
		{"1 2", "", true},
		{"a 50% 50%", "", true},
		{"10 x% 50%", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			if tt.err {
				if err == nil {
					t.Errorf("ParseColor(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor(%q): %v", tt.in, err)
			}
			if got := c.Clamped().Hex(); got != tt.wantHex {
				t.Errorf("ParseColor(%q) = %s, want %s", tt.in, got, tt.wantHex)
			}
		})
	}
}

func TestWithAlpha(t *testing.T) {
	c := mustParse(t, "#ff0000")
	got := WithAlpha(c, 0.5)
	if got.R != 255 || got.G != 0 || got.B != 0 {
		t.Errorf("WithAlpha rgb = %v, want red", got)
	}
	if got.A != 128 {
		t.Errorf("WithAlpha alpha = %d, want 128", got.A)
	}
	if WithAlpha(c, 2).A != 255 || WithAlpha(c, -1).A != 0 {
		t.Error("WithAlpha should clamp alpha to [0,1]")
	}
}

func TestNewPaletteFallbacks(t *testing.T) {
	p := NewPalette(nil)

	if want := WithAlpha(mustParse(t, FallbackSuccess), 1); p.TraceNormal != want {
		t.Errorf("TraceNormal = %v, want %v", p.TraceNormal, want)
	}
	if want := WithAlpha(mustParse(t, FallbackDestructive), 1); p.TraceRisk != want {
		t.Errorf("TraceRisk = %v, want %v", p.TraceRisk, want)
	}
	if want := WithAlpha(mustParse(t, FallbackGrid), alphaGridMinor); p.GridMinor != want {
		t.Errorf("GridMinor = %v, want %v", p.GridMinor, want)
	}
	if p.TraceNormal.G <= p.TraceNormal.R {
		t.Errorf("fallback trace should be green, got %v", p.TraceNormal)
	}
	if p.TraceRisk.R <= p.TraceRisk.G {
		t.Errorf("fallback risk trace should be red, got %v", p.TraceRisk)
	}
	if p.GridMajor.A <= p.GridMinor.A || p.Sweep.A <= p.GridMajor.A {
		t.Errorf("alphas should rise minor < major < sweep: %d %d %d", p.GridMinor.A, p.GridMajor.A, p.Sweep.A)
	}
}

func TestNewPaletteUsesTokens(t *testing.T) {
	p := NewPalette(Tokens{
		TokenSuccess:     "#0000ff",
		TokenDestructive: "not a color",
	})
	if p.TraceNormal.B != 255 || p.TraceNormal.G != 0 {
		t.Errorf("TraceNormal should come from success token, got %v", p.TraceNormal)
	}
	if want := WithAlpha(mustParse(t, FallbackDestructive), 1); p.TraceRisk != want {
		t.Errorf("unparseable destructive should fall back, got %v want %v", p.TraceRisk, want)
	}
}

func TestPaletteTrace(t *testing.T) {
	p := NewPalette(nil)
	stroke, glow := p.Trace(true)
	if stroke != p.TraceRisk || glow != p.GlowRisk {
		t.Error("Trace(true) should return risk colors")
	}
	stroke, glow = p.Trace(false)
	if stroke != p.TraceNormal || glow != p.GlowNormal {
		t.Error("Trace(false) should return normal colors")
	}
}
