package canvas

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

type styleKey struct {
	fg, bg string
	bold   bool
}

// Rune returns the character shown in a cell: text if any, else the braille
// pattern, else a space.
func (c *Canvas) Rune(col, row int) rune {
	cl, ok := c.cell(col, row)
	if !ok {
		return ' '
	}
	return cl.glyph()
}

// Foreground returns the blended color of a cell's dots or text.
func (c *Canvas) Foreground(col, row int) (colorful.Color, bool) {
	cl, ok := c.cell(col, row)
	switch {
	case !ok:
		return colorful.Color{}, false
	case cl.text != 0:
		return cl.textFG, true
	case cl.dots != 0:
		return cl.fg, true
	}
	return colorful.Color{}, false
}

// Tinted reports whether a glow was painted behind a cell.
func (c *Canvas) Tinted(col, row int) bool {
	cl, ok := c.cell(col, row)
	return ok && cl.tinted
}

func (c *Canvas) cell(col, row int) (cell, bool) {
	if col < 0 || row < 0 || col >= c.gridW || row >= c.gridH {
		return cell{}, false
	}
	return c.cells[row*c.gridW+col], true
}

func (cl cell) glyph() rune {
	switch {
	case cl.text != 0:
		return cl.text
	case cl.dots != 0:
		return rune(brailleBase + int(cl.dots))
	}
	return ' '
}

// Plain returns the canvas as unstyled text, one line per row.
func (c *Canvas) Plain() string {
	lines := make([]string, c.rows)
	for row := range lines {
		var b strings.Builder
		for col := 0; col < c.cols; col++ {
			b.WriteRune(c.Rune(col, row))
		}
		lines[row] = b.String()
	}
	return strings.Join(lines, "\n")
}

// View returns the canvas styled with lipgloss. Neighbouring cells that share
// colors are rendered as one span.
func (c *Canvas) View() string {
	styles := make(map[styleKey]lipgloss.Style)
	bg := c.bg.Hex()

	lines := make([]string, c.rows)
	for row := range lines {
		var (
			b    strings.Builder
			span strings.Builder
			cur  styleKey
		)
		flush := func() {
			if span.Len() == 0 {
				return
			}
			st, ok := styles[cur]
			if !ok {
				st = lipgloss.NewStyle().Background(lipgloss.Color(cur.bg)).Bold(cur.bold)
				if cur.fg != "" {
					st = st.Foreground(lipgloss.Color(cur.fg))
				}
				styles[cur] = st
			}
			b.WriteString(st.Render(span.String()))
			span.Reset()
		}

		for col := 0; col < c.cols; col++ {
			cl, _ := c.cell(col, row)
			key := styleKey{bg: bg}
			if cl.tinted {
				key.bg = cl.tint.Hex()
			}
			switch {
			case cl.text != 0:
				key.fg, key.bold = cl.textFG.Hex(), cl.bold
			case cl.dots != 0:
				key.fg = cl.fg.Hex()
			}
			if key != cur {
				flush()
				cur = key
			}
			span.WriteRune(cl.glyph())
		}
		flush()
		lines[row] = b.String()
	}
	return strings.Join(lines, "\n")
}
