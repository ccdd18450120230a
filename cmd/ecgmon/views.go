package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/daviddao/ecgmon/internal/canvas"
	"github.com/daviddao/ecgmon/internal/theme"
)

const (
	alertTitle  = "Possible Cardiac Arrest Risk"
	alertAdvice = "Seek Help Immediately"
)

// statusTTL is how long an action result stays in the status bar.
const statusTTL = 5 * time.Second

// chromeLines is what a screen draws around its canvas, at most.
const chromeLines = 9

// canvasSize returns the canvas grid for a terminal of the given size.
func canvasSize(width, height int) (cols, rows int) {
	cols = max(10, width-2)
	rows = max(4, height-3-chromeLines)
	return cols, rows
}

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Background(lipgloss.Color("#1E1E2E")).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#CDD6F4")).
			Background(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6C7086")).
				Background(lipgloss.Color("#313244")).
				Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89B4FA"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))

	traceBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#313244"))

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CDD6F4")).
			Background(lipgloss.Color("#313244")).
			Padding(0, 1)

	navActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89B4FA")).
			Underline(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CDD6F4")).
			Background(lipgloss.Color("#1E1E2E"))
)

// Fallbacks for the status colors when no theme sets them.
const (
	fallbackGood   = "#A6E3A1"
	fallbackBad    = "#F38BA8"
	fallbackButton = "#DC2626"
)

// tones are the styles that follow the success and destructive tokens.
type tones struct {
	normalBadge   lipgloss.Style
	riskBadge     lipgloss.Style
	ok            lipgloss.Style
	alarm         lipgloss.Style
	primaryButton lipgloss.Style
}

func tonesFor(r theme.Resolver) tones {
	good := lipgloss.Color(theme.ResolveColor(r, fallbackGood, theme.TokenSuccess).Hex())
	bad := lipgloss.Color(theme.ResolveColor(r, fallbackBad, theme.TokenDestructive).Hex())
	button := lipgloss.Color(theme.ResolveColor(r, fallbackButton, theme.TokenDestructive).Hex())

	badge := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#1E1E2E")).
		Padding(0, 1)
	return tones{
		normalBadge: badge.Background(good),
		riskBadge:   badge.Background(bad),
		ok:          lipgloss.NewStyle().Foreground(good).Bold(true),
		alarm:       lipgloss.NewStyle().Foreground(bad).Bold(true),
		primaryButton: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(button).
			Padding(0, 1),
	}
}

var (
	pulseDim    = colorful.Color{R: 0.35, G: 0.08, B: 0.08}
	pulseBright = colorful.Color{R: 0.94, G: 0.27, B: 0.27}
)

// --- View rendering ---

func (m uiModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	// Title bar.
	b.WriteString(m.renderTitleBar())
	b.WriteRune('\n')

	// Tab bar.
	b.WriteString(m.renderTabBar())
	b.WriteRune('\n')

	var content string
	switch m.activeView {
	case viewNormal, viewRisk:
		content = m.renderECG()
	case viewEmergency:
		content = m.renderEmergency()
	case viewMap:
		content = m.renderMap()
	}

	contentHeight := m.height - 3
	if m.showHelp {
		contentHeight -= 3
	}
	lines := strings.Split(content, "\n")
	if contentHeight > 0 && len(lines) > contentHeight {
		lines = lines[:contentHeight]
	}

	// Truncate each line to terminal width so content doesn't wrap
	// on resize. Uses ANSI-aware width measurement.
	b.WriteString(truncateLines(strings.Join(lines, "\n"), m.width))

	// Pad to fill screen.
	rendered := strings.Count(b.String(), "\n")
	for rendered < m.height-1 {
		b.WriteRune('\n')
		rendered++
	}

	// Help / status bar.
	if m.showHelp {
		b.WriteString(m.help.View(keys))
	} else {
		b.WriteString(m.renderStatusBar())
	}

	return b.String()
}

func (m uiModel) renderTitleBar() string {
	title := titleStyle.Render("ecgmon")
	stats := "no samples"
	if m.snap != nil {
		stats = fmt.Sprintf("%d samples | %d runs | risk %.0f%% | frame %d",
			m.snap.Stats.Samples,
			m.snap.Stats.Runs,
			m.snap.RiskShare()*100,
			m.snap.Engine.Frames,
		)
	}
	stats = dimStyle.Render(stats)
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(title)-lipgloss.Width(stats)-2))
	return title + gap + stats
}

func (m uiModel) renderTabBar() string {
	var tabs []string
	for i := viewID(0); i < viewCount; i++ {
		label := fmt.Sprintf("%d %s", i+1, i)
		if i == m.activeView {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (m uiModel) renderStatusBar() string {
	left := fmt.Sprintf(" %s", contextHelp(m.activeView))
	right := ""
	if m.status != "" && time.Since(m.statusAt) < statusTTL {
		right = m.status + " "
	}
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right)))
	return statusBarStyle.Render(left + gap + right)
}

// --- ECG screens ---

func (m uiModel) renderECG() string {
	risk := m.activeView == viewRisk
	r := m.vitals.Reading()
	tn := tonesFor(m.tokens)
	var b strings.Builder

	b.WriteString(centered(headerStyle.Render("‹  ECG  ♥"), m.width))
	b.WriteRune('\n')

	if risk {
		b.WriteString(tn.riskBadge.Render("Risk"))
	} else {
		b.WriteString(tn.normalBadge.Render("Normal"))
	}
	b.WriteRune('\n')

	b.WriteString(renderCanvas(m.traces[m.activeView]))
	b.WriteRune('\n')

	valueStyle := tn.ok
	if risk {
		valueStyle = tn.alarm
	}
	cells := []struct{ label, value string }{
		{"Heart Rate", fmt.Sprintf("%d bpm", r.HeartRate)},
		{"Resp Rate", fmt.Sprintf("%.1f s", r.RespRate)},
		{"Signal Quality", r.Quality},
	}
	colW := max(12, m.width/len(cells))
	var labels, values string
	for _, c := range cells {
		labels += dimStyle.Render(pad(c.label, colW))
		values += valueStyle.Render(pad(c.value, colW))
	}
	b.WriteString(labels)
	b.WriteRune('\n')
	b.WriteString(values)
	b.WriteString("\n\n")

	b.WriteString(renderNavBar(risk))
	return b.String()
}

// renderNavBar draws the bottom navigation. Emergency is highlighted while
// the risk trace is shown, History otherwise.
func renderNavBar(risk bool) string {
	items := []string{"History", "Share", "Emergency (e)"}
	active := 0
	if risk {
		active = 2
	}
	for i, it := range items {
		if i == active {
			items[i] = navActiveStyle.Render(it)
		} else {
			items[i] = dimStyle.Render(it)
		}
	}
	return strings.Join(items, "   ")
}

// --- Emergency screen ---

func (m uiModel) renderEmergency() string {
	tn := tonesFor(m.tokens)
	border := m.pulse.color(pulseDim, pulseBright)
	card := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(lipgloss.Color(border.Hex())).
		Padding(1, 2).
		Width(max(20, m.width-6))

	icon := "⚠"
	if m.pulse.lit() {
		icon = tn.alarm.Render("⚠")
	}

	var b strings.Builder
	b.WriteString(icon + "  " + tn.alarm.Render(alertTitle))
	b.WriteString("\n\n")
	b.WriteString(alertAdvice)
	b.WriteString("\n\n")
	b.WriteString(tn.primaryButton.Render("[c] Call Emergency"))
	b.WriteString("\n\n")
	b.WriteString(buttonStyle.Render("[h] Show Nearby Hospitals"))
	b.WriteString("\n\n")
	b.WriteString(buttonStyle.Render("[n] Notify Contacts"))

	return card.Render(b.String())
}

// --- Hospital map screen ---

func (m uiModel) renderMap() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("‹  Nearby hospitals"))
	b.WriteRune('\n')
	b.WriteString(dimStyle.Render("Distance: ") + distanceLabel(m.distance) + dimStyle.Render("  (d to change)"))
	b.WriteRune('\n')

	b.WriteString(renderCanvas(m.mapView))
	b.WriteRune('\n')

	hs := visibleHospitals(m.distance)
	if len(hs) == 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("No hospitals within %g km", distanceFilters[m.distance])))
		return b.String()
	}
	h := hs[0]
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#313244")).
		Padding(0, 1)
	body := headerStyle.Render(h.Name) + "\n" +
		fmt.Sprintf("⌖ %.1f km   ◷ %d min", h.DistanceKM, int(h.Drive.Minutes())) + "\n" +
		tonesFor(m.tokens).primaryButton.Render("[enter] Navigate")
	b.WriteString(card.Render(body))
	return b.String()
}

// --- Helpers ---

func renderCanvas(c *canvas.Canvas) string {
	return traceBoxStyle.Render(c.View())
}

func centered(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// truncateLines truncates each line in content to at most width visible
// characters, preserving ANSI escape codes. This prevents terminal line
// wrapping when the window is resized narrower.
func truncateLines(content string, width int) string {
	if width <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}
	return strings.Join(lines, "\n")
}
