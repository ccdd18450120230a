package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/daviddao/ecgmon/internal/canvas"
	"github.com/daviddao/ecgmon/internal/engine"
	"github.com/daviddao/ecgmon/internal/notify"
	"github.com/daviddao/ecgmon/internal/snapshot"
	"github.com/daviddao/ecgmon/internal/theme"
	"github.com/daviddao/ecgmon/internal/vitals"
)

// --- Messages ---

type themeLoadedMsg struct {
	tokens theme.Tokens
	err    error
}

type snapshotReadyMsg struct {
	snap *snapshot.DataSnapshot
}

type alertSentMsg struct {
	kind notify.Kind
	err  error
}

type tickMsg struct{}

type vitalsTickMsg struct{}

type pulseMsg struct{}

// pulsePeriod is how long the emergency card stays on each side of a pulse.
const pulsePeriod = 1500 * time.Millisecond

// --- Key bindings ---

type keyMap struct {
	Quit      key.Binding
	Next      key.Binding
	Prev      key.Binding
	Help      key.Binding
	Emergency key.Binding
	Call      key.Binding
	Hospitals key.Binding
	Contacts  key.Binding
	Distance  key.Binding
	Enter     key.Binding
	Esc       key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Next:      key.NewBinding(key.WithKeys("right", "tab"), key.WithHelp("→/tab", "next screen")),
	Prev:      key.NewBinding(key.WithKeys("left", "shift+tab"), key.WithHelp("←", "previous screen")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Emergency: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "emergency")),
	Call:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "call emergency")),
	Hospitals: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "nearby hospitals")),
	Contacts:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notify contacts")),
	Distance:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "distance filter")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "navigate")),
	Esc:       key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
}

// viewKeys maps single keys to views for fast navigation.
var viewKeys = map[string]viewID{
	"1": viewNormal,
	"2": viewRisk,
	"3": viewEmergency,
	"4": viewMap,
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Emergency, k.Help, k.Quit},
		{k.Call, k.Hospitals, k.Contacts},
		{k.Distance, k.Enter, k.Esc},
	}
}

// contextHelp returns help text appropriate for the current view.
func contextHelp(v viewID) string {
	switch v {
	case viewEmergency:
		return "c: call | h: hospitals | n: contacts | 1-4/←→: screens | ?: help | q: quit"
	case viewMap:
		return "enter: navigate | d: distance | esc: back | 1-4/←→: screens | ?: help | q: quit"
	default:
		return "e: emergency | 1-4/←→: screens | ?: help | q: quit"
	}
}

// --- Views ---

type viewID int

const (
	viewNormal viewID = iota
	viewRisk
	viewEmergency
	viewMap
	viewCount // sentinel
)

func (v viewID) String() string {
	switch v {
	case viewNormal:
		return "Normal ECG"
	case viewRisk:
		return "Risk ECG"
	case viewEmergency:
		return "Emergency"
	case viewMap:
		return "Hospital Map"
	}
	return "?"
}

func (v viewID) ecg() bool { return v == viewNormal || v == viewRisk }

// --- Model ---

type uiModel struct {
	eng      *engine.Engine
	sched    *engine.TickScheduler
	vitals   *vitals.Monitor
	notifier notify.Notifier
	log      *logrus.Entry

	// One canvas per ECG screen, plus the street map.
	traces  [2]*canvas.Canvas
	mapView *canvas.Canvas

	tokens        theme.Tokens
	notifyTimeout time.Duration

	activeView viewID
	entered    bool
	width      int
	height     int
	distance   int // index into distanceFilters
	pulse      pulse

	help     help.Model
	showHelp bool

	snap     *snapshot.DataSnapshot
	status   string
	statusAt time.Time
}

func newModel(eng *engine.Engine, sched *engine.TickScheduler, mon *vitals.Monitor, n notify.Notifier, log *logrus.Entry) uiModel {
	bg := eng.Palette().Background
	traces := [2]*canvas.Canvas{canvas.New(0, 0), canvas.New(0, 0)}
	mapView := canvas.New(0, 0)
	for _, c := range append(traces[:], mapView) {
		c.SetBackground(bg)
	}
	return uiModel{
		eng:           eng,
		sched:         sched,
		vitals:        mon,
		notifier:      n,
		log:           log.WithField("component", "ui"),
		traces:        traces,
		mapView:       mapView,
		notifyTimeout: 10 * time.Second,
		pulse:         newPulse(sched.Interval()),
		help:          help.New(),
		snap:          snapshot.Build(eng.Snapshot()),
	}
}

func (m uiModel) Init() tea.Cmd {
	m.eng.Start()
	return tea.Batch(
		m.sched.Cmd(),
		tickEvery(),
		vitalsTick(),
		pulseTick(),
	)
}

func tickEvery() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{}
	})
}

func vitalsTick() tea.Cmd {
	return tea.Tick(vitals.Interval, func(t time.Time) tea.Msg {
		return vitalsTickMsg{}
	})
}

func pulseTick() tea.Cmd {
	return tea.Tick(pulsePeriod, func(t time.Time) tea.Msg {
		return pulseMsg{}
	})
}

// enter makes v the active view. ECG views attach their canvas and set the
// engine mode; the others detach so the signal keeps running off screen.
// Re-entering the active view changes nothing.
func (m uiModel) enter(v viewID) uiModel {
	if m.entered && v == m.activeView {
		return m
	}
	m.entered = true
	m.activeView = v

	switch v {
	case viewNormal, viewRisk:
		risk := v == viewRisk
		m.eng.SetMode(risk)
		m.eng.Attach(m.traces[v])
		m.vitals.Reset(risk)
	case viewEmergency:
		m.eng.Attach(nil)
	case viewMap:
		m.eng.Attach(nil)
		drawHospitalMap(m.mapView, m.tokens)
	}
	m.log.WithField("view", v.String()).Debug("view changed")
	return m
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	// Attach and Frame may have requested the next frame.
	return m, tea.Batch(cmd, m.sched.Cmd())
}

func (m uiModel) update(msg tea.Msg) (uiModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Check single-key view shortcuts first (always available).
		if v, ok := viewKeys[msg.String()]; ok {
			return m.enter(v), nil
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Next):
			return m.enter((m.activeView + 1) % viewCount), nil

		case key.Matches(msg, keys.Prev):
			return m.enter((m.activeView + viewCount - 1) % viewCount), nil

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp

		case key.Matches(msg, keys.Emergency):
			if m.activeView.ecg() {
				return m.enter(viewEmergency), nil
			}

		case key.Matches(msg, keys.Call):
			if m.activeView == viewEmergency {
				return m, m.raise(notify.KindEmergencyCall)
			}

		case key.Matches(msg, keys.Hospitals):
			if m.activeView == viewEmergency {
				return m.enter(viewMap), m.raise(notify.KindHospitals)
			}

		case key.Matches(msg, keys.Contacts):
			if m.activeView == viewEmergency {
				return m, m.raise(notify.KindContacts)
			}

		case key.Matches(msg, keys.Distance):
			if m.activeView == viewMap {
				m.distance = (m.distance + 1) % len(distanceFilters)
			}

		case key.Matches(msg, keys.Enter):
			if m.activeView == viewMap && len(visibleHospitals(m.distance)) > 0 {
				return m, m.raise(notify.KindNavigate)
			}

		case key.Matches(msg, keys.Esc):
			switch m.activeView {
			case viewMap:
				return m.enter(viewEmergency), nil
			case viewEmergency:
				return m.enter(viewRisk), nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		cols, rows := canvasSize(m.width, m.height)
		for _, c := range m.traces {
			c.SetSize(cols, rows)
		}
		m.mapView.SetSize(cols, rows)
		m.eng.Redraw()
		drawHospitalMap(m.mapView, m.tokens)

	case engine.FrameMsg:
		m.eng.Frame()
		m.pulse.step()

	case pulseMsg:
		m.pulse.toggle()
		return m, pulseTick()

	case vitalsTickMsg:
		if m.activeView.ecg() {
			m.vitals.Step()
		}
		return m, vitalsTick()

	case tickMsg:
		return m, tea.Batch(tickEvery(), m.refreshSnapshot())

	case snapshotReadyMsg:
		m.snap = msg.snap

	case alertSentMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).WithField("kind", string(msg.kind)).Error("alert failed")
			m = m.setStatus(fmt.Sprintf("%s failed: %v", msg.kind.Title(), msg.err))
		} else {
			m = m.setStatus(msg.kind.Title())
		}

	case themeLoadedMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("theme reload failed")
			m = m.setStatus("theme: " + msg.err.Error())
			return m, nil
		}
		m = m.applyTheme(msg.tokens)
		m = m.setStatus("theme reloaded")
	}

	return m, nil
}

func (m uiModel) setStatus(s string) uiModel {
	m.status = s
	m.statusAt = time.Now()
	return m
}

// applyTheme re-resolves every color from tokens and repaints.
func (m uiModel) applyTheme(tokens theme.Tokens) uiModel {
	m.tokens = tokens
	m.eng.SetTheme(tokens)
	bg := m.eng.Palette().Background
	for _, c := range append(m.traces[:], m.mapView) {
		c.SetBackground(bg)
	}
	m.eng.Redraw()
	drawHospitalMap(m.mapView, m.tokens)
	return m
}

// refreshSnapshot copies the engine state on the update goroutine and
// summarizes it in the background.
func (m uiModel) refreshSnapshot() tea.Cmd {
	s := m.eng.Snapshot()
	return func() tea.Msg {
		return snapshotReadyMsg{snap: snapshot.Build(s)}
	}
}

// raise sends an alert of the given kind with the current vitals.
func (m uiModel) raise(kind notify.Kind) tea.Cmd {
	r := m.vitals.Reading()
	a := notify.Alert{
		Kind:      kind,
		Message:   alertTitle + ". " + alertAdvice,
		HeartRate: r.HeartRate,
		RespRate:  r.RespRate,
		Risk:      m.eng.Risk(),
		At:        time.Now(),
	}
	if kind == notify.KindHospitals || kind == notify.KindNavigate {
		if hs := visibleHospitals(m.distance); len(hs) > 0 {
			a.Hospital = hs[0].String()
		}
	}

	n, timeout := m.notifier, m.notifyTimeout
	m.log.WithField("kind", string(kind)).Info("raising alert")
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return alertSentMsg{kind: kind, err: n.Notify(ctx, a)}
	}
}
