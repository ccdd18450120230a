// ecgmon is a terminal ECG monitor. It synthesizes a heartbeat trace, draws
// it on a braille canvas, and walks through the risk, emergency and
// nearby-hospital screens of a cardiac alert flow.
//
// Usage:
//
//	ecgmon                      # Auto-discover .ecgmon/config.yaml
//	ecgmon --config <path>      # Use specific config file
//	ecgmon --view risk          # Start in a specific view
//	ecgmon --theme theme.yaml   # Load color tokens (reloaded on change)
//	ecgmon --fps 30             # Frame rate of the trace
//	ecgmon --json --frames 900  # Run headless and dump the state as JSON
//	ecgmon --json --risk        # Same, in risk mode
//	ecgmon --version            # Print version and exit
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/daviddao/ecgmon/internal/config"
	"github.com/daviddao/ecgmon/internal/engine"
	"github.com/daviddao/ecgmon/internal/logger"
	"github.com/daviddao/ecgmon/internal/notify"
	"github.com/daviddao/ecgmon/internal/snapshot"
	"github.com/daviddao/ecgmon/internal/theme"
	"github.com/daviddao/ecgmon/internal/vitals"
)

// Version is set via ldflags at build time (e.g. -X main.Version=v0.1.0).
var Version = "dev"

// parseViewFlag maps a --view flag string to a viewID.
func parseViewFlag(s string) (viewID, error) {
	switch strings.ToLower(s) {
	case "normal", "normal-ecg", "1":
		return viewNormal, nil
	case "risk", "risk-ecg", "2":
		return viewRisk, nil
	case "emergency", "3":
		return viewEmergency, nil
	case "map", "hospital-map", "hospitals", "4":
		return viewMap, nil
	default:
		return 0, fmt.Errorf("unknown view %q (valid: normal, risk, emergency, map)", s)
	}
}

// jsonOutput is the structure for --json mode.
type jsonOutput struct {
	Version  string                 `json:"version"`
	Mode     string                 `json:"mode"`
	Vitals   vitals.Reading         `json:"vitals"`
	Snapshot *snapshot.DataSnapshot `json:"snapshot"`
}

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: auto-discover)")
	viewFlag := flag.String("view", "", "start in specific view (normal|risk|emergency|map)")
	fpsFlag := flag.Int("fps", 0, "frame rate of the trace (default: engine.fps)")
	themeFlag := flag.String("theme", "", "color token file, reloaded on change")
	jsonMode := flag.Bool("json", false, "run headless and dump the engine state as JSON (no TUI)")
	framesFlag := flag.Int("frames", 600, "frames to simulate in --json mode")
	riskFlag := flag.Bool("risk", false, "start in risk mode")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("ecgmon %s\n", Version)
		os.Exit(0)
	}

	cfg, cfgPath, err := config.Resolve(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ecgmon: %v\n", err)
		os.Exit(1)
	}

	if *fpsFlag > 0 {
		cfg.Engine.FPS = *fpsFlag
	}
	if *themeFlag != "" {
		cfg.Theme.File = *themeFlag
	}
	if *viewFlag != "" {
		v, err := parseViewFlag(*viewFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ecgmon: %v\n", err)
			os.Exit(1)
		}
		cfg.UI.StartView = config.Views[v]
	} else if *riskFlag {
		cfg.UI.StartView = config.Views[viewRisk]
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "ecgmon: config: %v\n", err)
		os.Exit(1)
	}

	// --json mode: simulate, print JSON, exit.
	if *jsonMode {
		if err := runJSON(os.Stdout, cfg, *framesFlag, *riskFlag); err != nil {
			fmt.Fprintf(os.Stderr, "ecgmon: json: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := runTUI(cfg, cfgPath); err != nil {
		fmt.Fprintf(os.Stderr, "ecgmon: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg *config.Config, cfgPath string) error {
	lg, err := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if err != nil {
		return err
	}
	defer lg.Close()
	lg.WithFields(logrus.Fields{
		"version": Version,
		"config":  cfgPath,
		"fps":     cfg.Engine.FPS,
	}).Info("starting")

	start, err := parseViewFlag(cfg.UI.StartView)
	if err != nil {
		return err
	}

	notifier, err := buildNotifier(cfg, lg)
	if err != nil {
		return err
	}

	sched := engine.NewTickScheduler(cfg.Engine.FPS)
	eng := engine.New(cfg.EngineSettings(),
		engine.WithScheduler(sched),
		engine.WithLogger(lg.Entry),
	)

	m := newModel(eng, sched, vitals.New(start == viewRisk, nil), notifier, lg.Entry)
	m.notifyTimeout = cfg.Notify.Timeout

	var w *theme.Watcher
	if cfg.Theme.File != "" {
		if tokens, err := theme.LoadFile(cfg.Theme.File); err != nil {
			lg.WithError(err).Warn("theme not loaded, using fallback colors")
		} else {
			m = m.applyTheme(tokens)
		}
		w, err = theme.NewWatcher(cfg.Theme.File)
		if err != nil {
			return fmt.Errorf("watch theme: %w", err)
		}
		defer w.Close()
	}

	m = m.enter(start)

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Feed theme reloads into the TUI.
	if w != nil {
		go func() {
			for r := range w.Reloads() {
				p.Send(themeLoadedMsg{tokens: r.Tokens, err: r.Err})
			}
		}()
	}

	_, err = p.Run()
	lg.Info("stopped")
	return err
}

// buildNotifier always logs alerts and adds Telegram when it is enabled.
func buildNotifier(cfg *config.Config, lg *logger.Logger) (notify.Notifier, error) {
	n := notify.Multi{notify.LogNotifier{Log: lg.WithField("component", "notify")}}
	if !cfg.Telegram.Enabled {
		return n, nil
	}
	tg, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID,
		cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelay, cfg.Notify.Timeout)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return append(n, tg), nil
}

// runJSON advances a detached engine by frames and writes the result. The
// seed defaults to 1 so repeated runs print the same trace.
func runJSON(w io.Writer, cfg *config.Config, frames int, risk bool) error {
	ec := cfg.EngineSettings()
	if ec.Seed == 0 {
		ec.Seed = 1
	}
	eng := engine.New(ec)
	eng.SetMode(risk)

	mon := vitals.New(risk, rand.New(rand.NewSource(ec.Seed)))
	perReading := int(vitals.Interval.Seconds()) * cfg.Engine.FPS
	for i := 1; i <= frames; i++ {
		eng.Frame()
		if perReading > 0 && i%perReading == 0 {
			mon.Step()
		}
	}

	out := buildJSONOutput(snapshot.Build(eng.Snapshot()), mon.Reading())
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// buildJSONOutput converts a snapshot into the JSON output structure.
func buildJSONOutput(snap *snapshot.DataSnapshot, r vitals.Reading) jsonOutput {
	mode := "normal"
	if snap.Engine.Risk {
		mode = "risk"
	}
	return jsonOutput{
		Version:  Version,
		Mode:     mode,
		Vitals:   r,
		Snapshot: snap,
	}
}
