// Package logger builds the process logger.
//
// The TUI owns the terminal, so log output goes to a file or nowhere.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Options selects level, format and destination.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text or json
	File   string // empty discards output
}

// Logger is a configured logrus logger tagged with a session id.
type Logger struct {
	*log.Entry
	Session string
	closer  io.Closer
}

// New opens the log destination and returns a Logger. Close releases the
// file, if any.
func New(opts Options) (*Logger, error) {
	l := log.New()

	level, err := log.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", opts.Level, err)
	}
	l.SetLevel(level)

	switch opts.Format {
	case "json":
		// Report nano timestamps
		l.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	case "", "text":
		l.SetFormatter(&log.TextFormatter{TimestampFormat: time.RFC3339Nano, DisableColors: true})
	default:
		return nil, fmt.Errorf("log format %q: want text or json", opts.Format)
	}

	var closer io.Closer
	if opts.File == "" {
		// send log to io.Discard
		l.SetOutput(io.Discard)
	} else {
		f, err := os.OpenFile(opts.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.SetOutput(f)
		closer = f
	}

	session := uuid.NewString()
	return &Logger{
		Entry:   l.WithField("session", session),
		Session: session,
		closer:  closer,
	}, nil
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
