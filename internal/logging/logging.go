// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultLevel is used when no level is configured
const DefaultLevel = "warn"

// Options controls where logs go and how much is written
type Options struct {
	// Level is a zerolog level name (trace, debug, info, warn, error, disabled)
	Level string
	// File, when set, receives JSON lines instead of the console writer
	File string
	// Writer overrides stderr for console output
	Writer io.Writer
	// Caller adds file:line to every event
	Caller bool
	// Quiet discards console output; used while a full-screen UI owns the terminal
	Quiet bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup builds a logger from opts, installs it as the global logger and
// returns it together with a closer for any opened log file.
func Setup(opts Options) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var (
		out    io.Writer
		closer io.Closer = nopCloser{}
	)

	switch {
	case opts.File != "":
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer = f, f
	case opts.Quiet:
		out = io.Discard
	default:
		w := opts.Writer
		if w == nil {
			w = os.Stderr
		}
		out = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    !isTerminal(w),
			TimeFormat: time.Kitchen,
		}
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if opts.Caller {
		ctx = ctx.Caller()
	}
	logger := ctx.Logger()

	zerolog.SetGlobalLevel(level)
	log.Logger = logger
	return logger, closer, nil
}

// ParseLevel accepts zerolog level names; empty means DefaultLevel
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		s = DefaultLevel
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
