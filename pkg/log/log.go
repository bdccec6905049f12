// Package log implements tabula-gfx's format for logging different types of
// logs. Every level is a standard library logger that discards its output
// until a destination is set, so the gfx layer can log freely without forcing
// output on its callers.
// Provides debug, perf, info, warn, error and fatal loggers.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/muesli/termenv"
)

// Level identifies one of the loggers. Levels are ordered by severity.
type Level int

// The available levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelPerf
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
	// LevelOff disables every logger when passed to SetLevel.
	LevelOff
)

// The prefix labels for each of the loggers
const (
	debugLabel = "DBUG"
	perfLabel  = "PERF"
	infoLabel  = "INFO"
	warnLabel  = "WARN"
	errorLabel = "ERRR"
	fatalLabel = "FATL"
)

// ANSI foreground text color codes
const (
	brightRed     = "91"
	brightGreen   = "92"
	brightYellow  = "93"
	brightMagenta = "95"
	brightWhite   = "97"
	red           = "31"
)

type logger struct {
	*log.Logger
	label string
	color string
}

var loggers = [...]*logger{
	LevelDebug: {log.New(io.Discard, debugLabel+" ", log.LstdFlags|log.Lshortfile), debugLabel, brightMagenta},
	LevelPerf:  {log.New(io.Discard, perfLabel+" ", log.LstdFlags|log.Lshortfile|log.Lmicroseconds), perfLabel, brightGreen},
	LevelInfo:  {log.New(io.Discard, infoLabel+" ", log.LstdFlags), infoLabel, brightWhite},
	LevelWarn:  {log.New(io.Discard, warnLabel+" ", log.LstdFlags), warnLabel, brightYellow},
	LevelError: {log.New(io.Discard, errorLabel+" ", log.LstdFlags|log.Lshortfile), errorLabel, red},
	LevelFatal: {log.New(io.Discard, fatalLabel+" ", log.LstdFlags|log.Lshortfile|log.Lmicroseconds), fatalLabel, brightRed},
}

func (l Level) String() string {
	if l >= LevelDebug && l < LevelOff {
		return loggers[l].label
	}
	if l == LevelOff {
		return "OFF"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel converts a level name such as "debug" or "warn" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "dbug":
		return LevelDebug, nil
	case "perf":
		return LevelPerf, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error", "errr":
		return LevelError, nil
	case "fatal", "fatl":
		return LevelFatal, nil
	case "off", "none":
		return LevelOff, nil
	}
	return LevelOff, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// ErrUnknownLevel indicates that a level name could not be parsed.
const ErrUnknownLevel ConstErr = "unknown log level"

// SetOutput sets the output destination for the logger of the given level.
func SetOutput(l Level, out io.Writer) {
	if l < LevelDebug || l >= LevelOff {
		return
	}
	loggers[l].SetOutput(out)
}

// SetLevel sends every logger at or above min to out and discards the rest.
func SetLevel(min Level, out io.Writer) {
	for l := LevelDebug; l < LevelOff; l++ {
		if l >= min {
			loggers[l].SetOutput(out)
		} else {
			loggers[l].SetOutput(io.Discard)
		}
	}
}

// SetColorized toggles colored level prefixes on every logger.
func SetColorized(toggle bool) {
	for _, l := range loggers {
		setColorized(toggle, l.Logger, l.color, l.label)
	}
}

func setColorized(toggle bool, l *log.Logger, color, label string) {
	if !toggle {
		l.SetPrefix(label + " ")
		return
	}
	prefix := fmt.Sprintf("\033[%vm%v\033[0m ", color, label)
	l.SetPrefix(prefix)
}

// AutoColor enables colored prefixes when f is a terminal that supports
// colors and reports whether it did.
func AutoColor(f *os.File) bool {
	on := termenv.NewOutput(f).ColorProfile() != termenv.Ascii
	SetColorized(on)
	return on
}

// ConstErr is a string usable as a constant error value.
type ConstErr string

func (e ConstErr) Error() string {
	return string(e)
}
