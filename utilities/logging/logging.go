// Package logging provides the leveled, printf-style logger used across the
// module. A nil *Logger is valid and discards everything.
package logging

import (
	"fmt"
	"io"
	"log"
	"strings"

	"gopkg.in/yaml.v3"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// ParseLevel converts a level name to a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unrecognized log level %q", name)
	}
}

// UnmarshalYAML accepts either a level name or its number.
func (l *Level) UnmarshalYAML(value *yaml.Node) error {
	var number int
	if err := value.Decode(&number); err == nil {
		if number < int(LevelDebug) || number > int(LevelError) {
			return fmt.Errorf("log level %d out of range", number)
		}
		*l = Level(number)
		return nil
	}

	var name string
	if err := value.Decode(&name); err != nil {
		return fmt.Errorf("log level must be a name or a number: %w", err)
	}
	level, err := ParseLevel(name)
	if err != nil {
		return err
	}
	*l = level
	return nil
}

func (l Level) MarshalYAML() (interface{}, error) {
	return l.String(), nil
}

type Logger struct {
	out   *log.Logger
	level Level
}

// New creates a logger writing messages at `level` or above to `w`.
func New(w io.Writer, level Level) *Logger {
	return &Logger{
		out:   log.New(w, "", 0),
		level: level,
	}
}

func (lg *Logger) logf(level Level, prefix, format string, v ...interface{}) {
	if lg == nil || level < lg.level {
		return
	}
	lg.out.Printf(prefix+format, v...)
}

func (lg *Logger) Debugf(format string, v ...interface{}) {
	lg.logf(LevelDebug, "[DEBUG] ", format, v...)
}

func (lg *Logger) Infof(format string, v ...interface{}) {
	lg.logf(LevelInfo, "", format, v...)
}

func (lg *Logger) Warnf(format string, v ...interface{}) {
	lg.logf(LevelWarn, "warning: ", format, v...)
}

func (lg *Logger) Errorf(format string, v ...interface{}) {
	lg.logf(LevelError, "error: ", format, v...)
}
