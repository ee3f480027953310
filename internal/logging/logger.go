// Package logging builds the zerolog loggers used by the handler and the CLI.
// Lambda invocations log JSON to stderr so the platform log stream can index
// fields; terminals get the console writer.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

const (
	FormatAuto    = "auto"
	FormatJSON    = "json"
	FormatConsole = "console"
)

type Config struct {
	Level  string
	Format string
	Output io.Writer
	Fields map[string]string
}

var defaultLogger = New(Config{})

// New creates a logger from cfg. Unknown levels fall back to info.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	if useConsole(cfg.Format, out) {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	level := ParseLevel(cfg.Level)
	logCtx := zerolog.New(out).Level(level).With().Timestamp()
	if level <= zerolog.DebugLevel {
		logCtx = logCtx.Caller()
	}
	for key, value := range cfg.Fields {
		logCtx = logCtx.Str(key, value)
	}

	return logCtx.Logger()
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
}

func ParseLevel(raw string) zerolog.Level {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return zerolog.InfoLevel
	}

	level, err := zerolog.ParseLevel(raw)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func useConsole(format string, out io.Writer) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatConsole:
		return true
	case FormatJSON:
		return false
	default:
		return isTerminal(out)
	}
}

func isTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
