package logging

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LevelEnvVar names the environment variable that selects the log level.
const LevelEnvVar = "FRAME_RENDER_LOG_LEVEL"

// Init initializes the global logger.
// level takes precedence when non-empty; otherwise FRAME_RENDER_LOG_LEVEL
// controls the level: debug, info, warn, error (default: info).
func Init(level string) {
	if level == "" {
		level = os.Getenv(LevelEnvVar)
	}
	zerolog.SetGlobalLevel(ParseLevel(level))

	log.Logger = log.Output(consoleWriter(os.Stderr))
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: out, NoColor: !IsTerminal(out)}
}

// IsTerminal reports whether w is a terminal file descriptor.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
