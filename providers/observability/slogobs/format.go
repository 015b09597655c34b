package slogobs

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the slog handler used by the Observer.
type Format string

const (
	// FormatText uses slog.TextHandler (key=value pairs, the default).
	FormatText Format = "text"

	// FormatJSON uses slog.JSONHandler, for log aggregation.
	FormatJSON Format = "json"
)

const (
	envLogFormat = "QUERCLE_LOG_FORMAT"
	envLogLevel  = "QUERCLE_LOG_LEVEL"
)

// ParseFormat maps a format name to a Format. Unknown names yield FormatText.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	default:
		return FormatText
	}
}

// ParseLevel maps a level name to a slog.Level. "trace" maps below debug;
// unknown names yield slog.LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FormatFromEnv reads QUERCLE_LOG_FORMAT.
func FormatFromEnv() Format {
	return ParseFormat(os.Getenv(envLogFormat))
}

// LevelFromEnv reads QUERCLE_LOG_LEVEL.
func LevelFromEnv() slog.Level {
	return ParseLevel(os.Getenv(envLogLevel))
}

// String returns the string representation of the Format.
func (f Format) String() string {
	return string(f)
}

func newHandler(format Format, level slog.Level, output io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == FormatJSON {
		return slog.NewJSONHandler(output, opts)
	}
	return slog.NewTextHandler(output, opts)
}
