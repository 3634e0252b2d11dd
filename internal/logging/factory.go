package logging

import (
	"fmt"
	"io"
	"log/slog"

	"go.uber.org/zap/zapcore"
)

// Supported values for the log_format setting.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatZap  = "zap"
)

// New builds a Logger writing to w in the given format. An empty format
// means text.
func New(format string, w io.Writer, debug bool) (Logger, error) {
	level := slog.LevelInfo
	zapLevel := zapcore.InfoLevel
	if debug {
		level = slog.LevelDebug
		zapLevel = zapcore.DebugLevel
	}
	opts := &slog.HandlerOptions{Level: level}

	switch format {
	case "", FormatText:
		return NewSlogLogger(slog.New(slog.NewTextHandler(w, opts))), nil
	case FormatJSON:
		return NewSlogLogger(slog.New(slog.NewJSONHandler(w, opts))), nil
	case FormatZap:
		return NewZapJSON(w, zapLevel), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
