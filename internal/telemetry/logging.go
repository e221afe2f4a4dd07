package telemetry

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// LogConfig selects the handler for NewLogger.
type LogConfig struct {
	Writer    io.Writer
	Debug     bool
	JSON      bool
	AddSource bool
}

// NewLogger returns a JSON logger or a tint text logger.
func NewLogger(cfg LogConfig) *slog.Logger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	if cfg.JSON {
		return slog.New(slog.NewJSONHandler(cfg.Writer, &slog.HandlerOptions{
			Level:     level,
			AddSource: cfg.AddSource,
		}))
	}

	return slog.New(tint.NewHandler(cfg.Writer, &tint.Options{
		Level:      level,
		AddSource:  cfg.AddSource,
		TimeFormat: time.DateTime,
		NoColor:    !isTerminal(cfg.Writer),
	}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
