package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/edvin/backupdash/internal/config"
)

// NewLogger creates a structured zerolog.Logger writing JSON to stdout, tagged
// with the service name and the selected backend.
func NewLogger(cfg *config.Config) zerolog.Logger {
	return newLogger(os.Stdout, cfg)
}

// NewLoggerTo is NewLogger writing to w; the CLI logs to stderr so tables on
// stdout stay clean.
func NewLoggerTo(w io.Writer, cfg *config.Config) zerolog.Logger {
	return newLogger(w, cfg)
}

func newLogger(w io.Writer, cfg *config.Config) zerolog.Logger {
	ctx := zerolog.New(w).With().Timestamp()

	if cfg.ServiceName != "" {
		ctx = ctx.Str("service", cfg.ServiceName)
	}
	if mode := cfg.BackendMode(); mode != "" {
		ctx = ctx.Str("backend", mode)
	} else {
		ctx = ctx.Str("backend", "unconfigured")
	}

	logger := ctx.Logger()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return logger.Level(level)
}
