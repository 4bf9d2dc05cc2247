package logging

import (
	"os"
	"strings"
	"time"

	"github.com/apexshine/detailbooking/config"
	"github.com/rs/zerolog"
)

// New builds the process logger. JSON to stdout by default, console format
// for local runs, info level when the configured level does not parse.
func New(cfg config.LoggingConfig, component string) zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}

	var logger zerolog.Logger
	if strings.ToLower(strings.TrimSpace(cfg.Format)) == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}

	return logger.Level(level).With().
		Timestamp().
		Str("component", component).
		Logger()
}
