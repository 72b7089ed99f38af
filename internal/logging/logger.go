// Marketbasket - Market Basket Analysis and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration. It mirrors the logging section of the
// server config file.
type Config struct {
	// Level is one of trace, debug, info, warn, error, fatal, panic or disabled.
	Level string

	// Format is json or console.
	Format string

	// Caller adds file:line to every entry.
	Caller bool

	Timestamp bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig returns JSON output at info level with timestamps.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Timestamp: true,
		Output:    os.Stderr,
	}
}

var global atomic.Pointer[zerolog.Logger]

//nolint:gochecknoinits // main may log before Init runs
func init() {
	Init(DefaultConfig())
}

// Init builds the process logger from cfg and sets the global level.
// Later calls replace the logger.
func Init(cfg Config) {
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	logger := build(cfg)
	global.Store(&logger)
}

func build(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zctx := zerolog.New(out).With()
	if cfg.Timestamp {
		zctx = zctx.Timestamp()
	}
	if cfg.Caller {
		zctx = zctx.Caller()
	}
	return zctx.Logger()
}

// ParseLevel maps a level name to a zerolog.Level. "warning" is accepted as
// an alias for warn; empty and unknown names map to info.
func ParseLevel(level string) zerolog.Level {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "warning" {
		name = "warn"
	}
	if name == "" {
		return zerolog.InfoLevel
	}
	l, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

// Logger returns the process logger.
func Logger() zerolog.Logger {
	return *global.Load()
}

// Info starts an info entry on the process logger.
//
//	logging.Info().Str("addr", addr).Msg("Server starting")
func Info() *zerolog.Event {
	return global.Load().Info()
}

// Warn starts a warn entry on the process logger.
func Warn() *zerolog.Event {
	return global.Load().Warn()
}

// Error starts an error entry on the process logger.
func Error() *zerolog.Event {
	return global.Load().Error()
}

// Fatal starts a fatal entry; the process exits after it is written.
func Fatal() *zerolog.Event {
	return global.Load().Fatal()
}

// WithComponent returns a child of the process logger tagged with component.
// Long-lived services take it by value at construction.
//
//	st, err := store.Open(cfg, logging.WithComponent("store"))
func WithComponent(component string) zerolog.Logger {
	return global.Load().With().Str("component", component).Logger()
}
