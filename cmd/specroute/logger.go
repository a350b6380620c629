package main

import (
	"io"
	"log/slog"

	"github.com/lmittmann/tint"

	"github.com/drblury/specroute/config"
)

// newLogger returns a JSON logger or a tint console logger, colored only when
// w is a terminal.
func newLogger(w io.Writer, cfg config.LogConfig, color bool) *slog.Logger {
	level := cfg.SlogLevel()
	if cfg.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		NoColor:    !color,
		TimeFormat: "2006-01-02 15:04:05.000",
	}))
}
