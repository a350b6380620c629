package config

import (
	"fmt"
	"log/slog"
	"strings"
)

const (
	EnvLogLevel  = "SERVICE_LOG_LEVEL"
	EnvLogFormat = "SERVICE_LOG_FORMAT"

	LogFormatText = "text"
	LogFormatJSON = "json"
)

// LogConfig selects the level and output format of the process logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// SlogLevel returns Level as a slog.Level, falling back to info.
func (c *LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *LogConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Override replaces the non-empty values and validates the result. Command
// line flags use it after Finalize so they win over the environment.
func (c *LogConfig) Override(level, format string) error {
	if level != "" {
		c.Level = level
	}
	if format != "" {
		c.Format = strings.ToLower(format)
	}
	return c.validate()
}

func (c *LogConfig) loadDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = LogFormatText
	}
}

func (c *LogConfig) loadEnv() {
	envString(EnvLogLevel, &c.Level)
	envString(EnvLogFormat, &c.Format)
	c.Format = strings.ToLower(c.Format)
}

func (c *LogConfig) validate() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return fmt.Errorf("invalid level %q", c.Level)
	}
	switch c.Format {
	case LogFormatText, LogFormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format %q: want %s or %s", c.Format, LogFormatText, LogFormatJSON)
	}
}
