// Package config loads the host configuration from an optional env file, an
// optional TOML file, and SERVICE_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFile = "specroute.toml"
	DefaultEnvFile    = ".env"

	EnvEnvFile = "SERVICE_ENV_FILE"
	EnvVersion = "SERVICE_VERSION"
)

// Config is the root configuration for a specroute host.
type Config struct {
	Server  ServerConfig `toml:"server"`
	HTTP    HTTPConfig   `toml:"http"`
	Log     LogConfig    `toml:"log"`
	Spec    SpecConfig   `toml:"spec"`
	Info    InfoConfig   `toml:"info"`
	Version string       `toml:"version"`
}

// Default returns a configuration populated with defaults only. The
// environment is not consulted.
func Default() *Config {
	cfg := &Config{}
	cfg.loadDefaults()
	cfg.Server.loadDefaults()
	cfg.HTTP.loadDefaults()
	cfg.Log.loadDefaults()
	cfg.Spec.loadDefaults()
	cfg.Info.loadDefaults()
	return cfg
}

// Load reads the env file and the TOML file at path, then finalizes all
// values. An empty path means DefaultConfigFile, which may be absent. An
// explicit path must exist.
func Load(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	switch _, err := os.Stat(path); {
	case err == nil:
		loaded, err := load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case explicit || !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// Parse decodes TOML data and finalizes it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return &cfg, nil
}

// Finalize applies defaults, environment overrides, and validation to every
// section.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.HTTP.Finalize(); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	if err := c.Log.Finalize(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Spec.Finalize(); err != nil {
		return fmt.Errorf("spec: %w", err)
	}
	if err := c.Info.Finalize(); err != nil {
		return fmt.Errorf("info: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.Version == "" {
		c.Version = "dev"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvVersion); v != "" {
		c.Version = v
	}
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// loadEnvFile never overrides variables that are already set.
func loadEnvFile() error {
	if path := os.Getenv(EnvEnvFile); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
		return nil
	}

	if _, err := os.Stat(DefaultEnvFile); err != nil {
		return nil
	}
	if err := godotenv.Load(DefaultEnvFile); err != nil {
		return fmt.Errorf("load env file %s: %w", DefaultEnvFile, err)
	}
	return nil
}
