package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	EnvServerHost            = "SERVICE_HOST"
	EnvServerPort            = "SERVICE_PORT"
	EnvServerReadTimeout     = "SERVICE_READ_TIMEOUT"
	EnvServerWriteTimeout    = "SERVICE_WRITE_TIMEOUT"
	EnvServerShutdownTimeout = "SERVICE_SHUTDOWN_TIMEOUT"

	DefaultPort = 3000
)

// ServerConfig holds listener parameters.
type ServerConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ReadTimeout     string `toml:"read_timeout"`
	WriteTimeout    string `toml:"write_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ReadTimeout)
	return d
}

// WriteTimeoutDuration returns WriteTimeout as a time.Duration.
func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.WriteTimeout)
	return d
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.validate()
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "1m"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "1m"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "15s"
	}
}

func (c *ServerConfig) loadEnv() error {
	envString(EnvServerHost, &c.Host)
	envString(EnvServerReadTimeout, &c.ReadTimeout)
	envString(EnvServerWriteTimeout, &c.WriteTimeout)
	envString(EnvServerShutdownTimeout, &c.ShutdownTimeout)
	return envInt(EnvServerPort, &c.Port)
}

func (c *ServerConfig) validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if _, err := time.ParseDuration(c.ReadTimeout); err != nil {
		return fmt.Errorf("invalid read_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.WriteTimeout); err != nil {
		return fmt.Errorf("invalid write_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}
