package config

import (
	"fmt"
	"time"
)

const (
	EnvHTTPRequestTimeout = "SERVICE_REQUEST_TIMEOUT"
	EnvHTTPMaxBodyBytes   = "SERVICE_MAX_BODY_BYTES"
	EnvHTTPCORSOrigins    = "SERVICE_CORS_ORIGINS"

	DefaultMaxBodyBytes int64 = 1 << 20
)

// HTTPConfig controls the host middleware chain.
type HTTPConfig struct {
	RequestTimeout string     `toml:"request_timeout"`
	MaxBodyBytes   int64      `toml:"max_body_bytes"`
	CORS           CORSConfig `toml:"cors"`
	// QuietRoutes are paths whose successful requests are not access-logged.
	QuietRoutes []string `toml:"quiet_routes"`
}

// CORSConfig holds CORS policy settings. CORS is off while Origins is empty.
type CORSConfig struct {
	Origins          []string `toml:"origins"`
	AllowedMethods   []string `toml:"allowed_methods"`
	AllowedHeaders   []string `toml:"allowed_headers"`
	AllowCredentials bool     `toml:"allow_credentials"`
	MaxAge           int      `toml:"max_age"`
}

// Enabled reports whether any origin is allowed.
func (c *CORSConfig) Enabled() bool {
	return len(c.Origins) > 0
}

// RequestTimeoutDuration returns RequestTimeout as a time.Duration.
func (c *HTTPConfig) RequestTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.RequestTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *HTTPConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.validate()
}

func (c *HTTPConfig) loadDefaults() {
	if c.RequestTimeout == "" {
		c.RequestTimeout = "30s"
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if c.CORS.MaxAge == 0 {
		c.CORS.MaxAge = 3600
	}
}

func (c *HTTPConfig) loadEnv() error {
	envString(EnvHTTPRequestTimeout, &c.RequestTimeout)
	envList(EnvHTTPCORSOrigins, &c.CORS.Origins)
	return envInt64(EnvHTTPMaxBodyBytes, &c.MaxBodyBytes)
}

func (c *HTTPConfig) validate() error {
	if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request_timeout: %w", err)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid max_body_bytes: %d", c.MaxBodyBytes)
	}
	if c.CORS.MaxAge < 0 {
		return fmt.Errorf("invalid cors max_age: %d", c.CORS.MaxAge)
	}
	return nil
}
