package config

import (
	"fmt"
	"strings"

	"github.com/drblury/specroute/info"
)

const (
	EnvInfoDisabled = "SERVICE_INFO_DISABLED"
	EnvInfoPrefix   = "SERVICE_INFO_PREFIX"
	EnvInfoUI       = "SERVICE_INFO_UI"
)

var infoUIs = []string{"stoplight", "scalar", "swaggerui", "redoc"}

// InfoConfig controls the service endpoints mounted beside the bound routes.
type InfoConfig struct {
	Disabled bool   `toml:"disabled"`
	Prefix   string `toml:"prefix"`
	UI       string `toml:"ui"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *InfoConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.validate()
}

func (c *InfoConfig) loadDefaults() {
	if c.Prefix == "" {
		c.Prefix = "/info"
	}
	if c.UI == "" {
		c.UI = "stoplight"
	}
}

func (c *InfoConfig) loadEnv() error {
	envString(EnvInfoPrefix, &c.Prefix)
	envString(EnvInfoUI, &c.UI)
	c.Prefix = strings.TrimRight(c.Prefix, "/")
	c.UI = strings.ToLower(c.UI)
	return envBool(EnvInfoDisabled, &c.Disabled)
}

func (c *InfoConfig) validate() error {
	if err := info.CheckPrefix(c.Prefix); err != nil {
		return err
	}
	for _, ui := range infoUIs {
		if c.UI == ui {
			return nil
		}
	}
	return fmt.Errorf("invalid ui %q: want one of %s", c.UI, strings.Join(infoUIs, ", "))
}
