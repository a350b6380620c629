package config

const (
	EnvSpecPath   = "SERVICE_SPEC_PATH"
	EnvSpecStrict = "SERVICE_SPEC_STRICT"
)

// SpecConfig locates the API document and controls how strictly it is checked
// at boot.
type SpecConfig struct {
	Path string `toml:"path"`
	// Strict runs full OpenAPI validation before binding.
	Strict bool `toml:"strict"`
}

// Finalize applies defaults and environment variable overrides.
func (c *SpecConfig) Finalize() error {
	c.loadDefaults()
	envString(EnvSpecPath, &c.Path)
	return envBool(EnvSpecStrict, &c.Strict)
}

func (c *SpecConfig) loadDefaults() {
	if c.Path == "" {
		c.Path = "openapi.yaml"
	}
}
