package recipe

import "errors"

// DefaultDir is where recipes are looked up when no directory is configured.
const DefaultDir = "./recipes"

// Config lists the directories recipes are loaded from, searched in order.
type Config struct {
	Dirs []string `yaml:"dirs" mapstructure:"dirs"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if len(c.Dirs) == 0 {
		c.Dirs = []string{DefaultDir}
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	for _, d := range c.Dirs {
		if d == "" {
			return errors.New("recipes.dirs must not contain empty entries")
		}
	}
	return nil
}
