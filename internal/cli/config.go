package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the per-project configuration file, looked up in the
// working directory when --config is not given.
const ConfigFileName = ".marlin.yaml"

// Config holds optional per-project settings.
type Config struct {
	// ContextVariable is the name bound as the implicit block parameter.
	// Defaults to "$it" when empty.
	ContextVariable string `yaml:"context_variable,omitempty"`

	// Format is the default output format ("text" or "json").
	// The --format flag overrides it.
	Format string `yaml:"format,omitempty"`

	// Cache is the default block cache path for the cache commands.
	// The --db flag overrides it.
	Cache string `yaml:"cache,omitempty"`
}

// LoadConfig reads a config file. A missing file is not an error: the
// zero Config is returned so every setting falls back to its default.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Format != "" && !isValidFormat(cfg.Format) {
		return Config{}, fmt.Errorf("config %s: invalid format %q: must be one of %v", path, cfg.Format, ValidFormats)
	}

	return cfg, nil
}
