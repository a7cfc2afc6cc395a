package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the a11ysnap configuration.
type Config struct {
	Source    string       `yaml:"source"`
	Loaders   []string     `yaml:"loaders"`
	Audits    []string     `yaml:"audits"`
	Renderers []string     `yaml:"renderers"`
	Parse     ParseConfig  `yaml:"parse"`
	Output    OutputConfig `yaml:"output"`
}

// ParseConfig controls traversal and description compilation.
type ParseConfig struct {
	Locale             string        `yaml:"locale"`
	Idiom              string        `yaml:"idiom"`
	LayoutDirection    string        `yaml:"layout_direction"`
	RotorResultLimit   int           `yaml:"rotor_result_limit"`
	Verbosity          string        `yaml:"verbosity"` // verbose, minimal or custom
	Include            IncludeConfig `yaml:"include"`   // read when Verbosity is custom
	LegacySwitchValues bool          `yaml:"legacy_switch_values"`
}

// IncludeConfig selects announcement parts when verbosity is "custom".
type IncludeConfig struct {
	Traits           bool `yaml:"traits"`
	Hints            bool `yaml:"hints"`
	ContainerContext bool `yaml:"container_context"`
	TableContext     bool `yaml:"table_context"`
	Value            bool `yaml:"value"`
	CustomContent    bool `yaml:"custom_content"`
}

// OutputConfig controls where artifacts are written.
type OutputConfig struct {
	Dir             string `yaml:"dir"`
	MaxLegendTokens int    `yaml:"max_legend_tokens"`
}

// Verbosity levels.
const (
	VerbosityVerbose = "verbose"
	VerbosityMinimal = "minimal"
	VerbosityCustom  = "custom"
)

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Source:    "screen.yaml",
		Loaders:   []string{"yaml", "tsx"},
		Audits:    []string{"unlabeled", "duplicates"},
		Renderers: []string{"legend", "transcript"},
		Parse: ParseConfig{
			Locale:           "en",
			Idiom:            "phone",
			LayoutDirection:  "ltr",
			RotorResultLimit: 10,
			Verbosity:        VerbosityVerbose,
		},
		Output: OutputConfig{
			Dir:             ".a11ysnap",
			MaxLegendTokens: 16000,
		},
	}
}

// Load reads a YAML config file and merges it with defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// Ensure defaults for required fields
	if cfg.Source == "" {
		cfg.Source = "screen.yaml"
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = ".a11ysnap"
	}
	if cfg.Output.MaxLegendTokens <= 0 {
		cfg.Output.MaxLegendTokens = 16000
	}
	if cfg.Parse.RotorResultLimit <= 0 {
		cfg.Parse.RotorResultLimit = 10
	}
	if cfg.Parse.Verbosity == "" {
		cfg.Parse.Verbosity = VerbosityVerbose
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects values the parser cannot honor.
func (c *Config) Validate() error {
	switch c.Parse.Idiom {
	case "", "phone", "pad", "tv", "mac":
	default:
		return fmt.Errorf("unknown idiom %q", c.Parse.Idiom)
	}
	switch c.Parse.LayoutDirection {
	case "", "ltr", "rtl":
	default:
		return fmt.Errorf("unknown layout_direction %q", c.Parse.LayoutDirection)
	}
	switch c.Parse.Verbosity {
	case VerbosityVerbose, VerbosityMinimal, VerbosityCustom:
	default:
		return fmt.Errorf("unknown verbosity %q", c.Parse.Verbosity)
	}
	return nil
}

// IsLoaderEnabled checks if a loader is in the enabled list.
func (c *Config) IsLoaderEnabled(name string) bool {
	return contains(c.Loaders, name)
}

// IsAuditEnabled checks if an audit is in the enabled list.
func (c *Config) IsAuditEnabled(name string) bool {
	return contains(c.Audits, name)
}

// IsRendererEnabled checks if a renderer is in the enabled list.
func (c *Config) IsRendererEnabled(name string) bool {
	return contains(c.Renderers, name)
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
