package config

import (
	"errors"
	"fmt"

	"github.com/mohae/deepcopy"

	"github.com/curbz/dflight2kml/internal/geozone"
	"github.com/curbz/dflight2kml/internal/style"
	"github.com/curbz/dflight2kml/pkg/util"
)

// ErrInvalid marks a configuration value that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// --- configuration structures ---
type Config struct {
	Converter ConverterConfig `yaml:"converter"`
	Viewer    ViewerConfig    `yaml:"viewer"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ConverterConfig struct {
	Policy       string           `yaml:"policy"`
	DocumentName string           `yaml:"document_name"`
	Defaults     geozone.Defaults `yaml:"defaults"`
}

type ViewerConfig struct {
	FallbackDefaultApp bool `yaml:"fallback_default_app"`
	// Candidates overrides the built-in executables, keyed by GOOS.
	Candidates map[string][]string `yaml:"candidates"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

var defaults = Config{
	Converter: ConverterConfig{
		Policy:   style.Fixed.String(),
		Defaults: geozone.DefaultDefaults(),
	},
	Viewer: ViewerConfig{
		FallbackDefaultApp: true,
	},
	Logging: LoggingConfig{
		Level:      "info",
		MaxSizeMB:  10,
		MaxBackups: 3,
	},
}

// Default returns a private copy of the built-in configuration.
func Default() *Config {
	return deepcopy.Copy(&defaults).(*Config)
}

// Load layers the YAML file at path over the built-in configuration.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg, err := util.LoadConfig(path, &defaults)
	if err != nil {
		return nil, fmt.Errorf("error reading configuration file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Policy returns the configured style policy.
func (c *Config) Policy() (style.Policy, error) {
	p, err := style.ParsePolicy(c.Converter.Policy)
	if err != nil {
		return 0, fmt.Errorf("%w: converter.policy: %v", ErrInvalid, err)
	}
	return p, nil
}

func (c *Config) Validate() error {
	if _, err := c.Policy(); err != nil {
		return err
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalid, c.Logging.Level)
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 {
		return fmt.Errorf("%w: logging sizes must not be negative", ErrInvalid)
	}
	return nil
}
