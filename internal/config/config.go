package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned when a setting holds a value outside its
// allowed set.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all runtime configuration for an arrowplan run.
// Values are populated from .arrowplan.yaml, ARROWPLAN_* env vars, and CLI flags.
type Config struct {
	// InputType forces the reader format; empty means detect from the
	// file extension.
	InputType  string `mapstructure:"input_type"`
	OutputType string `mapstructure:"output_type"`
	// Unresolved is "implicit" or "strict".
	Unresolved    string `mapstructure:"unresolved"`
	SeedAllSinks  bool   `mapstructure:"seed_all_sinks"`
	Milestones    bool   `mapstructure:"milestones"`
	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`
	TelemetryPath string `mapstructure:"telemetry_path"`
	Verbose       bool   `mapstructure:"verbose"`
}

var (
	inputTypes  = []string{"", "csv", "toml", "yaml", "yml", "hcl"}
	outputTypes = []string{"dot", "gv", "graphml", "json"}
	policies    = []string{"implicit", "strict"}
	logLevels   = []string{"debug", "info", "warn", "error"}
	logFormats  = []string{"text", "json"}
)

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("input_type", "")
	viper.SetDefault("output_type", "graphml")
	viper.SetDefault("unresolved", "implicit")
	viper.SetDefault("seed_all_sinks", false)
	viper.SetDefault("milestones", false)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	for _, s := range []*string{&c.InputType, &c.OutputType, &c.Unresolved, &c.LogLevel, &c.LogFormat} {
		*s = strings.ToLower(strings.TrimSpace(*s))
	}
}

// Validate checks every enumerated setting.
func (c Config) Validate() error {
	checks := []struct {
		key     string
		value   string
		allowed []string
	}{
		{"input_type", c.InputType, inputTypes},
		{"output_type", c.OutputType, outputTypes},
		{"unresolved", c.Unresolved, policies},
		{"log_level", c.LogLevel, logLevels},
		{"log_format", c.LogFormat, logFormats},
	}
	for _, ch := range checks {
		if !slices.Contains(ch.allowed, ch.value) {
			return fmt.Errorf("%w: %s = %q, want one of %s", ErrInvalidConfig, ch.key, ch.value, strings.Join(ch.allowed, ", "))
		}
	}
	return nil
}
