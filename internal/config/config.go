// Package config loads formflow settings. FORMFLOW_ prefixed environment
// variables override the YAML file, which overrides the defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-formflow/pkg/persist"
)

// EnvPrefix is the prefix applied to every environment override.
const EnvPrefix = "FORMFLOW"

// Config is the complete formflow configuration.
type Config struct {
	Persistence PersistenceConfig `mapstructure:"persistence"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	TUI         TUIConfig         `mapstructure:"tui"`
	Form        FormConfig        `mapstructure:"form"`
}

// PersistenceConfig selects where in-progress form data is kept. It is off
// unless enabled explicitly.
type PersistenceConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Backend is one of "memory", "file", "sqlite", "bbolt".
	Backend string `mapstructure:"backend"`
	// Path is a directory for the file backend, a database file otherwise.
	Path string `mapstructure:"path"`
	Key  string `mapstructure:"key"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TUIConfig controls the terminal renderer.
type TUIConfig struct {
	AllowBackNavigation bool   `mapstructure:"allow_back_navigation"`
	OutputFormat        string `mapstructure:"output_format"`
	PageSize            int    `mapstructure:"page_size"`
}

// FormConfig toggles optional engine behaviour.
type FormConfig struct {
	SubmitValidation      bool `mapstructure:"submit_validation"`
	VisitedOnlyNavigation bool `mapstructure:"visited_only_navigation"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Persistence: PersistenceConfig{
			Enabled: false,
			Backend: persist.BackendFile,
			Path:    ".formflow",
			Key:     persist.DefaultKey,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		TUI: TUIConfig{
			AllowBackNavigation: true,
			OutputFormat:        "json",
			PageSize:            10,
		},
	}
}

// SetDefaults registers default values with v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("persistence.enabled", defaults.Persistence.Enabled)
	v.SetDefault("persistence.backend", defaults.Persistence.Backend)
	v.SetDefault("persistence.path", defaults.Persistence.Path)
	v.SetDefault("persistence.key", defaults.Persistence.Key)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)

	v.SetDefault("tui.allow_back_navigation", defaults.TUI.AllowBackNavigation)
	v.SetDefault("tui.output_format", defaults.TUI.OutputFormat)
	v.SetDefault("tui.page_size", defaults.TUI.PageSize)

	v.SetDefault("form.submit_validation", defaults.Form.SubmitValidation)
	v.SetDefault("form.visited_only_navigation", defaults.Form.VisitedOnlyNavigation)
}

// Load reads file (when non-empty) plus environment overrides into a Config
// and validates it. A nil v uses a fresh viper instance.
func Load(v *viper.Viper, file string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return &cfg, nil
}

// ErrInvalid is matched by ValidationErrors through errors.Is.
var ErrInvalid = errors.New("config: invalid configuration")
