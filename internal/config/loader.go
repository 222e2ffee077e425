// Package config provides configuration loading and management for otp.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	// DefaultConfigFile is the config file name inside the user directory.
	DefaultConfigFile = "config.yaml"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "OTP"
)

// Loader handles loading configuration from files and environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// LoadConfig loads configuration from path, applies defaults, merges
// environment variables, and validates the result.
// If path is empty, DefaultPath is used.
func (l *Loader) LoadConfig(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, &LoadError{Message: "cannot locate user directory", Err: err}
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &LoadError{
			Path:    path,
			Message: "config file not found",
			Err:     err,
		}
	}

	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "failed to read config file",
			Err:     err,
		}
	}

	cfg := NewConfig()
	if err := l.v.Unmarshal(cfg, viperDecodeHook); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "failed to parse config file",
			Err:     err,
		}
	}

	return l.finish(cfg, path)
}

// LoadOrDefault behaves like LoadConfig but starts from defaults when the
// file does not exist.
func (l *Loader) LoadOrDefault(path string) (*Config, error) {
	cfg, err := l.LoadConfig(path)
	if err == nil {
		return cfg, nil
	}
	if le, ok := err.(*LoadError); ok && le.Message == "config file not found" {
		return l.finish(NewConfig(), le.Path)
	}
	return nil, err
}

func (l *Loader) finish(cfg *Config, path string) (*Config, error) {
	l.applyEnvOverrides(cfg)
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "configuration validation failed",
			Err:     err,
		}
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func (l *Loader) applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvPrefix + "_DESCRIPTOR_EXTENSION"); v != "" {
		cfg.Descriptor.Extension = v
	}
	if v := os.Getenv(EnvPrefix + "_DESCRIPTOR_AUTO_GENERATE"); v != "" {
		cfg.Descriptor.AutoGenerate = parseAutoGenerate(v)
	}

	if v := os.Getenv(EnvPrefix + "_HISTORY_FILE"); v != "" {
		cfg.History.File = v
	}
	if v := os.Getenv(EnvPrefix + "_HISTORY_MAX_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.History.MaxEntries = n
		}
	}

	if v := os.Getenv(EnvPrefix + "_CHOOSER_SELECTED_INDEX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Chooser.SelectedIndex = n
		}
	}
	if v := os.Getenv(EnvPrefix + "_CHOOSER_NEW_WINDOW"); v != "" {
		cfg.Chooser.NewWindow = parseBool(v)
	}

	if v := os.Getenv(EnvPrefix + "_EDITOR_OPEN"); v != "" {
		cfg.Editor.Open = v
	}
	if v := os.Getenv(EnvPrefix + "_EDITOR_OPEN_NEW"); v != "" {
		cfg.Editor.OpenNew = v
	}
	if v := os.Getenv(EnvPrefix + "_EDITOR_TRACK_LAUNCHED"); v != "" {
		cfg.Editor.TrackLaunched = parseBool(v)
	}
	if v := os.Getenv(EnvPrefix + "_EDITOR_REGISTRY"); v != "" {
		cfg.Editor.Registry = v
	}

	if v := os.Getenv(EnvPrefix + "_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvPrefix + "_LOGGING_DIR"); v != "" {
		cfg.Logging.Dir = v
	}
}

// parseBool returns true for "true", "1", "yes" (case-insensitive).
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes"
}

// parseAutoGenerate accepts the mode names plus boolean spellings.
func parseAutoGenerate(s string) AutoGenerate {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return AutoGenerateAlways
	case "false", "no", "0":
		return AutoGenerateNever
	default:
		return AutoGenerate(strings.ToLower(strings.TrimSpace(s)))
	}
}

// viperDecodeHook composes the standard mapstructure hooks with ours.
func viperDecodeHook(dc *mapstructure.DecoderConfig) {
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		autoGenerateHookFunc(),
	)
}

// autoGenerateHookFunc decodes auto_generate from either a string or a YAML
// boolean, so `auto_generate: true` keeps working.
func autoGenerateHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(AutoGenerate("")) {
			return data, nil
		}
		switch from.Kind() {
		case reflect.Bool:
			if data.(bool) {
				return AutoGenerateAlways, nil
			}
			return AutoGenerateNever, nil
		case reflect.String:
			return parseAutoGenerate(data.(string)), nil
		}
		return data, nil
	}
}

// LoadError represents an error that occurred while loading configuration.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load is a convenience function that creates a new Loader and loads configuration.
func Load(path string) (*Config, error) {
	return NewLoader().LoadConfig(path)
}

// LoadOrDefault loads path, falling back to defaults when it is missing.
func LoadOrDefault(path string) (*Config, error) {
	return NewLoader().LoadOrDefault(path)
}
