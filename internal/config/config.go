// Package config provides configuration data structures for otp.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dbmrq/otp/internal/logging"
)

// Config represents the complete otp configuration loaded from ~/.otp/config.yaml.
type Config struct {
	Descriptor DescriptorConfig `yaml:"descriptor" mapstructure:"descriptor" json:"descriptor"`
	History    HistoryConfig    `yaml:"history"    mapstructure:"history"    json:"history"`
	Chooser    ChooserConfig    `yaml:"chooser"    mapstructure:"chooser"    json:"chooser"`
	Editor     EditorConfig     `yaml:"editor"     mapstructure:"editor"     json:"editor"`
	Logging    LoggingConfig    `yaml:"logging"    mapstructure:"logging"    json:"logging"`
}

// AutoGenerate controls whether a project file is created for a folder that
// has none.
type AutoGenerate string

const (
	// AutoGenerateAsk asks before creating the project file.
	AutoGenerateAsk AutoGenerate = "ask"
	// AutoGenerateAlways creates the project file without asking.
	AutoGenerateAlways AutoGenerate = "always"
	// AutoGenerateNever never creates project files automatically.
	AutoGenerateNever AutoGenerate = "never"
)

// DescriptorConfig configures project descriptor files.
type DescriptorConfig struct {
	// Extension is the descriptor file suffix, including the dot (default: .sublime-project).
	Extension string `yaml:"extension" mapstructure:"extension" json:"extension"`
	// AutoGenerate is ask, always or never. YAML booleans map to always/never.
	AutoGenerate AutoGenerate `yaml:"auto_generate" mapstructure:"auto_generate" json:"auto_generate"`
}

// HistoryConfig configures the remembered project list.
type HistoryConfig struct {
	// File is the history file. Empty means ~/.otp/LastUsedProjects.
	File string `yaml:"file" mapstructure:"file" json:"file"`
	// MaxEntries caps the history length; 0 keeps everything.
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries" json:"max_entries"`
}

// ChooserConfig configures the "open from history" chooser.
type ChooserConfig struct {
	// SelectedIndex is the row highlighted when the chooser opens (default: 1).
	SelectedIndex int `yaml:"selected_index" mapstructure:"selected_index" json:"selected_index"`
	// NewWindow makes a plain confirm open a new editor instance (default: true).
	NewWindow bool `yaml:"new_window" mapstructure:"new_window" json:"new_window"`
}

// EditorConfig configures how projects are opened.
// {path} is replaced by the descriptor path and {dir} by its folder.
type EditorConfig struct {
	// Open switches an existing editor to the project.
	Open string `yaml:"open" mapstructure:"open" json:"open"`
	// OpenNew opens the project in a new editor instance.
	OpenNew string `yaml:"open_new" mapstructure:"open_new" json:"open_new"`
	// TrackLaunched registers the pid of an open_new command as the project's
	// editor. Enable it only for commands that stay running with the editor
	// (e.g. "code --wait"); launchers such as subl exit immediately.
	TrackLaunched bool `yaml:"track_launched" mapstructure:"track_launched" json:"track_launched"`
	// Registry is the open-project registry file. Empty means ~/.otp/open.json.
	Registry string `yaml:"registry" mapstructure:"registry" json:"registry"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level is debug, info, warn or error (default: info).
	Level string `yaml:"level" mapstructure:"level" json:"level"`
	// Dir is the log directory. Empty means ~/.otp/logs.
	Dir string `yaml:"dir" mapstructure:"dir" json:"dir"`
	// Console mirrors log output to stderr.
	Console bool `yaml:"console" mapstructure:"console" json:"console"`
	// JSON switches to JSON log lines.
	JSON bool `yaml:"json" mapstructure:"json" json:"json"`
}

// Default values.
const (
	DefaultExtension     = ".sublime-project"
	DefaultSelectedIndex = 1
	DefaultOpenCommand   = "subl --project {path}"
	DefaultOpenNew       = "subl --new-window --project {path}"
	DefaultLogLevel      = "info"

	HistoryFileName  = "LastUsedProjects"
	RegistryFileName = "open.json"
	LogDirName       = "logs"
)

// NewConfig returns a new Config with default values applied.
func NewConfig() *Config {
	return &Config{
		Descriptor: DescriptorConfig{
			Extension:    DefaultExtension,
			AutoGenerate: AutoGenerateAsk,
		},
		History: HistoryConfig{
			MaxEntries: 0,
		},
		Chooser: ChooserConfig{
			SelectedIndex: DefaultSelectedIndex,
			NewWindow:     true,
		},
		Editor: EditorConfig{
			Open:    DefaultOpenCommand,
			OpenNew: DefaultOpenNew,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}
}

// ApplyDefaults fills in empty string fields after loading from file.
// Numeric and boolean fields keep whatever the file said.
func (c *Config) ApplyDefaults() {
	defaults := NewConfig()

	if c.Descriptor.Extension == "" {
		c.Descriptor.Extension = defaults.Descriptor.Extension
	}
	if c.Descriptor.AutoGenerate == "" {
		c.Descriptor.AutoGenerate = defaults.Descriptor.AutoGenerate
	}
	if c.Editor.Open == "" {
		c.Editor.Open = defaults.Editor.Open
	}
	if c.Editor.OpenNew == "" {
		c.Editor.OpenNew = defaults.Editor.OpenNew
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := "multiple validation errors:"
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidationErrors

	ext := c.Descriptor.Extension
	if ext == "" || !strings.HasPrefix(ext, ".") || len(ext) < 2 {
		errs = append(errs, &ValidationError{Field: "descriptor.extension", Message: "must start with '.' and name an extension"})
	} else if strings.ContainsAny(ext, `/\`) {
		errs = append(errs, &ValidationError{Field: "descriptor.extension", Message: "must not contain path separators"})
	}

	switch c.Descriptor.AutoGenerate {
	case AutoGenerateAsk, AutoGenerateAlways, AutoGenerateNever:
		// valid
	default:
		errs = append(errs, &ValidationError{
			Field:   "descriptor.auto_generate",
			Message: "must be 'ask', 'always', or 'never'",
		})
	}

	if c.History.MaxEntries < 0 {
		errs = append(errs, &ValidationError{Field: "history.max_entries", Message: "must be non-negative"})
	}
	if c.Chooser.SelectedIndex < 0 {
		errs = append(errs, &ValidationError{Field: "chooser.selected_index", Message: "must be non-negative"})
	}
	if strings.TrimSpace(c.Editor.Open) == "" {
		errs = append(errs, &ValidationError{Field: "editor.open", Message: "must not be empty"})
	}
	if strings.TrimSpace(c.Editor.OpenNew) == "" {
		errs = append(errs, &ValidationError{Field: "editor.open_new", Message: "must not be empty"})
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
		// valid
	default:
		errs = append(errs, &ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// HistoryPath returns the history file path, resolving the default location.
func (c *Config) HistoryPath() (string, error) {
	return resolveInUserDir(c.History.File, HistoryFileName)
}

// RegistryPath returns the open-project registry path.
func (c *Config) RegistryPath() (string, error) {
	return resolveInUserDir(c.Editor.Registry, RegistryFileName)
}

// LogDir returns the log directory.
func (c *Config) LogDir() (string, error) {
	return resolveInUserDir(c.Logging.Dir, LogDirName)
}

// LoggingConfig converts the logging section for the logging package.
func (c *Config) LoggingConfig(verbose bool) (*logging.Config, error) {
	dir, err := c.LogDir()
	if err != nil {
		return nil, err
	}
	lc := logging.DefaultConfig()
	lc.LogDir = dir
	lc.Level = logging.ParseLevel(c.Logging.Level)
	if verbose {
		lc.Level = logging.LevelDebug
	}
	lc.Console = c.Logging.Console
	lc.JSONFormat = c.Logging.JSON
	return lc, nil
}

// YAML renders the configuration as a YAML document.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

func resolveInUserDir(value, name string) (string, error) {
	if value != "" {
		return filepath.Abs(ExpandUser(value))
	}
	dir, err := UserDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
