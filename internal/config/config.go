package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdpreview/internal/fileutil"
	"github.com/alnah/go-mdpreview/internal/yamlutil"
)

// AppDirName is the directory under os.UserConfigDir holding config files
// and the persisted editor state.
const AppDirName = "go-mdpreview"

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxLanguageLength = 32   // fence info tag, e.g. "mermaid"
	MaxStyleLength    = 64   // style or chroma style name
	MaxEncodingLength = 40   // WHATWG label
	MaxTitleLength    = 200  // page title
	MaxPathLength     = 4096 // PATH_MAX on Linux
)

// Watch interval bounds.
const (
	DefaultWatchInterval = 500 * time.Millisecond
	MinWatchInterval     = 50 * time.Millisecond
	MaxWatchInterval     = time.Minute
)

// Config holds all configuration for rendering and the editor state.
type Config struct {
	Render RenderConfig `yaml:"render"`
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	State  StateConfig  `yaml:"state"`
	Assets AssetsConfig `yaml:"assets"`
	Watch  WatchConfig  `yaml:"watch"`
}

// RenderConfig defines pipeline options.
type RenderConfig struct {
	DiagramLanguage string `yaml:"diagramLanguage"` // fence tag for diagram containers (default: "mermaid")
	HighlightStyle  string `yaml:"highlightStyle"`  // chroma style (default: "github")
	HardWraps       bool   `yaml:"hardWraps"`
	Marks           *bool  `yaml:"marks"` // ==highlight== syntax (default: true)
	StrictMath      bool   `yaml:"strictMath"`
	OnFailure       string `yaml:"onFailure"` // "empty" or "raw" (default: "empty")
}

// MarksEnabled reports whether ==highlight== syntax is on.
func (r RenderConfig) MarksEnabled() bool {
	return r.Marks == nil || *r.Marks
}

// InputConfig defines input decoding options.
type InputConfig struct {
	Encoding string `yaml:"encoding"` // WHATWG label (default: "utf-8")
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir      string `yaml:"dir"`      // empty = next to the source
	Fragment bool   `yaml:"fragment"` // write the bare fragment instead of a page
	Style    string `yaml:"style"`    // name of a stylesheet in assets/styles/
	Title    string `yaml:"title"`    // page title (default: first heading)
}

// StateConfig defines where the editor session is persisted.
type StateConfig struct {
	Dir string `yaml:"dir"` // empty = <user config dir>/go-mdpreview/state
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = use embedded assets
}

// WatchConfig defines the live preview loop.
type WatchConfig struct {
	Interval time.Duration `yaml:"interval"` // poll interval (default: 500ms)
}

// Validate checks enums, lengths and bounds.
// Called automatically by LoadConfig, but available for callers that
// construct a Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("render.diagramLanguage", c.Render.DiagramLanguage, MaxLanguageLength); err != nil {
		return err
	}
	if strings.ContainsAny(c.Render.DiagramLanguage, " \t\"'<>") {
		return fmt.Errorf("%w: render.diagramLanguage %q must be a single word", ErrInvalidValue, c.Render.DiagramLanguage)
	}
	if err := validateFieldLength("render.highlightStyle", c.Render.HighlightStyle, MaxStyleLength); err != nil {
		return err
	}
	switch strings.ToLower(c.Render.OnFailure) {
	case "", "empty", "raw":
		// valid
	default:
		return fmt.Errorf("%w: render.onFailure %q (must be empty or raw)", ErrInvalidValue, c.Render.OnFailure)
	}

	if err := validateFieldLength("input.encoding", c.Input.Encoding, MaxEncodingLength); err != nil {
		return err
	}

	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.style", c.Output.Style, MaxStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.title", c.Output.Title, MaxTitleLength); err != nil {
		return err
	}

	if err := validateFieldLength("state.dir", c.State.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	if c.Watch.Interval != 0 {
		if c.Watch.Interval < MinWatchInterval || c.Watch.Interval > MaxWatchInterval {
			return fmt.Errorf("%w: watch.interval must be between %s and %s, got %s",
				ErrInvalidValue, MinWatchInterval, MaxWatchInterval, c.Watch.Interval)
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
// Empty fields mean "use the library default".
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{Encoding: "utf-8"},
		Watch: WatchConfig{Interval: DefaultWatchInterval},
	}
}

// WatchInterval returns the configured interval or the default.
func (c *Config) WatchInterval() time.Duration {
	if c.Watch.Interval == 0 {
		return DefaultWatchInterval
	}
	return c.Watch.Interval
}

// StateDir returns the configured state directory, defaulting to
// <user config dir>/go-mdpreview/state.
func (c *Config) StateDir() (string, error) {
	if c.State.Dir != "" {
		return c.State.Dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(base, AppDirName, "state"), nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SearchPaths returns the locations tried for a config name, in order:
// the working directory, then the user config directory.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDirName, name+ext))
		}
	}

	return paths
}

// resolveConfigPath returns the first existing path of SearchPaths.
func resolveConfigPath(name string) (string, error) {
	triedPaths := SearchPaths(name)
	for _, p := range triedPaths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
