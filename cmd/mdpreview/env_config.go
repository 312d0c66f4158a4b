package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-mdpreview/internal/config"
)

// envPrefix marks the environment variables read by the CLI.
const envPrefix = "MDPREVIEW_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // MDPREVIEW_CONFIG: config file name or path
	Style      string // MDPREVIEW_STYLE: page stylesheet name
	Encoding   string // MDPREVIEW_ENCODING: input encoding label
	StateDir   string // MDPREVIEW_STATE_DIR: watch session state directory
	OutputDir  string // MDPREVIEW_OUTPUT_DIR: default output directory
	Workers    int    // MDPREVIEW_WORKERS: parallel render workers
}

// knownEnvVars lists valid MDPREVIEW_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDPREVIEW_CONFIG":     true,
	"MDPREVIEW_STYLE":      true,
	"MDPREVIEW_ENCODING":   true,
	"MDPREVIEW_STATE_DIR":  true,
	"MDPREVIEW_OUTPUT_DIR": true,
	"MDPREVIEW_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Invalid numbers are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MDPREVIEW_CONFIG"),
		Style:      os.Getenv("MDPREVIEW_STYLE"),
		Encoding:   os.Getenv("MDPREVIEW_ENCODING"),
		StateDir:   os.Getenv("MDPREVIEW_STATE_DIR"),
		OutputDir:  os.Getenv("MDPREVIEW_OUTPUT_DIR"),
	}

	if w, ok := parsePositiveInt(os.Getenv("MDPREVIEW_WORKERS")); ok {
		cfg.Workers = w
	}

	return cfg
}

// warnUnknownEnvVars warns about unrecognized MDPREVIEW_* variables.
// Helps catch typos like MDPREVIEW_STLYE.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty
// or default. This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" && cfg.Output.Style == "" {
		cfg.Output.Style = env.Style
	}
	if env.Encoding != "" && (cfg.Input.Encoding == "" || cfg.Input.Encoding == config.DefaultConfig().Input.Encoding) {
		cfg.Input.Encoding = env.Encoding
	}
	if env.StateDir != "" && cfg.State.Dir == "" {
		cfg.State.Dir = env.StateDir
	}
	if env.OutputDir != "" && cfg.Output.Dir == "" {
		cfg.Output.Dir = env.OutputDir
	}
}

// parsePositiveInt parses s as a decimal integer greater than zero.
func parsePositiveInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
