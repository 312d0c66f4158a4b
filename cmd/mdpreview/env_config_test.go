package main

// Notes:
// - loadEnvConfig: we test every MDPREVIEW_* variable. Invalid worker
//   counts are ignored, not errors.
// - warnUnknownEnvVars: we test typo detection and that known vars don't warn.
// - applyEnvConfig: we test that env never overrides a config file value.
// - Tests use t.Setenv() which prevents t.Parallel() at parent level.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alnah/go-mdpreview/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("all variables", func(t *testing.T) {
		t.Setenv("MDPREVIEW_CONFIG", "/path/to/config.yaml")
		t.Setenv("MDPREVIEW_STYLE", "minimal")
		t.Setenv("MDPREVIEW_ENCODING", "shift_jis")
		t.Setenv("MDPREVIEW_STATE_DIR", "/state")
		t.Setenv("MDPREVIEW_OUTPUT_DIR", "/out")
		t.Setenv("MDPREVIEW_WORKERS", "3")

		cfg := loadEnvConfig()

		if cfg.ConfigPath != "/path/to/config.yaml" {
			t.Errorf("ConfigPath = %q, want /path/to/config.yaml", cfg.ConfigPath)
		}
		if cfg.Style != "minimal" {
			t.Errorf("Style = %q, want minimal", cfg.Style)
		}
		if cfg.Encoding != "shift_jis" {
			t.Errorf("Encoding = %q, want shift_jis", cfg.Encoding)
		}
		if cfg.StateDir != "/state" {
			t.Errorf("StateDir = %q, want /state", cfg.StateDir)
		}
		if cfg.OutputDir != "/out" {
			t.Errorf("OutputDir = %q, want /out", cfg.OutputDir)
		}
		if cfg.Workers != 3 {
			t.Errorf("Workers = %d, want 3", cfg.Workers)
		}
	})

	t.Run("invalid workers ignored", func(t *testing.T) {
		for _, v := range []string{"abc", "-2", "0", ""} {
			t.Setenv("MDPREVIEW_WORKERS", v)
			if got := loadEnvConfig().Workers; got != 0 {
				t.Errorf("MDPREVIEW_WORKERS=%q: Workers = %d, want 0", v, got)
			}
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("MDPREVIEW_STLYE", "minimal")
	t.Setenv("MDPREVIEW_STYLE", "minimal")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)
	out := buf.String()

	if !strings.Contains(out, "unknown environment variable MDPREVIEW_STLYE") {
		t.Errorf("warnUnknownEnvVars() = %q, want warning for MDPREVIEW_STLYE", out)
	}
	if strings.Contains(out, "MDPREVIEW_STYLE ") {
		t.Errorf("warnUnknownEnvVars() = %q, should not warn for a known variable", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Priority: config file wins over env
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	env := &envConfig{
		Style:     "minimal",
		Encoding:  "gbk",
		StateDir:  "/env-state",
		OutputDir: "/env-out",
	}

	t.Run("fills defaults", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(env, cfg)

		if cfg.Output.Style != "minimal" {
			t.Errorf("Output.Style = %q, want minimal", cfg.Output.Style)
		}
		if cfg.Input.Encoding != "gbk" {
			t.Errorf("Input.Encoding = %q, want gbk", cfg.Input.Encoding)
		}
		if cfg.State.Dir != "/env-state" {
			t.Errorf("State.Dir = %q, want /env-state", cfg.State.Dir)
		}
		if cfg.Output.Dir != "/env-out" {
			t.Errorf("Output.Dir = %q, want /env-out", cfg.Output.Dir)
		}
	})

	t.Run("config values win", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Output.Style = "preview"
		cfg.Input.Encoding = "big5"
		cfg.State.Dir = "/cfg-state"
		cfg.Output.Dir = "/cfg-out"
		applyEnvConfig(env, cfg)

		if cfg.Output.Style != "preview" {
			t.Errorf("Output.Style = %q, want preview", cfg.Output.Style)
		}
		if cfg.Input.Encoding != "big5" {
			t.Errorf("Input.Encoding = %q, want big5", cfg.Input.Encoding)
		}
		if cfg.State.Dir != "/cfg-state" {
			t.Errorf("State.Dir = %q, want /cfg-state", cfg.State.Dir)
		}
		if cfg.Output.Dir != "/cfg-out" {
			t.Errorf("Output.Dir = %q, want /cfg-out", cfg.Output.Dir)
		}
	})
}

func TestParsePositiveInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"4", 4, true},
		{" 12 ", 12, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"x", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parsePositiveInt(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("parsePositiveInt(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
