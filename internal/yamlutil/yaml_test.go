package yamlutil_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-mdpreview/internal/yamlutil"
)

type renderSection struct {
	Style      string        `yaml:"style"`
	StrictMath bool          `yaml:"strictMath"`
	Interval   time.Duration `yaml:"interval"`
	Tags       []string      `yaml:"tags"`
}

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name: "valid YAML",
			data: []byte("style: minimal\nstrictMath: true\ninterval: 2s\ntags: [a, b]"),
			dest: &renderSection{},
			check: func(t *testing.T, v any) {
				got := v.(*renderSection)
				if got.Style != "minimal" {
					t.Errorf("Style = %q, want %q", got.Style, "minimal")
				}
				if !got.StrictMath {
					t.Error("StrictMath = false, want true")
				}
				if got.Interval != 2*time.Second {
					t.Errorf("Interval = %v, want 2s", got.Interval)
				}
				if len(got.Tags) != 2 {
					t.Errorf("Tags = %v, want 2 entries", got.Tags)
				}
			},
		},
		{
			name: "unknown field ignored",
			data: []byte("style: x\nextra: 1"),
			dest: &renderSection{},
			check: func(t *testing.T, v any) {
				if got := v.(*renderSection).Style; got != "x" {
					t.Errorf("Style = %q, want %q", got, "x")
				}
			},
		},
		{
			name: "unicode content",
			data: []byte("style: 中文樣式"),
			dest: &renderSection{},
			check: func(t *testing.T, v any) {
				if got := v.(*renderSection).Style; got != "中文樣式" {
					t.Errorf("Style = %q, want %q", got, "中文樣式")
				}
			},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &renderSection{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("style: x"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, tt.dest)
		})
	}
}

func TestUnmarshal_SyntaxError(t *testing.T) {
	t.Parallel()

	err := yamlutil.Unmarshal([]byte("style: [unclosed"), &renderSection{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.HasPrefix(err.Error(), "yamlutil:") {
		t.Errorf("error = %q, want prefix 'yamlutil:'", err)
	}
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	t.Run("known fields", func(t *testing.T) {
		t.Parallel()

		var got renderSection
		if err := yamlutil.UnmarshalStrict([]byte("style: x"), &got); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Style != "x" {
			t.Errorf("Style = %q, want %q", got.Style, "x")
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()

		err := yamlutil.UnmarshalStrict([]byte("style: x\nstyel: y"), &renderSection{})
		if err == nil {
			t.Fatal("expected error for unknown field, got nil")
		}
	})
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	out, err := yamlutil.Marshal(renderSection{Style: "preview", Tags: []string{"a"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := string(out)
	for _, want := range []string{"style: preview", "strictMath: false", "- a"} {
		if !strings.Contains(got, want) {
			t.Errorf("Marshal() = %q, want substring %q", got, want)
		}
	}

	var back map[string]any
	if err := yamlutil.Unmarshal(out, &back); err != nil {
		t.Fatalf("decoding marshaled output: %v", err)
	}
	if back["style"] != "preview" {
		t.Errorf("round trip style = %v, want %q", back["style"], "preview")
	}
}

// Modifies the package-level limit, so it does not run in parallel.
func TestInputSizeLimit(t *testing.T) {
	originalMax := yamlutil.MaxInputSize
	t.Cleanup(func() { yamlutil.MaxInputSize = originalMax })
	yamlutil.MaxInputSize = 50

	data := []byte("style: " + strings.Repeat("x", 93))
	for name, fn := range map[string]func([]byte, any) error{
		"Unmarshal":       yamlutil.Unmarshal,
		"UnmarshalStrict": yamlutil.UnmarshalStrict,
	} {
		err := fn(data, &renderSection{})
		if !errors.Is(err, yamlutil.ErrInputTooLarge) {
			t.Errorf("%s() error = %v, want ErrInputTooLarge", name, err)
		}
		if err != nil && !strings.Contains(err.Error(), "100 bytes") {
			t.Errorf("%s() error %q should report the size", name, err)
		}
	}
}
