package mdpreview

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

func TestImport(t *testing.T) {
	t.Parallel()

	sjis, _, err := transform.String(japanese.ShiftJIS.NewEncoder(), "# 見出し\n\n本文")
	if err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}

	tests := []struct {
		name     string
		data     string
		encoding string
		want     string
		wantErr  error
	}{
		{"utf-8 default", "# Title", "", "# Title", nil},
		{"byte order mark stripped", "\uFEFF# Title", "utf-8", "# Title", nil},
		{"decomposed accents composed", "cafe\u0301", "", "caf\u00e9", nil},
		{"shift_jis", sjis, "shift_jis", "# 見出し\n\n本文", nil},
		{"label alias", sjis, "Shift-JIS", "# 見出し\n\n本文", nil},
		{"unknown encoding", "x", "klingon", "", ErrUnknownEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Import(strings.NewReader(tt.data), tt.encoding)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Import() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Import() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Import() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestImport_TooLarge(t *testing.T) {
	t.Parallel()

	r := io.LimitReader(zeroReader{}, MaxImportSize+1)
	if _, err := Import(r, ""); !errors.Is(err, ErrImportTooLarge) {
		t.Errorf("Import() error = %v, want ErrImportTooLarge", err)
	}
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'a'
	}
	return len(p), nil
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestExport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Export(&buf, "# 標題\n"); err != nil {
		t.Fatalf("Export() unexpected error: %v", err)
	}
	if got := buf.String(); got != "# 標題\n" {
		t.Errorf("Export() wrote %q, want %q", got, "# 標題\n")
	}

	if err := Export(errWriter{}, "x"); err == nil {
		t.Error("Export() to failing writer returned nil error")
	}
}

func TestSupportedEncodings(t *testing.T) {
	t.Parallel()

	got := SupportedEncodings()
	if len(got) == 0 || got[0] != "utf-8" {
		t.Fatalf("SupportedEncodings() = %v, want utf-8 first", got)
	}
	got[0] = "mutated"
	if SupportedEncodings()[0] != "utf-8" {
		t.Error("SupportedEncodings() returned a shared slice")
	}
}
