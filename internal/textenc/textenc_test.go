package textenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

func TestDecode_UTF8(t *testing.T) {
	t.Parallel()

	got, err := Decode([]byte("# Title $x$"), "")
	require.NoError(t, err)
	assert.Equal(t, "# Title $x$", got)
}

func TestDecode_StripsBOM(t *testing.T) {
	t.Parallel()

	got, err := Decode([]byte("\xEF\xBB\xBF# Title"), "utf-8")
	require.NoError(t, err)
	assert.Equal(t, "# Title", got)
}

func TestDecode_NFC(t *testing.T) {
	t.Parallel()

	// "e" followed by a combining acute accent composes to U+00E9.
	got, err := Decode([]byte("caf\x65\xCC\x81"), "utf-8")
	require.NoError(t, err)
	assert.Equal(t, "café", got)
}

func TestDecode_LegacyEncodings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		label string
		text  string
		raw   func(string) (string, error)
	}{
		{"shift_jis", "Shift_JIS", "日本語の文書", japanese.ShiftJIS.NewEncoder().String},
		{"euc-jp", "euc-jp", "数式 $x^2$", japanese.EUCJP.NewEncoder().String},
		{"gbk", "gbk", "价格是 $100$ 元", simplifiedchinese.GBK.NewEncoder().String},
		{"big5", "big5", "價格是 $100$ 元", traditionalchinese.Big5.NewEncoder().String},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw, err := tt.raw(tt.text)
			require.NoError(t, err)

			got, err := Decode([]byte(raw), tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.text, got)
		})
	}
}

func TestDecode_UnknownEncoding(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("x"), "klingon-8")
	assert.ErrorIs(t, err, ErrUnknownEncoding)
}

func TestLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label string
		want  string
	}{
		{"", "utf-8"},
		{"UTF8", "utf-8"},
		{"latin1", "windows-1252"},
		{"sjis", "shift_jis"},
		{" Big5 ", "big5"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			t.Parallel()

			_, name, err := Lookup(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.want, name)
		})
	}
}

func TestSupportedEncodings(t *testing.T) {
	t.Parallel()

	names := SupportedEncodings()
	require.NotEmpty(t, names)
	for _, name := range names {
		_, canonical, err := Lookup(name)
		require.NoError(t, err, "advertised encoding %q must resolve", name)
		assert.Equal(t, name, canonical)
	}

	names[0] = "mutated"
	assert.Equal(t, "utf-8", SupportedEncodings()[0])
}
