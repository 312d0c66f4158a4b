// Package textenc decodes imported documents from legacy character
// encodings into normalized UTF-8.
package textenc

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/unicode/norm"
)

// DefaultEncoding is used when no label is given.
const DefaultEncoding = "utf-8"

// ErrUnknownEncoding is returned for labels outside the WHATWG registry.
var ErrUnknownEncoding = errors.New("unknown encoding")

// ErrDecode is returned when input cannot be decoded.
var ErrDecode = errors.New("decoding failed")

const bom = "\uFEFF"

// supported lists the canonical names offered to users. Any WHATWG label
// is accepted by Decode; these are the ones worth advertising.
var supported = []string{
	"utf-8",
	"utf-16le",
	"utf-16be",
	"big5",
	"gbk",
	"gb18030",
	"shift_jis",
	"euc-jp",
	"iso-2022-jp",
	"euc-kr",
	"windows-1252",
	"iso-8859-2",
	"koi8-r",
}

// SupportedEncodings returns the advertised encoding names.
func SupportedEncodings() []string {
	out := make([]string, len(supported))
	copy(out, supported)
	return out
}

// Lookup resolves a WHATWG label (case-insensitive, e.g. "Shift_JIS",
// "latin1", "cp936") to its encoding and canonical name.
func Lookup(label string) (encoding.Encoding, string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = DefaultEncoding
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = strings.ToLower(label)
	}
	return enc, name, nil
}

// Decode converts data in the labelled encoding to UTF-8, drops a leading
// byte order mark and applies NFC normalization.
func Decode(data []byte, label string) (string, error) {
	enc, name, err := Lookup(label)
	if err != nil {
		return "", err
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDecode, name, err)
	}

	return Normalize(string(decoded)), nil
}

// Normalize strips a leading byte order mark and returns the NFC form.
func Normalize(s string) string {
	s = strings.TrimPrefix(s, bom)
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}
