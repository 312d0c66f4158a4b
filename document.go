package mdpreview

import (
	"fmt"
	"io"

	"github.com/alnah/go-mdpreview/internal/textenc"
)

// Export metadata for saving a document.
const (
	ExportFileName    = "document.md"
	ExportContentType = "text/markdown;charset=utf-8"
)

// MaxImportSize bounds the bytes read by Import.
const MaxImportSize = MaxInputSize

// Import reads a document in the named encoding (any WHATWG label; empty
// means UTF-8) and returns it as NFC-normalized UTF-8 without a byte order
// mark.
func Import(r io.Reader, encoding string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImportSize+1))
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	if len(data) > MaxImportSize {
		return "", fmt.Errorf("%w: more than %d bytes", ErrImportTooLarge, MaxImportSize)
	}
	return textenc.Decode(data, encoding)
}

// Export writes content as UTF-8.
func Export(w io.Writer, content string) error {
	if _, err := io.WriteString(w, content); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// SupportedEncodings lists the encoding names advertised for Import.
func SupportedEncodings() []string {
	return textenc.SupportedEncodings()
}
