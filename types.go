package mdpreview

import (
	"fmt"
	"strings"
	"time"
)

// DisplayIntent selects the shape of the rendered output.
type DisplayIntent int

const (
	// IntentPreview returns a sanitized HTML fragment for a preview pane.
	IntentPreview DisplayIntent = iota
	// IntentDocument wraps the fragment in a standalone HTML page.
	IntentDocument
)

// FailurePolicy decides what Render returns when conversion fails.
type FailurePolicy string

// Failure policies.
const (
	FailEmpty FailurePolicy = "empty" // return ""
	FailRaw   FailurePolicy = "raw"   // return the escaped source in a <pre>
)

// ParseFailurePolicy converts a config or flag value (case-insensitive).
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FailEmpty):
		return FailEmpty, nil
	case string(FailRaw):
		return FailRaw, nil
	default:
		return "", fmt.Errorf("%w: %q (must be empty or raw)", ErrInvalidFailurePolicy, s)
	}
}

// MaxInputSize bounds the Markdown source accepted by Convert.
const MaxInputSize = 10 * 1024 * 1024

// Input contains conversion parameters.
type Input struct {
	Markdown string        // Markdown source (may be empty)
	Intent   DisplayIntent // fragment or full page
	Title    string        // page title for IntentDocument (optional)
}

// Stats reports what one conversion found and how it was rendered.
type Stats struct {
	Math          int // expressions typeset
	MathFallbacks int // expressions shown as literal text
	Diagrams      int // diagram containers for the external engine
	CodeBlocks    int // fenced and indented code blocks
	Highlighted   int // code blocks with syntax highlighting
	Duration      time.Duration
}

// Result is the output of Convert.
type Result struct {
	HTML  string
	Stats Stats
}
