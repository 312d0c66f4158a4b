package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters.
// They pass through goldmark and the sanitizer as plain text and are
// turned into <mark> tags by ConvertMarkPlaceholders.
const (
	MarkStartPlaceholder = "\uE000" // U+E000: Private Use Area start
	MarkEndPlaceholder   = "\uE001" // U+E001: Private Use Area end
)

// Precompiled regex patterns for performance.
var (
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// ==text== on a single line, with no space just inside either marker
	// so comparisons like "a == b and b == c" stay prose.
	highlightPattern = regexp.MustCompile(`==([^\s=](?:[^\n]*?[^\s=])?)==`)

	// Authors cannot smuggle placeholders in.
	markPlaceholders = strings.NewReplacer(MarkStartPlaceholder, "", MarkEndPlaceholder, "")
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	// Normalize runs on raw source before masking.
	Normalize(content string) string
	// PreprocessMarkdown runs on masked text, where code and math are keys.
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor applies text transformations around masking.
type CommonMarkPreprocessor struct {
	Highlights bool
}

// Normalize converts line endings and strips reserved placeholder runes.
func (p *CommonMarkPreprocessor) Normalize(content string) string {
	content = normalizeLineEndings(content)
	return markPlaceholders.Replace(content)
}

// PreprocessMarkdown applies the transformations that must not touch code.
// Callers pass masked text, so fences and spans are already opaque.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	if p.Highlights {
		content = convertHighlights(content)
	}
	return compressBlankLines(content)
}

func normalizeLineEndings(content string) string {
	if !strings.Contains(content, "\r") {
		return content
	}
	return crlfOrCR.ReplaceAllString(content, "\n")
}

func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

func convertHighlights(content string) string {
	if !strings.Contains(content, "==") {
		return content
	}
	return highlightPattern.ReplaceAllString(content, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
}

// ConvertMarkPlaceholders converts placeholder markers to <mark> tags.
// Called after sanitization; only the two fixed tags are inserted.
func ConvertMarkPlaceholders(content string) string {
	if !strings.Contains(content, MarkStartPlaceholder) {
		return content
	}
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}

var _ MarkdownPreprocessor = (*CommonMarkPreprocessor)(nil)
