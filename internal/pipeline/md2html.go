package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// ConverterConfig configures the goldmark instance. It is read once by
// NewGoldmarkConverter and never consulted again.
type ConverterConfig struct {
	DiagramLanguage string
	DiagramClass    string
	HighlightStyle  string
	HardWraps       bool
	XHTML           bool
	Logger          *slog.Logger
}

func (c ConverterConfig) withDefaults() ConverterConfig {
	if c.DiagramLanguage == "" {
		c.DiagramLanguage = DefaultDiagramLanguage
	}
	if c.HighlightStyle == "" {
		c.HighlightStyle = DefaultHighlightStyle
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string, ledger *Ledger) (string, error)
}

// GoldmarkConverter converts Markdown to an HTML fragment using goldmark.
// Math keys recorded in the ledger become typed AST nodes; fenced code is
// rendered by language tag.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM, footnotes,
// math nodes and the fenced code override.
func NewGoldmarkConverter(cfg ConverterConfig) *GoldmarkConverter {
	cfg = cfg.withDefaults()

	rendererOpts := []goldmark.Option{}
	var htmlOpts []renderer.Option
	if cfg.HardWraps {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}
	if cfg.XHTML {
		htmlOpts = append(htmlOpts, html.WithXHTML())
	}
	// WithUnsafe is intentionally not used: raw HTML is dropped by goldmark
	// and again by the sanitizer.
	if len(htmlOpts) > 0 {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(htmlOpts...))
	}

	opts := append([]goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			&mathExtension{},
			&codeBlockExtension{renderer: newCodeBlockRenderer(cfg)},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	}, rendererOpts...)

	return &GoldmarkConverter{md: goldmark.New(opts...)}
}

// ToHTML converts Markdown content to an HTML fragment. A panic inside
// goldmark is reported as ErrHTMLConversion.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string, ledger *Ledger) (out string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = fmt.Errorf("%w: panic: %v", ErrHTMLConversion, r)
		}
	}()

	pc := parser.NewContext()
	if ledger != nil {
		pc.Set(ledgerKey, ledger)
	}

	var buf bytes.Buffer
	if err := c.md.Convert([]byte(content), &buf, parser.WithContext(pc)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return buf.String(), nil
}

var _ HTMLConverter = (*GoldmarkConverter)(nil)
