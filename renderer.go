package mdpreview

import (
	"context"
	"fmt"
	"html"
	"html/template"
	"io"
	"log/slog"
	"time"

	"github.com/alnah/go-mdpreview/internal/assets"
	"github.com/alnah/go-mdpreview/internal/pipeline"
	"github.com/alnah/go-mdpreview/internal/texmath"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.Sanitizer            = (*pipeline.PolicySanitizer)(nil)
	_ MathEngine                    = (*texmath.Engine)(nil)
)

// Renderer is the preview pipeline entry point. Its configuration is
// built once by NewRenderer and never mutated, so one Renderer can serve
// concurrent callers.
type Renderer struct {
	cfg           rendererConfig
	logger        *slog.Logger
	preprocessor  *pipeline.CommonMarkPreprocessor
	masker        *pipeline.Masker
	htmlConverter pipeline.HTMLConverter
	sanitizer     pipeline.Sanitizer
	math          MathEngine
	resolver      *pipeline.Resolver
	assets        *assets.Library
	page          *template.Template
	pageCSS       string
}

// NewRenderer creates a Renderer with default configuration.
// Returns an error if assets or the page template cannot be loaded.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg: rendererConfig{
			diagramLanguage: DefaultDiagramLanguage,
			highlightStyle:  DefaultHighlightStyle,
			highlights:      true,
			failure:         FailEmpty,
			style:           DefaultStyle,
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(r)
	}

	if _, err := ParseFailurePolicy(string(r.cfg.failure)); err != nil {
		return nil, err
	}

	lib, err := assets.NewLibrary(r.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	r.assets = lib

	if r.math == nil {
		r.math = texmath.New(texmath.WithStrict(r.cfg.strictMath))
	}

	r.preprocessor = &pipeline.CommonMarkPreprocessor{Highlights: r.cfg.highlights}
	r.masker = &pipeline.Masker{DiagramLanguage: r.cfg.diagramLanguage}
	r.htmlConverter = pipeline.NewGoldmarkConverter(pipeline.ConverterConfig{
		DiagramLanguage: r.cfg.diagramLanguage,
		HighlightStyle:  r.cfg.highlightStyle,
		HardWraps:       r.cfg.hardWraps,
		Logger:          r.logger,
	})
	r.sanitizer = pipeline.NewSanitizer()
	r.resolver = &pipeline.Resolver{
		Render: func(expr pipeline.MathExpr) (string, error) {
			return r.math.Render(expr.Expression, expr.Display)
		},
		DiagramClass: r.cfg.diagramLanguage,
		Logger:       r.logger,
	}

	if err := r.loadPage(); err != nil {
		return nil, err
	}
	return r, nil
}

// Render converts source to sanitized preview HTML. It never panics and
// never returns an error: on failure it logs and returns the output chosen
// by the failure policy.
func (r *Renderer) Render(ctx context.Context, source string) string {
	result, err := r.Convert(ctx, Input{Markdown: source})
	if err != nil {
		r.logger.Error("render failed", "policy", string(r.cfg.failure), "error", err)
		return r.fallback(source)
	}
	return result.HTML
}

func (r *Renderer) fallback(source string) string {
	if r.cfg.failure == FailRaw && source != "" {
		return "<pre>" + html.EscapeString(source) + "</pre>"
	}
	return ""
}

// Convert runs the full pipeline and returns the HTML with statistics.
// The context is checked before work starts; once started, a conversion
// runs to completion. Recovers from internal panics.
func (r *Renderer) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("%w: internal error: %v", ErrHTMLConversion, rec)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	start := time.Now()
	fragment, stats, err := r.renderFragment(ctx, input.Markdown)
	if err != nil {
		return nil, err
	}

	out := fragment
	if input.Intent == IntentDocument {
		out, err = r.BuildPage(fragment, input.Title)
		if err != nil {
			return nil, err
		}
	}

	stats.Duration = time.Since(start)
	r.logger.Debug("rendered",
		"bytes", len(input.Markdown),
		"math", stats.Math,
		"math_fallbacks", stats.MathFallbacks,
		"diagrams", stats.Diagrams,
		"code_blocks", stats.CodeBlocks,
		"duration", stats.Duration)
	return &Result{HTML: out, Stats: stats}, nil
}

func validateInput(input Input) error {
	if len(input.Markdown) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(input.Markdown), MaxInputSize)
	}
	return nil
}

// renderFragment masks, parses, sanitizes and resolves one document.
func (r *Renderer) renderFragment(ctx context.Context, source string) (string, Stats, error) {
	if source == "" {
		return "", Stats{}, nil
	}

	text := r.preprocessor.Normalize(source)
	ledger := pipeline.NewLedger(text)
	text = r.masker.Mask(text, ledger)
	text = pipeline.ExtractMath(text, ledger)
	text = r.preprocessor.PreprocessMarkdown(ctx, text)
	text = pipeline.RestoreCode(text, ledger)

	htmlContent, err := r.htmlConverter.ToHTML(ctx, text, ledger)
	if err != nil {
		return "", Stats{}, fmt.Errorf("converting to HTML: %w", err)
	}

	htmlContent = r.sanitizer.Sanitize(htmlContent)
	htmlContent = pipeline.ConvertMarkPlaceholders(htmlContent)

	resolved, rs, err := r.resolver.Resolve(htmlContent, ledger)
	if err != nil {
		// Keep the document; show every expression as escaped source.
		r.logger.Warn("math resolution failed, showing source", "error", err)
		resolved = ledger.Replace(htmlContent, func(t pipeline.Token) (string, bool) {
			return html.EscapeString(ledger.Expand(t.Literal())), true
		})
		rs = pipeline.ResolveStats{MathFallbacks: ledger.Count(pipeline.TokenMath)}
	}

	return resolved, Stats{
		Math:          rs.Math,
		MathFallbacks: rs.MathFallbacks,
		Diagrams:      rs.Diagrams,
		CodeBlocks:    rs.CodeBlocks,
		Highlighted:   rs.Highlighted,
	}, nil
}
