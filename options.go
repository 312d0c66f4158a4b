package mdpreview

import (
	"log/slog"
)

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds the settings read once by NewRenderer.
type rendererConfig struct {
	diagramLanguage string
	highlightStyle  string
	hardWraps       bool
	highlights      bool
	strictMath      bool
	failure         FailurePolicy
	assetPath       string
	style           string
}

// Defaults applied by NewRenderer.
const (
	DefaultDiagramLanguage = "mermaid"
	DefaultHighlightStyle  = "github"
	DefaultStyle           = "preview"
)

// MathEngine typesets one expression. Implementations must be safe for
// concurrent use.
type MathEngine interface {
	Render(expr string, display bool) (string, error)
}

// WithLogger sets the structured logger. Without it, nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDiagramLanguage sets the fence tag rendered as a diagram container.
func WithDiagramLanguage(lang string) Option {
	return func(r *Renderer) {
		if lang != "" {
			r.cfg.diagramLanguage = lang
		}
	}
}

// WithHighlightStyle sets the chroma style used for page CSS.
func WithHighlightStyle(style string) Option {
	return func(r *Renderer) {
		if style != "" {
			r.cfg.highlightStyle = style
		}
	}
}

// WithHardWraps renders single newlines as <br>.
func WithHardWraps(enabled bool) Option {
	return func(r *Renderer) {
		r.cfg.hardWraps = enabled
	}
}

// WithHighlights enables ==marked== text.
func WithHighlights(enabled bool) Option {
	return func(r *Renderer) {
		r.cfg.highlights = enabled
	}
}

// WithStrictMath makes malformed expressions fall back to their source
// text instead of best-effort markup.
func WithStrictMath(strict bool) Option {
	return func(r *Renderer) {
		r.cfg.strictMath = strict
	}
}

// WithFailurePolicy sets what Render returns when conversion fails.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(r *Renderer) {
		r.cfg.failure = p
	}
}

// WithMathEngine replaces the built-in MathML typesetter.
func WithMathEngine(engine MathEngine) Option {
	return func(r *Renderer) {
		r.math = engine
	}
}

// WithAssetPath loads styles and templates from dir, falling back to the
// embedded assets for anything it does not provide.
func WithAssetPath(dir string) Option {
	return func(r *Renderer) {
		r.cfg.assetPath = dir
	}
}

// WithStyle selects the page stylesheet by name.
func WithStyle(name string) Option {
	return func(r *Renderer) {
		if name != "" {
			r.cfg.style = name
		}
	}
}
