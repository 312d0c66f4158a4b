// Package texmath typesets a practical subset of TeX math notation into
// MathML. Browsers render the result natively, so no script or font
// pipeline is needed.
//
// In permissive mode (the default) the engine never fails: unknown
// commands are shown in an error color and structural problems are
// repaired. In strict mode the first problem is returned as a
// *ParseError wrapping one of the sentinel errors.
package texmath

import (
	"fmt"
)

// MaxExpressionSize bounds the accepted expression length in bytes.
const MaxExpressionSize = 64 * 1024

// Engine converts TeX expressions to MathML. It holds no per-call state
// and is safe for concurrent use.
type Engine struct {
	strict bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithStrict makes Render return an error instead of best-effort markup.
func WithStrict(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strict reports whether the engine runs in strict mode.
func (e *Engine) Strict() bool {
	return e.strict
}

// Render converts expr to a <math> element. Display selects block layout.
func (e *Engine) Render(expr string, display bool) (string, error) {
	if len(expr) > MaxExpressionSize {
		return "", fmt.Errorf("%w: %d bytes", ErrInputTooLarge, len(expr))
	}
	p := newParser(expr, e.strict, display)
	tree, err := p.parse()
	if err != nil {
		return "", err
	}
	return writeMath(tree, expr, display), nil
}
