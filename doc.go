// Package mdpreview renders Markdown with TeX math to sanitized HTML for a
// live preview pane.
//
// # Quick Start
//
// Create a renderer once and reuse it from any goroutine:
//
//	r, err := mdpreview.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	html := r.Render(ctx, "# Hello\n\nEuler: $e^{i\\pi} + 1 = 0$")
//
// Render never fails: when conversion goes wrong it logs and returns the
// output chosen by the failure policy (empty, or the escaped source). Use
// Convert to get the error and the per-document Stats instead.
//
// # Rendering Pipeline
//
// The conversion process follows these stages:
//
//  1. Normalization (line endings, byte order mark, reserved characters)
//  2. Masking of fenced code, code spans and escaped dollars
//  3. Math extraction ($$ display blocks, then $ inline spans)
//  4. Markdown preprocessing (==highlight== syntax, blank line runs)
//  5. Markdown to HTML via Goldmark (GFM, footnotes, syntax highlighting)
//  6. Sanitization via bluemonday
//  7. Math typesetting to MathML and restoration of masked text
//
// Masked and extracted regions are replaced by placeholder keys that
// survive Markdown parsing untouched, so the Markdown parser never sees a
// dollar inside code and the math typesetter never sees Markdown.
//
// Fenced blocks tagged with the diagram language (mermaid by default) are
// emitted as <pre class="mermaid"> containers holding the raw diagram
// source for a client-side engine.
//
// # Configuration
//
// Use functional options to customize the renderer:
//
//	r, err := mdpreview.NewRenderer(
//	    mdpreview.WithFailurePolicy(mdpreview.FailRaw),
//	    mdpreview.WithStrictMath(true),
//	    mdpreview.WithDiagramLanguage("mermaid"),
//	    mdpreview.WithStyle("minimal"),
//	    mdpreview.WithAssetPath("/path/to/custom/assets"),
//	)
//
// Request a standalone page with styles and the highlight stylesheet:
//
//	result, err := r.Convert(ctx, mdpreview.Input{
//	    Markdown: content,
//	    Intent:   mdpreview.IntentDocument,
//	})
//
// # Editor Sessions
//
// Session ties a renderer to a persisted document with undo history, word
// statistics, search and replace, and encoded import:
//
//	st, err := mdpreview.NewFileStore(stateDir)
//	s := mdpreview.NewSession(r, st)
//	if err := s.Load(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	_ = s.Edit(ctx, s.Content()+"\nmore")
//	s.Flush()
//
// A first Load with nothing saved seeds the built-in welcome document.
//
// # Custom Assets
//
// Asset directory structure:
//
//	assets/
//	├── styles/
//	│   └── custom.css
//	├── templates/
//	│   └── page.html
//	└── documents/
//	    └── welcome.md
//
// Missing files fall back to the embedded defaults.
package mdpreview
