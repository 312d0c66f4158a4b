package pipeline

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Class names emitted for code and diagram containers.
const (
	ClassDiagram   = "mermaid"
	classHighlight = "chroma"
	languagePrefix = "language-"
)

// funcCapture collects the fenced code block function of a node renderer
// without registering it anywhere.
type funcCapture struct {
	fn renderer.NodeRendererFunc
}

func (c *funcCapture) Register(kind ast.NodeKind, fn renderer.NodeRendererFunc) {
	if kind == ast.KindFencedCodeBlock {
		c.fn = fn
	}
}

// codeBlockRenderer renders fenced code by language tag: the diagram tag
// becomes a diagram container, languages known to chroma are highlighted
// and anything else is plain code. Highlighting failures degrade to plain.
type codeBlockRenderer struct {
	diagramLanguage string
	diagramClass    string
	highlight       renderer.NodeRendererFunc
	logger          *slog.Logger
}

func newCodeBlockRenderer(cfg ConverterConfig) *codeBlockRenderer {
	opts := []highlighting.Option{
		highlighting.WithStyle(cfg.HighlightStyle),
		highlighting.WithGuessLanguage(false),
		highlighting.WithFormatOptions(
			chromahtml.WithClasses(true),
		),
	}
	capture := &funcCapture{}
	highlighting.NewHTMLRenderer(opts...).RegisterFuncs(capture)

	diagramClass := cfg.DiagramClass
	if diagramClass == "" {
		diagramClass = cfg.DiagramLanguage
	}
	return &codeBlockRenderer{
		diagramLanguage: cfg.DiagramLanguage,
		diagramClass:    diagramClass,
		highlight:       capture.fn,
		logger:          cfg.Logger,
	}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	lang := strings.ToLower(string(n.Language(source)))

	switch {
	case lang != "" && lang == r.diagramLanguage:
		r.renderDiagram(w, source, n)
	case lang != "" && r.highlight != nil && lexers.Get(lang) != nil:
		if err := r.renderHighlighted(w, source, n); err != nil {
			r.logger.Warn("highlighting failed, rendering plain code", "language", lang, "error", err)
			renderPlainCode(w, source, n, lang)
		}
	default:
		renderPlainCode(w, source, n, lang)
	}
	return ast.WalkSkipChildren, nil
}

// renderDiagram writes the raw diagram source as the text content of a
// marker container for an external diagram engine.
func (r *codeBlockRenderer) renderDiagram(w util.BufWriter, source []byte, n *ast.FencedCodeBlock) {
	_, _ = w.WriteString(`<pre class="` + r.diagramClass + `">`)
	writeLines(w, source, n)
	_, _ = w.WriteString("</pre>\n")
}

// renderHighlighted runs the highlighter into a scratch buffer so a
// failure part way through leaves nothing behind in w.
func (r *codeBlockRenderer) renderHighlighted(w util.BufWriter, source []byte, n *ast.FencedCodeBlock) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("highlighter panic: %v", rec)
		}
	}()

	var buf bytes.Buffer
	scratch := bufio.NewWriter(&buf)
	if _, err := r.highlight(scratch, source, n, true); err != nil {
		return err
	}
	if _, err := r.highlight(scratch, source, n, false); err != nil {
		return err
	}
	if err := scratch.Flush(); err != nil {
		return err
	}
	_, _ = w.Write(buf.Bytes())
	return nil
}

func renderPlainCode(w util.BufWriter, source []byte, n *ast.FencedCodeBlock, lang string) {
	_, _ = w.WriteString("<pre><code")
	if lang != "" {
		_, _ = w.WriteString(` class="` + languagePrefix)
		_, _ = w.Write(util.EscapeHTML([]byte(lang)))
		_, _ = w.WriteString(`"`)
	}
	_ = w.WriteByte('>')
	writeLines(w, source, n)
	_, _ = w.WriteString("</code></pre>\n")
}

func writeLines(w util.BufWriter, source []byte, n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(line.Value(source)))
	}
}

// codeBlockExtension overrides goldmark's fenced code rendering.
type codeBlockExtension struct {
	renderer *codeBlockRenderer
}

// Extend implements goldmark.Extender. Priority 100 wins over the default
// HTML renderer registered at 1000.
func (e *codeBlockExtension) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(e.renderer, 100),
	))
}
