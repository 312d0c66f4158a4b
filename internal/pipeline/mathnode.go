package pipeline

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Node kinds for math placeholders in the goldmark AST.
var (
	KindMathInline = ast.NewNodeKind("MathInline")
	KindMathBlock  = ast.NewNodeKind("MathBlock")
)

// MathInline is an expression embedded in inline content. Its single child
// is a Text node covering the key, so alt text and plain-text renderings
// still carry the key and can be restored later.
type MathInline struct {
	ast.BaseInline
	Token Token
}

// Kind implements ast.Node.
func (n *MathInline) Kind() ast.NodeKind { return KindMathInline }

// Dump implements ast.Node.
func (n *MathInline) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Key":     n.Token.Key,
		"Display": boolString(n.Token.Math.Display),
	}, nil)
}

// MathBlock is a paragraph consisting of a single display expression.
type MathBlock struct {
	ast.BaseBlock
	Token Token
}

// Kind implements ast.Node.
func (n *MathBlock) Kind() ast.NodeKind { return KindMathBlock }

// Dump implements ast.Node.
func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Key": n.Token.Key}, nil)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// ledgerKey carries the run's ledger through the parser context.
var ledgerKey = parser.NewContextKey()

// mathTransformer turns math keys inside text nodes into typed nodes.
type mathTransformer struct{}

// Transform implements parser.ASTTransformer.
func (t *mathTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	ledger, _ := pc.Get(ledgerKey).(*Ledger)
	if ledger == nil || ledger.Count(TokenMath) == 0 {
		return
	}
	source := reader.Source()

	var texts []*ast.Text
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindCodeSpan, ast.KindCodeBlock, ast.KindFencedCodeBlock,
			ast.KindHTMLBlock, ast.KindRawHTML, ast.KindAutoLink:
			return ast.WalkSkipChildren, nil
		}
		if t, ok := n.(*ast.Text); ok {
			texts = append(texts, t)
		}
		return ast.WalkContinue, nil
	})

	for _, t := range texts {
		splitMathText(t, source, ledger)
	}
	promoteMathBlocks(doc)
}

// splitMathText replaces the math keys inside t with MathInline nodes.
// t itself keeps the trailing remainder so its line-break flags survive.
func splitMathText(t *ast.Text, source []byte, ledger *Ledger) {
	seg := t.Segment
	value := string(seg.Value(source))
	segs := ledger.Segments(value)
	hasMath := false
	for _, s := range segs {
		if s.Kind == TokenRef && s.Token.Kind == TokenMath {
			hasMath = true
			break
		}
	}
	if !hasMath {
		return
	}

	parent := t.Parent()
	cursor := seg.Start
	for _, s := range segs {
		if s.Kind != TokenRef || s.Token.Kind != TokenMath {
			continue
		}
		start, stop := seg.Start+s.Start, seg.Start+s.End
		if start > cursor {
			lit := ast.NewTextSegment(text.NewSegment(cursor, start))
			parent.InsertBefore(parent, t, lit)
		}
		node := &MathInline{Token: s.Token}
		node.AppendChild(node, ast.NewTextSegment(text.NewSegment(start, stop)))
		parent.InsertBefore(parent, t, node)
		cursor = stop
	}
	t.Segment = text.NewSegment(cursor, seg.Stop)
}

// promoteMathBlocks replaces paragraphs that hold exactly one display
// expression with a MathBlock.
func promoteMathBlocks(doc *ast.Document) {
	var paras []*ast.Paragraph
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if p, ok := n.(*ast.Paragraph); ok && entering {
			paras = append(paras, p)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, p := range paras {
		var math *MathInline
		only := true
		for c := p.FirstChild(); c != nil; c = c.NextSibling() {
			switch n := c.(type) {
			case *MathInline:
				if math != nil || !n.Token.Math.Display {
					only = false
				}
				math = n
			case *ast.Text:
				if n.Segment.Len() != 0 {
					only = false
				}
			default:
				only = false
			}
		}
		if !only || math == nil {
			continue
		}
		block := &MathBlock{Token: math.Token}
		p.Parent().ReplaceChild(p.Parent(), p, block)
	}
}

// mathRenderer writes math nodes as inert marker elements holding the key.
// Typesetting happens after sanitization.
type mathRenderer struct{}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *mathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMathInline, r.renderInline)
	reg.Register(KindMathBlock, r.renderBlock)
}

// Marker classes recognized by Resolver.
const (
	classMath        = "math"
	classMathInline  = "math-inline"
	classMathDisplay = "math-display"
	classMathError   = "math-error"
)

func (r *mathRenderer) renderInline(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*MathInline)
	mode := classMathInline
	if n.Token.Math.Display {
		mode = classMathDisplay
	}
	_, _ = w.WriteString(`<span class="` + classMath + ` ` + mode + `">`)
	_, _ = w.WriteString(n.Token.Key)
	_, _ = w.WriteString(`</span>`)
	return ast.WalkSkipChildren, nil
}

func (r *mathRenderer) renderBlock(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*MathBlock)
	_, _ = w.WriteString(`<div class="` + classMath + ` ` + classMathDisplay + `">`)
	_, _ = w.WriteString(n.Token.Key)
	_, _ = w.WriteString("</div>\n")
	return ast.WalkSkipChildren, nil
}

// mathExtension wires the transformer and renderer into goldmark.
type mathExtension struct{}

// Extend implements goldmark.Extender.
func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&mathTransformer{}, 100),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&mathRenderer{}, 100),
	))
}
