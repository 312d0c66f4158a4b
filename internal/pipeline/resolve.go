package pipeline

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MathRenderFunc typesets one expression into markup.
type MathRenderFunc func(expr MathExpr) (string, error)

// ResolveStats counts what the resolution pass found in a fragment.
type ResolveStats struct {
	Math          int // expressions typeset
	MathFallbacks int // expressions shown as literal text
	Diagrams      int // diagram containers
	CodeBlocks    int // code containers, highlighted or not
	Highlighted   int // code containers with chroma markup
	Restored      int // stray keys restored to literal source
}

// Resolver substitutes typeset math for the markers left in sanitized HTML.
type Resolver struct {
	Render       MathRenderFunc
	DiagramClass string
	Logger       *slog.Logger
}

// Resolve walks fragment, replacing every math marker holding a known key
// with rendered markup. A failing expression falls back to its literal
// text for that occurrence only. Keys found anywhere else, in text or in
// attribute values, are restored to the source the author typed.
func (r *Resolver) Resolve(fragment string, ledger *Ledger) (string, ResolveStats, error) {
	var stats ResolveStats
	if fragment == "" {
		return "", stats, nil
	}

	root, err := parseFragment(fragment)
	if err != nil {
		return "", stats, fmt.Errorf("%w: %v", ErrMathResolution, err)
	}

	r.walk(root, ledger, &stats)

	out, err := renderFragment(root)
	if err != nil {
		return "", stats, fmt.Errorf("%w: %v", ErrMathResolution, err)
	}
	return out, stats, nil
}

func (r *Resolver) walk(n *html.Node, ledger *Ledger, stats *ResolveStats) {
	switch n.Type {
	case html.ElementNode:
		r.restoreAttrs(n, ledger, stats)
		if hasClass(n, classMath) {
			if tok, ok := markerToken(n, ledger); ok {
				r.resolveMarker(n, tok, stats)
				return
			}
		}
		r.count(n, stats)
	case html.TextNode:
		if strings.Contains(n.Data, ledger.Prefix()) {
			restored := ledger.Literalize(n.Data)
			if restored != n.Data {
				stats.Restored++
				n.Data = restored
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c, ledger, stats)
	}
}

func (r *Resolver) restoreAttrs(n *html.Node, ledger *Ledger, stats *ResolveStats) {
	for i, attr := range n.Attr {
		if !strings.Contains(attr.Val, ledger.Prefix()) {
			continue
		}
		var restored string
		if attr.Key == "id" {
			restored = anchorID(attr.Val, ledger)
		} else {
			restored = ledger.Literalize(attr.Val)
		}
		if restored != attr.Val {
			stats.Restored++
			n.Attr[i].Val = restored
		}
	}
}

// anchorID restores the keys of a generated heading id as the letters
// and digits of their source, so "# Sum $x$" anchors at "sum-x".
func anchorID(id string, ledger *Ledger) string {
	out := ledger.Replace(id, func(t Token) (string, bool) {
		return strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return unicode.ToLower(r)
			}
			return -1
		}, ledger.Literalize(t.Literal())), true
	})
	out = strings.Trim(out, "-")
	if out == "" {
		return "heading"
	}
	return out
}

func (r *Resolver) count(n *html.Node, stats *ResolveStats) {
	if n.DataAtom != atom.Pre {
		return
	}
	diagramClass := r.DiagramClass
	if diagramClass == "" {
		diagramClass = ClassDiagram
	}
	switch {
	case hasClass(n, diagramClass):
		stats.Diagrams++
	case hasClass(n, classHighlight):
		stats.CodeBlocks++
		stats.Highlighted++
	default:
		stats.CodeBlocks++
	}
}

// markerToken returns the math token whose key is the sole text content
// of a marker element.
func markerToken(n *html.Node, ledger *Ledger) (Token, bool) {
	c := n.FirstChild
	if c == nil || c.NextSibling != nil || c.Type != html.TextNode {
		return Token{}, false
	}
	tok, ok := ledger.Lookup(strings.TrimSpace(c.Data))
	if !ok || tok.Kind != TokenMath {
		return Token{}, false
	}
	return tok, true
}

func (r *Resolver) resolveMarker(n *html.Node, tok Token, stats *ResolveStats) {
	markup, err := r.render(tok.Math)
	if err == nil {
		var nodes []*html.Node
		nodes, err = html.ParseFragment(strings.NewReader(markup), n)
		if err == nil {
			removeChildren(n)
			for _, c := range nodes {
				n.AppendChild(c)
			}
			stats.Math++
			return
		}
	}

	if r.Logger != nil {
		r.Logger.Warn("math rendering failed, showing source",
			"expression", tok.Math.Expression, "display", tok.Math.Display, "error", err)
	}
	removeChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: tok.Math.Expression})
	addClass(n, classMathError)
	stats.MathFallbacks++
}

// render calls the typesetter, converting a panic into an error so one
// expression cannot take down the document.
func (r *Resolver) render(expr MathExpr) (markup string, err error) {
	if r.Render == nil {
		return "", fmt.Errorf("no math renderer configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			markup = ""
			err = fmt.Errorf("math renderer panic: %v", rec)
		}
	}()
	return r.Render(expr)
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

func classList(n *html.Node) []string {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			return strings.Fields(attr.Val)
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range classList(n) {
		if c == class {
			return true
		}
	}
	return false
}

func addClass(n *html.Node, class string) {
	for i, attr := range n.Attr {
		if attr.Key == "class" {
			n.Attr[i].Val = strings.TrimSpace(attr.Val + " " + class)
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
}

// parseFragment parses HTML in a body context so no html/head/body
// wrapper is added, and hangs the nodes off a container for traversal.
func parseFragment(content string) (*html.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

// renderFragment renders the children of a container built by parseFragment.
func renderFragment(doc *html.Node) (string, error) {
	var buf strings.Builder
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
