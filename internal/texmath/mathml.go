package texmath

import (
	"strings"
)

// node is one element of the parsed expression tree.
type node interface {
	writeTo(b *strings.Builder)
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func writeEscaped(b *strings.Builder, s string) {
	_, _ = textEscaper.WriteString(b, s)
}

type row struct{ children []node }

func (n *row) writeTo(b *strings.Builder) {
	if len(n.children) == 1 {
		n.children[0].writeTo(b)
		return
	}
	b.WriteString("<mrow>")
	for _, c := range n.children {
		c.writeTo(b)
	}
	b.WriteString("</mrow>")
}

type ident struct {
	text    string
	variant string
}

func (n *ident) writeTo(b *strings.Builder) {
	b.WriteString("<mi")
	if n.variant != "" && n.variant != "italic" {
		b.WriteString(` mathvariant="` + n.variant + `"`)
	}
	b.WriteByte('>')
	writeEscaped(b, n.text)
	b.WriteString("</mi>")
}

type number struct {
	text    string
	variant string
}

func (n *number) writeTo(b *strings.Builder) {
	b.WriteString("<mn")
	if n.variant != "" && n.variant != "normal" && n.variant != "italic" {
		b.WriteString(` mathvariant="` + n.variant + `"`)
	}
	b.WriteByte('>')
	writeEscaped(b, n.text)
	b.WriteString("</mn>")
}

type operator struct {
	text          string
	stretchy      string // "", "true" or "false"
	largeop       bool
	movablelimits bool
	fence         bool
}

func (n *operator) writeTo(b *strings.Builder) {
	b.WriteString("<mo")
	if n.fence {
		b.WriteString(` fence="true"`)
	}
	if n.stretchy != "" {
		b.WriteString(` stretchy="` + n.stretchy + `"`)
	}
	if n.largeop {
		b.WriteString(` largeop="true"`)
	}
	if n.movablelimits {
		b.WriteString(` movablelimits="true"`)
	}
	b.WriteByte('>')
	writeEscaped(b, n.text)
	b.WriteString("</mo>")
}

type textRun struct {
	text    string
	variant string
	color   string
}

func (n *textRun) writeTo(b *strings.Builder) {
	b.WriteString("<mtext")
	if n.variant != "" && n.variant != "normal" {
		b.WriteString(` mathvariant="` + n.variant + `"`)
	}
	if n.color != "" {
		b.WriteString(` mathcolor="` + n.color + `"`)
	}
	b.WriteByte('>')
	writeEscaped(b, n.text)
	b.WriteString("</mtext>")
}

type space struct{ width string }

func (n *space) writeTo(b *strings.Builder) {
	b.WriteString(`<mspace width="` + n.width + `"></mspace>`)
}

// scripts covers msub, msup, msubsup and their under/over forms.
type scripts struct {
	base   node
	sub    node
	sup    node
	limits bool
}

func (n *scripts) writeTo(b *strings.Builder) {
	tag := ""
	switch {
	case n.sub != nil && n.sup != nil:
		tag = "msubsup"
		if n.limits {
			tag = "munderover"
		}
	case n.sub != nil:
		tag = "msub"
		if n.limits {
			tag = "munder"
		}
	case n.sup != nil:
		tag = "msup"
		if n.limits {
			tag = "mover"
		}
	default:
		n.base.writeTo(b)
		return
	}
	b.WriteString("<" + tag + ">")
	n.base.writeTo(b)
	if n.sub != nil {
		n.sub.writeTo(b)
	}
	if n.sup != nil {
		n.sup.writeTo(b)
	}
	b.WriteString("</" + tag + ">")
}

type fraction struct {
	num, den      node
	linethickness string
}

func (n *fraction) writeTo(b *strings.Builder) {
	b.WriteString("<mfrac")
	if n.linethickness != "" {
		b.WriteString(` linethickness="` + n.linethickness + `"`)
	}
	b.WriteByte('>')
	n.num.writeTo(b)
	n.den.writeTo(b)
	b.WriteString("</mfrac>")
}

type radical struct {
	body  node
	index node
}

func (n *radical) writeTo(b *strings.Builder) {
	if n.index == nil {
		b.WriteString("<msqrt>")
		n.body.writeTo(b)
		b.WriteString("</msqrt>")
		return
	}
	b.WriteString("<mroot>")
	n.body.writeTo(b)
	n.index.writeTo(b)
	b.WriteString("</mroot>")
}

type accented struct {
	base     node
	mark     string
	under    bool
	stretchy bool
}

func (n *accented) writeTo(b *strings.Builder) {
	tag, attr := "mover", ` accent="true"`
	if n.under {
		tag, attr = "munder", ` accentunder="true"`
	}
	b.WriteString("<" + tag + attr + ">")
	n.base.writeTo(b)
	mark := &operator{text: n.mark, stretchy: "false"}
	if n.stretchy {
		mark.stretchy = "true"
	}
	mark.writeTo(b)
	b.WriteString("</" + tag + ">")
}

// fenced is a \left ... \right group or a delimited environment.
type fenced struct {
	open, close string
	body        node
}

func (n *fenced) writeTo(b *strings.Builder) {
	b.WriteString("<mrow>")
	if n.open != "" {
		(&operator{text: n.open, fence: true, stretchy: "true"}).writeTo(b)
	}
	n.body.writeTo(b)
	if n.close != "" {
		(&operator{text: n.close, fence: true, stretchy: "true"}).writeTo(b)
	}
	b.WriteString("</mrow>")
}

type table struct {
	rows    [][]node
	align   []string // per column; repeated when short
	compact bool
}

func (n *table) writeTo(b *strings.Builder) {
	b.WriteString("<mtable")
	if len(n.align) > 0 {
		b.WriteString(` columnalign="` + strings.Join(n.align, " ") + `"`)
	}
	if n.compact {
		b.WriteString(` displaystyle="false"`)
	}
	b.WriteByte('>')
	for _, r := range n.rows {
		b.WriteString("<mtr>")
		for _, cell := range r {
			b.WriteString("<mtd>")
			cell.writeTo(b)
			b.WriteString("</mtd>")
		}
		b.WriteString("</mtr>")
	}
	b.WriteString("</mtable>")
}

type styled struct {
	body         node
	color        string
	displaystyle string
}

func (n *styled) writeTo(b *strings.Builder) {
	b.WriteString("<mstyle")
	if n.color != "" {
		b.WriteString(` mathcolor="` + n.color + `"`)
	}
	if n.displaystyle != "" {
		b.WriteString(` displaystyle="` + n.displaystyle + `"`)
	}
	b.WriteByte('>')
	n.body.writeTo(b)
	b.WriteString("</mstyle>")
}

type phantom struct{ body node }

func (n *phantom) writeTo(b *strings.Builder) {
	b.WriteString("<mphantom>")
	n.body.writeTo(b)
	b.WriteString("</mphantom>")
}

type boxed struct{ body node }

func (n *boxed) writeTo(b *strings.Builder) {
	b.WriteString(`<menclose notation="box">`)
	n.body.writeTo(b)
	b.WriteString("</menclose>")
}

// errorColor marks commands the engine does not know in permissive mode.
const errorColor = "#cc0000"

// mathMLNamespace is the namespace of the generated <math> element.
const mathMLNamespace = "http://www.w3.org/1998/Math/MathML"

// writeMath wraps a tree in a <math> element carrying the TeX source as
// an annotation.
func writeMath(tree node, source string, display bool) string {
	var b strings.Builder
	b.WriteString(`<math xmlns="` + mathMLNamespace + `"`)
	if display {
		b.WriteString(` display="block"`)
	}
	b.WriteString("><semantics>")
	if r, ok := tree.(*row); ok && len(r.children) == 1 {
		b.WriteString("<mrow>")
		r.children[0].writeTo(&b)
		b.WriteString("</mrow>")
	} else {
		tree.writeTo(&b)
	}
	b.WriteString(`<annotation encoding="application/x-tex">`)
	writeEscaped(&b, source)
	b.WriteString("</annotation></semantics></math>")
	return b.String()
}
