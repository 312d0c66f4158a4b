package texmath

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxDepth bounds group nesting so hostile input cannot exhaust the stack.
const maxDepth = 200

// stopSet lists the tokens that end the current expression list.
type stopSet struct {
	brace   bool // }
	amp     bool // & and \\ inside environments
	right   bool // \right and \middle
	end     bool // \end
	bracket bool // ] closing an optional argument
}

// parser is a recursive-descent parser producing a node tree. In
// permissive mode problems are rendered inline and parsing continues; in
// strict mode the first problem is recorded and returned by parse.
type parser struct {
	lx      *lexer
	strict  bool
	display bool
	variant string
	depth   int
	err     error
}

func newParser(src string, strict, display bool) *parser {
	return &parser{lx: newLexer(src), strict: strict, display: display}
}

// parse parses the whole input.
func (p *parser) parse() (node, error) {
	children := p.parseList(stopSet{})
	return &row{children: children}, p.err
}

// fail records the first error in strict mode.
func (p *parser) fail(pos int, sentinel error, detail string) {
	if p.err == nil && p.strict {
		p.err = &ParseError{Pos: pos, Err: sentinel, Detail: detail}
	}
}

func (p *parser) errorNode(text string) node {
	return &textRun{text: text, color: errorColor}
}

func (p *parser) stops(t token, s stopSet) bool {
	switch t.kind {
	case tokEOF:
		return true
	case tokRBrace:
		return s.brace
	case tokAmp, tokRowSep:
		return s.amp
	case tokChar:
		return s.bracket && t.val == "]"
	case tokCommand:
		switch t.val {
		case "right", "middle":
			return s.right
		case "end":
			return s.end
		}
	}
	return false
}

// parseList parses atoms with their scripts until a stop token.
func (p *parser) parseList(s stopSet) []node {
	var nodes []node
	for {
		t := p.lx.peek()
		if p.stops(t, s) {
			return nodes
		}
		if t.kind == tokRBrace {
			// Stray closing brace outside any group.
			p.lx.next()
			p.fail(t.pos, ErrUnbalancedBraces, "unmatched }")
			nodes = append(nodes, &operator{text: "}"})
			continue
		}
		if t.kind == tokAmp || t.kind == tokRowSep {
			p.lx.next()
			p.fail(t.pos, ErrUnexpectedToken, t.val+" outside an environment")
			continue
		}
		if t.kind == tokCommand && (t.val == "right" || t.val == "middle" || t.val == "end") {
			p.lx.next()
			p.fail(t.pos, ErrUnexpectedToken, `\`+t.val+" without opening")
			if t.val == "end" {
				p.lx.readRawGroup()
			} else {
				p.parseDelimiter()
			}
			continue
		}
		n := p.parseAtom()
		if n == nil {
			continue
		}
		nodes = append(nodes, p.parseScripts(n))
	}
}

// parseGroup parses a braced group after its opening brace was consumed.
func (p *parser) parseGroup(open token) node {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		p.fail(open.pos, ErrTooDeep, "nesting too deep")
		p.skipToEOF()
		return &row{}
	}
	children := p.parseList(stopSet{brace: true})
	if p.lx.peek().kind == tokRBrace {
		p.lx.next()
	} else {
		p.fail(open.pos, ErrUnbalancedBraces, "missing }")
	}
	return &row{children: children}
}

func (p *parser) skipToEOF() {
	for p.lx.next().kind != tokEOF {
	}
}

// parseArg parses one required argument: a group or a single token.
func (p *parser) parseArg(cmdPos int, cmd string) node {
	t := p.lx.peek()
	switch t.kind {
	case tokEOF, tokRBrace, tokAmp, tokRowSep:
		p.fail(cmdPos, ErrMissingArgument, cmd)
		return &row{}
	case tokLBrace:
		p.lx.next()
		return p.parseGroup(t)
	case tokNumber:
		p.lx.next()
		first, size := utf8.DecodeRuneInString(t.val)
		if size < len(t.val) {
			p.lx.push(token{kind: tokNumber, val: t.val[size:], pos: t.pos + size})
		}
		return &number{text: string(first), variant: p.variant}
	case tokSup, tokSub:
		p.fail(t.pos, ErrMissingArgument, cmd)
		return &row{}
	}
	n := p.parseAtom()
	if n == nil {
		return &row{}
	}
	return n
}

// parseOptional parses [..] if present.
func (p *parser) parseOptional() node {
	t := p.lx.peek()
	if t.kind != tokChar || t.val != "[" {
		return nil
	}
	p.lx.next()
	children := p.parseList(stopSet{bracket: true, brace: true})
	if nt := p.lx.peek(); nt.kind == tokChar && nt.val == "]" {
		p.lx.next()
	} else {
		p.fail(t.pos, ErrUnbalancedBraces, "missing ]")
	}
	return &row{children: children}
}

// parseScripts attaches ^, _ and primes following base.
func (p *parser) parseScripts(base node) node {
	var sub, sup node
	var primes string
	for {
		t := p.lx.peek()
		switch t.kind {
		case tokPrime:
			p.lx.next()
			primes += "′"
			continue
		case tokSup:
			p.lx.next()
			if sup != nil {
				p.fail(t.pos, ErrUnexpectedToken, "double superscript")
			}
			sup = p.parseArg(t.pos, "^")
			continue
		case tokSub:
			p.lx.next()
			if sub != nil {
				p.fail(t.pos, ErrUnexpectedToken, "double subscript")
			}
			sub = p.parseArg(t.pos, "_")
			continue
		}
		break
	}
	if primes != "" {
		prime := &operator{text: primes}
		if sup == nil {
			sup = prime
		} else {
			sup = &row{children: []node{prime, sup}}
		}
	}
	if sub == nil && sup == nil {
		return base
	}
	s := &scripts{base: base, sub: sub, sup: sup}
	if l, ok := base.(limitsCarrier); ok && l.useLimits(p.display) {
		s.limits = true
	}
	return s
}

// limitsCarrier is implemented by operators whose scripts may go above
// and below.
type limitsCarrier interface {
	useLimits(display bool) bool
}

type limitsOperator struct {
	operator
	mode int // 0 default, 1 \limits, -1 \nolimits
	limits bool
}

func (n *limitsOperator) useLimits(display bool) bool {
	switch n.mode {
	case 1:
		return true
	case -1:
		return false
	}
	return n.limits && display
}

type limitsIdent struct {
	ident
	limits bool
}

func (n *limitsIdent) useLimits(display bool) bool {
	return n.limits && display
}

func (p *parser) parseAtom() node {
	t := p.lx.next()
	switch t.kind {
	case tokLBrace:
		return p.parseGroup(t)
	case tokSup, tokSub:
		// Script with an empty base, as in {}^a.
		p.lx.push(t)
		return &row{}
	case tokPrime:
		return &operator{text: "′"}
	case tokNumber:
		return &number{text: t.val, variant: p.variant}
	case tokLetter:
		return &ident{text: t.val, variant: p.variant}
	case tokChar:
		if op, ok := operatorChars[[]rune(t.val)[0]]; ok {
			if t.val == "~" {
				return &space{width: "0.25em"}
			}
			return &operator{text: op}
		}
		return &operator{text: t.val}
	case tokCommand:
		return p.parseCommand(t)
	}
	return nil
}

var colorPattern = regexp.MustCompile(`^(#[0-9A-Fa-f]{3,8}|[A-Za-z]+)$`)

func (p *parser) parseCommand(t token) node {
	name := t.val
	if s, ok := spaces[name]; ok {
		return &space{width: s}
	}
	if s, ok := escapedChars[name]; ok {
		return &operator{text: s}
	}
	if s, ok := letters[name]; ok {
		return &ident{text: s, variant: p.variant}
	}
	if s, ok := uprightLetters[name]; ok {
		return &ident{text: s, variant: "normal"}
	}
	if op, ok := bigOperators[name]; ok {
		n := &limitsOperator{
			operator: operator{text: op.symbol, largeop: true, movablelimits: op.limits},
			limits:   op.limits,
		}
		n.mode = p.limitsMode()
		return n
	}
	if s, ok := operators[name]; ok {
		return &operator{text: s}
	}
	if s, ok := delimiters[name]; ok && s != "" {
		return &operator{text: s}
	}
	if limits, ok := functions[name]; ok {
		return p.functionNode(name, limits)
	}
	if a, ok := accents[name]; ok {
		return &accented{base: p.parseArg(t.pos, name), mark: a.mark, under: a.under, stretchy: a.stretchy}
	}
	if v, ok := fontVariants[name]; ok {
		return p.parseVariant(t, v)
	}
	if v, ok := textCommands[name]; ok {
		raw, ok := p.lx.readRawGroup()
		if !ok {
			p.fail(t.pos, ErrMissingArgument, `\`+name)
			return &row{}
		}
		return &textRun{text: unescapeText(raw), variant: v}
	}

	switch name {
	case "frac", "dfrac", "tfrac", "cfrac":
		num := p.parseArg(t.pos, `\`+name)
		den := p.parseArg(t.pos, `\`+name)
		f := &fraction{num: num, den: den}
		switch name {
		case "dfrac":
			return &styled{body: f, displaystyle: "true"}
		case "tfrac":
			return &styled{body: f, displaystyle: "false"}
		}
		return f
	case "binom", "dbinom", "tbinom":
		top := p.parseArg(t.pos, `\`+name)
		bottom := p.parseArg(t.pos, `\`+name)
		return &fenced{open: "(", close: ")", body: &fraction{num: top, den: bottom, linethickness: "0"}}
	case "sqrt":
		index := p.parseOptional()
		return &radical{body: p.parseArg(t.pos, `\sqrt`), index: index}
	case "left":
		return p.parseLeftRight(t)
	case "begin":
		return p.parseEnvironment(t)
	case "operatorname", "operatorname*":
		raw, ok := p.lx.readRawGroup()
		if !ok {
			p.fail(t.pos, ErrMissingArgument, `\`+name)
			return &row{}
		}
		return &limitsIdent{ident: ident{text: strings.TrimSpace(raw), variant: "normal"}, limits: name == "operatorname*"}
	case "limits", "nolimits":
		// Handled by the preceding operator; harmless on its own.
		return nil
	case "not":
		return p.parseNot(t)
	case "color", "textcolor":
		raw, ok := p.lx.readRawGroup()
		if !ok || !colorPattern.MatchString(strings.TrimSpace(raw)) {
			p.fail(t.pos, ErrMissingArgument, `\`+name)
			return &row{}
		}
		return &styled{body: p.parseArg(t.pos, `\`+name), color: strings.TrimSpace(raw)}
	case "displaystyle":
		return &styled{body: &row{children: p.parseList(stopSet{brace: true, amp: true, right: true, end: true})}, displaystyle: "true"}
	case "textstyle":
		return &styled{body: &row{children: p.parseList(stopSet{brace: true, amp: true, right: true, end: true})}, displaystyle: "false"}
	case "phantom":
		return &phantom{body: p.parseArg(t.pos, `\phantom`)}
	case "boxed":
		return &boxed{body: p.parseArg(t.pos, `\boxed`)}
	case "overset", "stackrel":
		over := p.parseArg(t.pos, `\`+name)
		base := p.parseArg(t.pos, `\`+name)
		return &scripts{base: base, sup: over, limits: true}
	case "underset":
		under := p.parseArg(t.pos, `\`+name)
		base := p.parseArg(t.pos, `\`+name)
		return &scripts{base: base, sub: under, limits: true}
	case "bmod", "mod":
		return &row{children: []node{&space{width: "0.2222em"}, &ident{text: "mod", variant: "normal"}, &space{width: "0.2222em"}}}
	case "pmod":
		arg := p.parseArg(t.pos, `\pmod`)
		return &row{children: []node{
			&space{width: "1em"}, &operator{text: "("}, &ident{text: "mod", variant: "normal"},
			&space{width: "0.3333em"}, arg, &operator{text: ")"},
		}}
	case "hspace", "hspace*":
		raw, _ := p.lx.readRawGroup()
		return &space{width: strings.TrimSpace(raw)}
	case "big", "Big", "bigg", "Bigg", "bigl", "bigr", "Bigl", "Bigr", "biggl", "biggr", "Biggl", "Biggr":
		d := p.parseDelimiter()
		return &operator{text: d, stretchy: "false"}
	}

	p.fail(t.pos, ErrUnknownCommand, `\`+name)
	return p.errorNode(`\` + name)
}

// functionNode renders a named function; \limits/\nolimits may follow.
func (p *parser) functionNode(name string, limits bool) node {
	n := &limitsIdent{ident: ident{text: name, variant: "normal"}, limits: limits}
	switch p.limitsMode() {
	case 1:
		n.limits = true
	case -1:
		n.limits = false
	}
	return n
}

// limitsMode consumes a \limits or \nolimits following an operator.
func (p *parser) limitsMode() int {
	nt := p.lx.peek()
	if nt.kind != tokCommand {
		return 0
	}
	switch nt.val {
	case "limits":
		p.lx.next()
		return 1
	case "nolimits":
		p.lx.next()
		return -1
	}
	return 0
}

func (p *parser) parseVariant(t token, variant string) node {
	saved := p.variant
	p.variant = variant
	defer func() { p.variant = saved }()
	return p.parseArg(t.pos, `\`+t.val)
}

// parseNot negates the following relation.
func (p *parser) parseNot(t token) node {
	next := p.parseAtom()
	if op, ok := next.(*operator); ok {
		if neg, ok := negations[op.text]; ok {
			return &operator{text: neg}
		}
		return &operator{text: op.text + "̸"}
	}
	if next == nil {
		p.fail(t.pos, ErrMissingArgument, `\not`)
		return &operator{text: "̸"}
	}
	return &row{children: []node{next, &operator{text: "̸"}}}
}

// parseDelimiter reads the delimiter after \left, \right, \middle or \big.
func (p *parser) parseDelimiter() string {
	t := p.lx.next()
	switch t.kind {
	case tokChar:
		if d, ok := delimiters[t.val]; ok {
			return d
		}
		return t.val
	case tokCommand:
		if d, ok := delimiters[t.val]; ok {
			return d
		}
		if d, ok := escapedChars[t.val]; ok {
			return d
		}
		if d, ok := operators[t.val]; ok {
			return d
		}
	case tokEOF:
		p.fail(t.pos, ErrMissingArgument, "delimiter")
		return ""
	}
	p.fail(t.pos, ErrUnexpectedToken, "bad delimiter "+t.val)
	return t.val
}

func (p *parser) parseLeftRight(t token) node {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		p.fail(t.pos, ErrTooDeep, "nesting too deep")
		p.skipToEOF()
		return &row{}
	}
	open := p.parseDelimiter()
	var children []node
	for {
		children = append(children, p.parseList(stopSet{right: true, brace: true, amp: true, end: true})...)
		nt := p.lx.peek()
		if nt.kind == tokCommand && nt.val == "middle" {
			p.lx.next()
			children = append(children, &operator{text: p.parseDelimiter(), stretchy: "true", fence: true})
			continue
		}
		break
	}
	closeDelim := ""
	if nt := p.lx.peek(); nt.kind == tokCommand && nt.val == "right" {
		p.lx.next()
		closeDelim = p.parseDelimiter()
	} else {
		p.fail(t.pos, ErrUnbalancedBraces, `\left without \right`)
	}
	return &fenced{open: open, close: closeDelim, body: &row{children: children}}
}

func (p *parser) parseEnvironment(t token) node {
	name, ok := p.lx.readRawGroup()
	if !ok {
		p.fail(t.pos, ErrMissingArgument, `\begin`)
		return &row{}
	}
	name = strings.TrimSpace(name)

	var align []string
	switch {
	case name == "array":
		spec, _ := p.lx.readRawGroup()
		align = arrayAlignment(spec)
	case name == "cases":
		align = []string{"left", "left"}
	case alignEnvironments[name]:
		align = []string{"right", "left"}
	case isMatrixEnvironment(name):
	default:
		p.fail(t.pos, ErrUnknownEnvironment, name)
	}

	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		p.fail(t.pos, ErrTooDeep, "nesting too deep")
		p.skipToEOF()
		return &row{}
	}

	rows := p.parseRows()

	if nt := p.lx.peek(); nt.kind == tokCommand && nt.val == "end" {
		p.lx.next()
		endName, _ := p.lx.readRawGroup()
		if strings.TrimSpace(endName) != name {
			p.fail(nt.pos, ErrEnvironmentMismatch, fmt.Sprintf(`\begin{%s} closed by \end{%s}`, name, endName))
		}
	} else {
		p.fail(t.pos, ErrEnvironmentMismatch, `missing \end{`+name+`}`)
	}

	tbl := &table{rows: rows, align: align, compact: name == "smallmatrix"}
	if d, ok := matrixDelimiters[name]; ok && (d[0] != "" || d[1] != "") {
		return &fenced{open: d[0], close: d[1], body: tbl}
	}
	if name == "cases" {
		return &fenced{open: "{", body: tbl}
	}
	return tbl
}

func isMatrixEnvironment(name string) bool {
	_, ok := matrixDelimiters[name]
	return ok
}

// parseRows parses cells separated by & and rows separated by \\ up to
// \end. A trailing empty row is dropped.
func (p *parser) parseRows() [][]node {
	var rows [][]node
	var cur []node
	for {
		cell := p.parseList(stopSet{amp: true, end: true, brace: true})
		cur = append(cur, &row{children: cell})
		t := p.lx.peek()
		switch t.kind {
		case tokAmp:
			p.lx.next()
			continue
		case tokRowSep:
			p.lx.next()
			rows = append(rows, cur)
			cur = nil
			continue
		}
		break
	}
	if !(len(cur) == 1 && len(cur[0].(*row).children) == 0) || len(rows) == 0 {
		rows = append(rows, cur)
	}
	return rows
}

// arrayAlignment converts an array column spec such as {lcr} or {c|c}.
func arrayAlignment(spec string) []string {
	var out []string
	for _, c := range spec {
		switch c {
		case 'l':
			out = append(out, "left")
		case 'c':
			out = append(out, "center")
		case 'r':
			out = append(out, "right")
		}
	}
	return out
}

// unescapeText resolves the few escapes allowed inside \text{...}.
func unescapeText(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '{', '}', '$', '%', '&', '#', '_', '\\', ' ':
				b.WriteByte(s[i+1])
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
