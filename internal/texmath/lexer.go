package texmath

import (
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokCommand
	tokLBrace
	tokRBrace
	tokSup
	tokSub
	tokAmp
	tokRowSep
	tokPrime
	tokNumber
	tokLetter
	tokChar
)

type token struct {
	kind tokenKind
	val  string
	pos  int
}

// lexer splits TeX math into tokens on demand. Whitespace between tokens
// is insignificant in math mode; text arguments are read raw instead.
type lexer struct {
	src     string
	pos     int
	pending []token
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

func (l *lexer) peek() token {
	if len(l.pending) == 0 {
		l.pending = append(l.pending, l.scan())
	}
	return l.pending[len(l.pending)-1]
}

func (l *lexer) next() token {
	t := l.peek()
	l.pending = l.pending[:len(l.pending)-1]
	return t
}

// push returns a token to the front of the stream.
func (l *lexer) push(t token) {
	l.pending = append(l.pending, t)
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

func (l *lexer) scan() token {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos}
	}
	start := l.pos
	c := l.src[l.pos]
	switch c {
	case '\\':
		return l.scanCommand()
	case '{':
		l.pos++
		return token{kind: tokLBrace, val: "{", pos: start}
	case '}':
		l.pos++
		return token{kind: tokRBrace, val: "}", pos: start}
	case '^':
		l.pos++
		return token{kind: tokSup, val: "^", pos: start}
	case '_':
		l.pos++
		return token{kind: tokSub, val: "_", pos: start}
	case '&':
		l.pos++
		return token{kind: tokAmp, val: "&", pos: start}
	case '\'':
		l.pos++
		return token{kind: tokPrime, val: "'", pos: start}
	}
	if isDigit(c) || (c == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])) {
		for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || (l.src[l.pos] == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]))) {
			l.pos++
		}
		return token{kind: tokNumber, val: l.src[start:l.pos], pos: start}
	}
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	if unicode.IsLetter(r) {
		return token{kind: tokLetter, val: string(r), pos: start}
	}
	return token{kind: tokChar, val: string(r), pos: start}
}

func (l *lexer) scanCommand() token {
	start := l.pos
	l.pos++ // backslash
	if l.pos >= len(l.src) {
		return token{kind: tokChar, val: `\`, pos: start}
	}
	if l.src[l.pos] == '\\' {
		l.pos++
		return token{kind: tokRowSep, val: `\\`, pos: start}
	}
	nameStart := l.pos
	for l.pos < len(l.src) && isASCIILetter(l.src[l.pos]) {
		l.pos++
	}
	if l.pos == nameStart {
		_, size := utf8.DecodeRuneInString(l.src[l.pos:])
		l.pos += size
		return token{kind: tokCommand, val: l.src[nameStart:l.pos], pos: start}
	}
	name := l.src[nameStart:l.pos]
	// \operatorname* and friends
	if l.pos < len(l.src) && l.src[l.pos] == '*' && (name == "operatorname") {
		l.pos++
		name += "*"
	}
	return token{kind: tokCommand, val: name, pos: start}
}

// readRawGroup reads a balanced {...} group verbatim, for text arguments
// and environment names. It reports false if no group starts here.
func (l *lexer) readRawGroup() (string, bool) {
	if len(l.pending) > 1 {
		return "", false
	}
	if len(l.pending) == 1 {
		t := l.pending[0]
		if t.kind != tokLBrace {
			return "", false
		}
		l.pending = l.pending[:0]
		l.pos = t.pos
	}
	l.skipSpace()
	if l.pos >= len(l.src) || l.src[l.pos] != '{' {
		return "", false
	}
	depth := 0
	start := l.pos + 1
	for i := l.pos; i < len(l.src); i++ {
		switch l.src[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				l.pos = i + 1
				return l.src[start:i], true
			}
		}
	}
	return "", false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
