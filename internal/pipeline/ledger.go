package pipeline

import (
	"strconv"
	"strings"
)

// TokenKind classifies a masked region of the source text.
type TokenKind int

const (
	// TokenCode is a fenced code block or an inline code span.
	TokenCode TokenKind = iota
	// TokenDiagram is a fenced block tagged with the diagram language.
	TokenDiagram
	// TokenEscape is the two-character sequence `\$`.
	TokenEscape
	// TokenMath is an inline or display math expression.
	TokenMath
)

// String returns the kind name used in logs and AST dumps.
func (k TokenKind) String() string {
	switch k {
	case TokenCode:
		return "code"
	case TokenDiagram:
		return "diagram"
	case TokenEscape:
		return "escape"
	case TokenMath:
		return "math"
	default:
		return "unknown"
	}
}

// MathExpr describes one math expression awaiting typesetting.
type MathExpr struct {
	Expression string
	Display    bool
}

// Token is one entry of the masking ledger.
type Token struct {
	Key    string
	Kind   TokenKind
	Source string // exact substring that was masked
	Math   MathExpr
}

// Literal returns the text a reader would have typed for this token.
// Math tokens produced by extraction carry their delimiters in Source.
func (t Token) Literal() string {
	return t.Source
}

// Key layout: prefix, decimal index, terminator. All characters are ASCII
// letters or digits, so no Markdown inline grammar reinterprets them.
const (
	basePrefix    = "mdpvtok"
	prefixPadding = "q"
	keyTerminator = 'z'
)

// Ledger records every region masked during one pipeline run.
// It is not safe for concurrent use; each run owns its ledger.
type Ledger struct {
	prefix string
	tokens []Token
	counts [TokenMath + 1]int
}

// NewLedger creates a ledger whose key prefix does not occur in source.
// The prefix starts with a letter that appears nowhere else in it, so a key
// can never be matched starting inside the text that precedes it.
func NewLedger(source string) *Ledger {
	prefix := basePrefix
	for strings.Contains(source, prefix) {
		prefix += prefixPadding
	}
	return &Ledger{prefix: prefix}
}

// Prefix returns the key prefix chosen for this run.
func (l *Ledger) Prefix() string {
	return l.prefix
}

// Len returns the number of tokens recorded so far.
func (l *Ledger) Len() int {
	return len(l.tokens)
}

// Count returns the number of tokens of the given kind.
func (l *Ledger) Count(kind TokenKind) int {
	if kind < 0 || int(kind) >= len(l.counts) {
		return 0
	}
	return l.counts[kind]
}

// Tokens returns the recorded tokens in insertion order.
func (l *Ledger) Tokens() []Token {
	out := make([]Token, len(l.tokens))
	copy(out, l.tokens)
	return out
}

// add records a token and returns its freshly minted key.
func (l *Ledger) add(kind TokenKind, source string, expr MathExpr) string {
	key := l.prefix + strconv.Itoa(len(l.tokens)) + string(keyTerminator)
	l.tokens = append(l.tokens, Token{Key: key, Kind: kind, Source: source, Math: expr})
	l.counts[kind]++
	return key
}

// Lookup returns the token for key.
func (l *Ledger) Lookup(key string) (Token, bool) {
	idx, ok := l.parseKey(key)
	if !ok || len(key) != l.keyLen(key) {
		return Token{}, false
	}
	return l.tokens[idx], true
}

// keyLen returns the length of the key starting at the beginning of s,
// or 0 if s does not start with a valid key.
func (l *Ledger) keyLen(s string) int {
	if !strings.HasPrefix(s, l.prefix) {
		return 0
	}
	i := len(l.prefix)
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start || i >= len(s) || s[i] != keyTerminator {
		return 0
	}
	return i + 1
}

func (l *Ledger) parseKey(s string) (int, bool) {
	n := l.keyLen(s)
	if n == 0 {
		return 0, false
	}
	digits := s[len(l.prefix) : n-1]
	if len(digits) > 1 && digits[0] == '0' {
		return 0, false
	}
	idx, err := strconv.Atoi(digits)
	if err != nil || idx < 0 || idx >= len(l.tokens) {
		return 0, false
	}
	return idx, true
}

// SegmentKind distinguishes literal text from token references.
type SegmentKind int

const (
	// LiteralText is ordinary text between tokens.
	LiteralText SegmentKind = iota
	// TokenRef is a reference to a ledger token.
	TokenRef
)

// Segment is one element of the typed token sequence produced by Segments.
// Start and End are byte offsets into the scanned text.
type Segment struct {
	Kind  SegmentKind
	Text  string
	Token Token
	Start int
	End   int
}

// Segments splits text into literal runs and references to known tokens.
// Unknown keys (or lookalikes) are kept as literal text.
func (l *Ledger) Segments(text string) []Segment {
	var segs []Segment
	literalStart := 0
	pos := 0
	for pos < len(text) {
		idx := strings.Index(text[pos:], l.prefix)
		if idx < 0 {
			break
		}
		at := pos + idx
		tokIdx, ok := l.parseKey(text[at:])
		if !ok {
			pos = at + 1
			continue
		}
		end := at + l.keyLen(text[at:])
		if at > literalStart {
			segs = append(segs, Segment{Kind: LiteralText, Text: text[literalStart:at], Start: literalStart, End: at})
		}
		segs = append(segs, Segment{Kind: TokenRef, Text: text[at:end], Token: l.tokens[tokIdx], Start: at, End: end})
		literalStart = end
		pos = end
	}
	if literalStart < len(text) {
		segs = append(segs, Segment{Kind: LiteralText, Text: text[literalStart:], Start: literalStart, End: len(text)})
	}
	return segs
}

// Replace rewrites every token reference in text using fn. Returning
// ok=false from fn keeps the key in place.
func (l *Ledger) Replace(text string, fn func(Token) (string, bool)) string {
	if !strings.Contains(text, l.prefix) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, seg := range l.Segments(text) {
		if seg.Kind == TokenRef {
			if repl, ok := fn(seg.Token); ok {
				b.WriteString(repl)
				continue
			}
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Expand restores code, diagram and escape tokens inside text to their
// source, leaving math keys untouched.
func (l *Ledger) Expand(text string) string {
	return l.Replace(text, func(t Token) (string, bool) {
		if t.Kind == TokenMath {
			return "", false
		}
		return t.Source, true
	})
}

// Literalize restores every token, math included, to the text the author
// typed. Used for keys that surface where no rendering is possible.
func (l *Ledger) Literalize(text string) string {
	return l.Replace(text, func(t Token) (string, bool) {
		return l.Expand(t.Literal()), true
	})
}
