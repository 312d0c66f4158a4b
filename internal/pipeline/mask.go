package pipeline

import (
	"strings"
)

// DefaultDiagramLanguage is the fence tag rendered as a diagram container.
const DefaultDiagramLanguage = "mermaid"

// mathFenceLanguage marks a fenced block whose body is display math.
const mathFenceLanguage = "math"

// Masker protects code and escaped dollars from the math pass.
type Masker struct {
	DiagramLanguage string
}

// Mask replaces fenced code blocks, inline code spans and `\$` escapes with
// ledger keys, in that order. The returned text contains no bare backtick
// runs and no unmasked `\$`.
func (m *Masker) Mask(source string, ledger *Ledger) string {
	text := m.maskFences(source, ledger)
	text = maskCodeSpans(text, ledger)
	text = maskEscapes(text, ledger)
	return text
}

// fence describes an opening fence line.
type fence struct {
	lead   string // blockquote markers and indentation before the fence run
	char   byte
	length int
	info   string
}

// quoteEnd returns the offset just past the blockquote markers that open
// line, each with up to three spaces before it and one optional space
// after it.
func quoteEnd(line string) int {
	i := 0
	for {
		j := i
		for j < len(line) && j-i < 3 && line[j] == ' ' {
			j++
		}
		if j >= len(line) || line[j] != '>' {
			return i
		}
		i = j + 1
		if i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
	}
}

// splitLead separates the container lead of line (blockquote markers and
// at most three spaces of indentation) from the rest. ok is false when
// the rest is indented four or more columns: that line is indented code,
// never a fence.
func splitLead(line string) (lead, rest string, ok bool) {
	i := quoteEnd(line)
	j := i
	for j < len(line) && line[j] == ' ' {
		j++
	}
	if j-i > 3 || (j < len(line) && line[j] == '\t') {
		return "", "", false
	}
	return line[:j], line[j:], true
}

// parseFenceOpen reports whether line opens a fenced block. Fences inside
// blockquotes are recognized so their contents are protected too.
func parseFenceOpen(line string) (fence, bool) {
	lead, rest, ok := splitLead(line)
	if !ok || len(rest) < 3 || (rest[0] != '`' && rest[0] != '~') {
		return fence{}, false
	}
	c := rest[0]
	n := runLength(rest, 0, c)
	if n < 3 {
		return fence{}, false
	}
	info := strings.TrimSpace(rest[n:])
	if c == '`' && strings.Contains(info, "`") {
		return fence{}, false
	}
	return fence{lead: lead, char: c, length: n, info: info}, true
}

// closesFence reports whether line closes f.
func closesFence(line string, f fence) bool {
	_, rest, ok := splitLead(line)
	if !ok {
		return false
	}
	n := runLength(rest, 0, f.char)
	if n < f.length {
		return false
	}
	return strings.TrimSpace(rest[n:]) == ""
}

// fenceLanguage returns the first word of a fence info string.
func fenceLanguage(info string) string {
	if i := strings.IndexAny(info, " \t{"); i >= 0 {
		info = info[:i]
	}
	return strings.ToLower(info)
}

// maskFences masks whole fenced blocks, fence lines included. The trailing
// newline of the closing fence stays outside the key so block structure is
// preserved. An unterminated fence masks to the end of the text.
func (m *Masker) maskFences(text string, ledger *Ledger) string {
	if !strings.Contains(text, "```") && !strings.Contains(text, "~~~") {
		return text
	}
	diagram := m.DiagramLanguage
	if diagram == "" {
		diagram = DefaultDiagramLanguage
	}

	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for pos < len(text) {
		lineEnd := strings.IndexByte(text[pos:], '\n')
		next := len(text)
		if lineEnd >= 0 {
			lineEnd += pos
			next = lineEnd + 1
		} else {
			lineEnd = len(text)
		}
		f, ok := parseFenceOpen(text[pos:lineEnd])
		if !ok {
			b.WriteString(text[pos:next])
			pos = next
			continue
		}

		// Find the closing fence line.
		end := len(text)
		after := len(text)
		scan := next
		for scan < len(text) {
			le := strings.IndexByte(text[scan:], '\n')
			ln := len(text)
			if le >= 0 {
				ln = scan + le
			}
			if closesFence(text[scan:ln], f) {
				end = ln
				after = ln
				break
			}
			if le < 0 {
				break
			}
			scan = ln + 1
		}

		block := text[pos:end]
		switch fenceLanguage(f.info) {
		case diagram:
			b.WriteString(ledger.add(TokenDiagram, block, MathExpr{}))
		case mathFenceLanguage:
			// The lead stays in the text so the key keeps its place in
			// any enclosing blockquote or list item.
			b.WriteString(f.lead)
			b.WriteString(ledger.add(TokenMath, block[len(f.lead):], MathExpr{
				Expression: strings.TrimSpace(stripQuoteMarkers(fenceBody(text, next, end))),
				Display:    true,
			}))
		default:
			b.WriteString(ledger.add(TokenCode, block, MathExpr{}))
		}
		pos = after
	}
	return b.String()
}

// fenceBody returns the lines between the opening fence (ending at
// bodyStart) and the closing fence line starting somewhere before end.
func fenceBody(text string, bodyStart, end int) string {
	if bodyStart >= end {
		return ""
	}
	body := text[bodyStart:end]
	if i := strings.LastIndexByte(body, '\n'); i >= 0 {
		last := body[i+1:]
		if strings.Trim(last, " \t>`~") == "" {
			return body[:i]
		}
		return body
	}
	if strings.Trim(body, " \t>`~") == "" {
		return ""
	}
	return body
}

// stripQuoteMarkers removes the blockquote markers opening each line.
func stripQuoteMarkers(body string) string {
	if !strings.Contains(body, ">") {
		return body
	}
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = line[quoteEnd(line):]
	}
	return strings.Join(lines, "\n")
}

// maskCodeSpans masks inline code spans. A span opens with a run of N
// backticks and closes with the next run of exactly N backticks that is
// not separated from it by a blank line. Unmatched runs are masked alone.
func maskCodeSpans(text string, ledger *Ledger) string {
	if !strings.Contains(text, "`") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	i := 0
	for i < len(text) {
		if text[i] != '`' {
			j := strings.IndexByte(text[i:], '`')
			if j < 0 {
				b.WriteString(text[i:])
				break
			}
			b.WriteString(text[i : i+j])
			i += j
			continue
		}
		n := runLength(text, i, '`')
		closeAt := findClosingRun(text, i+n, n)
		if closeAt < 0 {
			b.WriteString(ledger.add(TokenCode, text[i:i+n], MathExpr{}))
			i += n
			continue
		}
		end := closeAt + n
		b.WriteString(ledger.add(TokenCode, text[i:end], MathExpr{}))
		i = end
	}
	return b.String()
}

func runLength(text string, i int, c byte) int {
	n := 0
	for i+n < len(text) && text[i+n] == c {
		n++
	}
	return n
}

// findClosingRun returns the offset of the next backtick run of exactly n
// characters at or after from, or -1 if a blank line or the end of text
// comes first.
func findClosingRun(text string, from, n int) int {
	i := from
	for i < len(text) {
		switch text[i] {
		case '`':
			m := runLength(text, i, '`')
			if m == n {
				return i
			}
			i += m
		case '\n':
			if isBlankLineAt(text, i+1) {
				return -1
			}
			i++
		default:
			i++
		}
	}
	return -1
}

// isBlankLineAt reports whether the line starting at i holds only spaces
// and tabs.
func isBlankLineAt(text string, i int) bool {
	for i < len(text) {
		switch text[i] {
		case ' ', '\t':
			i++
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

// maskEscapes masks every `\$`. Escaped backslashes are skipped in pairs
// so that `\\$` keeps its dollar sign as a delimiter.
func maskEscapes(text string, ledger *Ledger) string {
	if !strings.Contains(text, `\$`) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] != '\\' || i+1 >= len(text) {
			b.WriteByte(text[i])
			continue
		}
		switch text[i+1] {
		case '\\':
			b.WriteString(`\\`)
			i++
		case '$':
			b.WriteString(ledger.add(TokenEscape, `\$`, MathExpr{}))
			i++
		default:
			b.WriteByte(text[i])
		}
	}
	return b.String()
}

// RestoreCode replaces code, diagram and escape keys with their exact
// source so the structural parser sees the original fences and spans.
// Math keys stay opaque.
func RestoreCode(text string, ledger *Ledger) string {
	return ledger.Expand(text)
}
