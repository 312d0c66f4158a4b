package pipeline

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// textCommands are the commands that make CJK inside math intentional.
var textCommands = []string{
	`\text`, `\textrm`, `\textbf`, `\textit`, `\textsf`, `\texttt`, `\mbox`, `\mathrm`,
}

// IsCJK reports whether r is a Han ideograph, kana or Hangul syllable.
func IsCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}

func containsCJK(s string) bool {
	for _, r := range s {
		if IsCJK(r) {
			return true
		}
	}
	return false
}

func hasTextCommand(s string) bool {
	for _, cmd := range textCommands {
		if strings.Contains(s, cmd) {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && c != '.' && c != ',' {
			return false
		}
	}
	return true
}

// neighborIsCJK reports whether the nearest non-space rune before start or
// after end is CJK.
func neighborIsCJK(text string, start, end int) bool {
	for i := start; i > 0; {
		r, size := utf8.DecodeLastRuneInString(text[:i])
		if r == '\n' {
			break
		}
		if !unicode.IsSpace(r) {
			if IsCJK(r) {
				return true
			}
			break
		}
		i -= size
	}
	for i := end; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == '\n' {
			break
		}
		if !unicode.IsSpace(r) {
			return IsCJK(r)
		}
		i += size
	}
	return false
}

// rejectInline applies the CJK currency heuristic to an inline candidate.
// body is the text between the delimiters at text[open] and text[close].
func rejectInline(text, body string, open, close int) bool {
	if containsCJK(body) && !hasTextCommand(body) {
		return true
	}
	return isNumeric(strings.TrimSpace(body)) && neighborIsCJK(text, open, close+1)
}

// ExtractMath replaces display and inline math in masked text with ledger
// keys. Display blocks are extracted first so their `$$` delimiters are
// never seen by the inline scanner.
func ExtractMath(text string, ledger *Ledger) string {
	if !strings.Contains(text, "$") {
		return text
	}
	text = extractDisplayMath(text, ledger)
	return extractInlineMath(text, ledger)
}

// extractDisplayMath finds `$$` blocks whose opening delimiter starts a
// line (after at most three spaces) and whose closing delimiter ends one.
// A blank line before the closing delimiter cancels the candidate.
func extractDisplayMath(text string, ledger *Ledger) string {
	if !strings.Contains(text, "$$") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	lineStart := 0
	for lineStart < len(text) {
		open := displayOpenAt(text, lineStart)
		if open < 0 {
			lineStart = nextLine(text, lineStart)
			continue
		}
		closeAt := findDisplayClose(text, open+2)
		if closeAt < 0 {
			lineStart = nextLine(text, lineStart)
			continue
		}
		body := text[open+2 : closeAt]
		if strings.TrimSpace(body) == "" {
			lineStart = nextLine(text, lineStart)
			continue
		}
		end := closeAt + 2
		b.WriteString(text[pos:open])
		b.WriteString(ledger.add(TokenMath, text[open:end], MathExpr{
			Expression: strings.TrimSpace(ledger.Expand(body)),
			Display:    true,
		}))
		pos = end
		lineStart = end
		if lineStart < len(text) && text[lineStart] == '\n' {
			lineStart++
		}
	}
	b.WriteString(text[pos:])
	return b.String()
}

// displayOpenAt returns the offset of `$$` opening the line at lineStart,
// or -1.
func displayOpenAt(text string, lineStart int) int {
	i := lineStart
	for spaces := 0; i < len(text) && text[i] == ' ' && spaces < 3; spaces++ {
		i++
	}
	if strings.HasPrefix(text[i:], "$$") {
		return i
	}
	return -1
}

func nextLine(text string, from int) int {
	i := strings.IndexByte(text[from:], '\n')
	if i < 0 {
		return len(text)
	}
	return from + i + 1
}

// findDisplayClose returns the offset of the first `$$` at or after from
// that is followed by a newline or the end of text.
func findDisplayClose(text string, from int) int {
	i := from
	for i < len(text) {
		if text[i] == '\n' && isBlankLineAt(text, i+1) {
			return -1
		}
		if strings.HasPrefix(text[i:], "$$") {
			after := i + 2
			if after == len(text) || text[after] == '\n' || strings.TrimRight(text[after:lineEndAt(text, after)], " \t") == "" {
				return i
			}
			i += 2
			continue
		}
		i++
	}
	return -1
}

func lineEndAt(text string, from int) int {
	i := strings.IndexByte(text[from:], '\n')
	if i < 0 {
		return len(text)
	}
	return from + i
}

// isUnpairedDollar reports whether text[i] is a `$` not adjacent to another.
func isUnpairedDollar(text string, i int) bool {
	if text[i] != '$' {
		return false
	}
	if i > 0 && text[i-1] == '$' {
		return false
	}
	return i+1 >= len(text) || text[i+1] != '$'
}

// extractInlineMath pairs unpaired `$` delimiters on the same line.
func extractInlineMath(text string, ledger *Ledger) string {
	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	i := 0
	for i < len(text) {
		if !isUnpairedDollar(text, i) {
			i++
			continue
		}
		closeAt := -1
		for j := i + 1; j < len(text) && text[j] != '\n'; j++ {
			if text[j] == '$' {
				if isUnpairedDollar(text, j) {
					closeAt = j
				}
				break
			}
		}
		if closeAt < 0 {
			i++
			continue
		}
		body := text[i+1 : closeAt]
		if strings.TrimSpace(body) == "" || rejectInline(text, body, i, closeAt) {
			i = closeAt + 1
			continue
		}
		b.WriteString(text[pos:i])
		b.WriteString(ledger.add(TokenMath, text[i:closeAt+1], MathExpr{
			Expression: strings.TrimSpace(ledger.Expand(body)),
		}))
		pos = closeAt + 1
		i = pos
	}
	b.WriteString(text[pos:])
	return b.String()
}
