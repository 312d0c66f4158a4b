package mdpreview

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// cjkChar matches one Han ideograph (common, extension A and
	// compatibility blocks), kana character or Hangul syllable.
	cjkChar = regexp.MustCompile(`[\x{4E00}-\x{9FA5}\x{3040}-\x{30FF}\x{3400}-\x{4DBF}\x{F900}-\x{FAFF}\x{AC00}-\x{D7AF}]`)

	// westernWord matches a run of ASCII alphanumerics and Latin-1 letters.
	westernWord = regexp.MustCompile(`[A-Za-z0-9\x{00C0}-\x{00FF}]+`)
)

// WordStats describes the size of a document.
type WordStats struct {
	Words      int // CJK characters plus western words
	CJK        int // CJK characters, one word each
	Western    int // western words
	Characters int // runes
	NonSpace   int // runes that are not whitespace
	Lines      int // lines, counting a final line without newline
}

// CountWords returns the word count of text. Every CJK character counts as
// one word; the remaining text is split into western words.
func CountWords(text string) int {
	return Count(text).Words
}

// Count computes WordStats for text.
func Count(text string) WordStats {
	if text == "" {
		return WordStats{}
	}

	cjk := len(cjkChar.FindAllStringIndex(text, -1))
	western := len(westernWord.FindAllStringIndex(cjkChar.ReplaceAllLiteralString(text, " "), -1))

	lines := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		lines++
	}

	return WordStats{
		Words:      cjk + western,
		CJK:        cjk,
		Western:    western,
		Characters: utf8.RuneCountInString(text),
		NonSpace:   utf8.RuneCountInString(strings.Join(strings.Fields(text), "")),
		Lines:      lines,
	}
}
