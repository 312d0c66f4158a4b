package mdpreview

import "strings"

// Match is the byte range of one search hit.
type Match struct {
	Start int
	End   int
}

// FindNext returns the first occurrence of query at or after from,
// wrapping to the start of text when nothing follows. Offsets are bytes.
// ok is false for an empty query or when text has no occurrence.
func FindNext(text, query string, from int) (m Match, ok bool) {
	if query == "" {
		return Match{}, false
	}
	if from < 0 || from > len(text) {
		from = 0
	}

	if i := strings.Index(text[from:], query); i >= 0 {
		start := from + i
		return Match{Start: start, End: start + len(query)}, true
	}
	if i := strings.Index(text[:min(len(text), from+len(query)-1)], query); i >= 0 {
		return Match{Start: i, End: i + len(query)}, true
	}
	return Match{}, false
}

// FindAll returns every non-overlapping occurrence of query, in order.
func FindAll(text, query string) []Match {
	if query == "" {
		return nil
	}

	var matches []Match
	for offset := 0; offset <= len(text); {
		i := strings.Index(text[offset:], query)
		if i < 0 {
			break
		}
		start := offset + i
		matches = append(matches, Match{Start: start, End: start + len(query)})
		offset = start + len(query)
	}
	return matches
}

// ReplaceAll substitutes every literal occurrence of query with repl and
// returns the new text with the number of replacements. An empty query
// leaves text unchanged.
func ReplaceAll(text, query, repl string) (string, int) {
	if query == "" {
		return text, 0
	}
	n := strings.Count(text, query)
	if n == 0 {
		return text, 0
	}
	return strings.ReplaceAll(text, query, repl), n
}
