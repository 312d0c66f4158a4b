package pipeline

import (
	"strings"
	"testing"
)

func TestMask_RoundTrip(t *testing.T) {
	t.Parallel()

	inputs := map[string]string{
		"fenced block":           "a\n```go\nx := `$y$`\n```\nb",
		"tilde fence":            "~~~\n$x$\n~~~\n",
		"indented fence":         "  ```\n  code\n  ```\n",
		"fence in blockquote":    "> ```\n> $x$\n> ```\n",
		"unterminated fence":     "text\n```\n$x$ never closed",
		"code span":              "a `$x$` b",
		"double backtick span":   "``a ` b``",
		"span with spaces":       "`  two  spaces  `",
		"unmatched backtick":     "a ` b $x$",
		"span across blank line": "`a\n\nb`",
		"escaped dollar":         `price \$5 and \$6`,
		"escaped backslash":      `\\$x$`,
		"mixed":                  "# T\n\n`$a$` \\$ $b$\n\n```mermaid\ngraph\n```\n",
	}

	m := &Masker{}
	for name, src := range inputs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ledger := NewLedger(src)
			masked := m.Mask(src, ledger)
			if got := RestoreCode(masked, ledger); got != src {
				t.Errorf("RestoreCode(Mask(%q)) = %q, want input", src, got)
			}
		})
	}
}

func TestMask_LeavesNoBackticksOrEscapes(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"a `x` b ``y`` c ` d",
		"```\ncode\n```\ntext `span",
		`one \$ two \$`,
		"`a\n\nb`",
	}

	m := &Masker{}
	for _, src := range inputs {
		ledger := NewLedger(src)
		masked := m.Mask(src, ledger)
		if strings.Contains(masked, "`") {
			t.Errorf("Mask(%q) = %q, contains a backtick", src, masked)
		}
		if strings.Contains(masked, `\$`) {
			t.Errorf("Mask(%q) = %q, contains an escaped dollar", src, masked)
		}
	}
}

func TestMask_FenceKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		diagram  string
		src      string
		wantKind TokenKind
	}{
		{"plain code", "", "```go\nx\n```", TokenCode},
		{"default diagram tag", "", "```mermaid\ngraph LR\n```", TokenDiagram},
		{"tag is case-insensitive", "", "```Mermaid\ngraph LR\n```", TokenDiagram},
		{"custom diagram tag", "plantuml", "```plantuml\n@startuml\n```", TokenDiagram},
		{"default tag is code when customized", "plantuml", "```mermaid\ngraph\n```", TokenCode},
		{"math fence", "", "```math\nx^2\n```", TokenMath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ledger := NewLedger(tt.src)
			masked := (&Masker{DiagramLanguage: tt.diagram}).Mask(tt.src, ledger)

			tokens := ledger.Tokens()
			if len(tokens) != 1 {
				t.Fatalf("Mask(%q) recorded %d tokens, want 1", tt.src, len(tokens))
			}
			if tokens[0].Kind != tt.wantKind {
				t.Errorf("token kind = %v, want %v", tokens[0].Kind, tt.wantKind)
			}
			if masked != tokens[0].Key {
				t.Errorf("Mask(%q) = %q, want the bare key", tt.src, masked)
			}
		})
	}
}

func TestMask_MathFenceExpression(t *testing.T) {
	t.Parallel()

	src := "```math\n\\frac{a}{b}\n```\n"
	ledger := NewLedger(src)
	(&Masker{}).Mask(src, ledger)

	tok := ledger.Tokens()[0]
	if tok.Math.Expression != `\frac{a}{b}` || !tok.Math.Display {
		t.Errorf("math fence = %+v, want display expression \\frac{a}{b}", tok.Math)
	}
}

func TestMask_IndentedCodeIsNotAFence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"four spaces", "    ```\n    code\n\n$x$ after"},
		{"tab", "\t```\n\tcode\n\n$x$ after"},
		{"four spaces inside blockquote", ">     ```\n\n$x$ after"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ledger := NewLedger(tt.src)
			ExtractMath((&Masker{}).Mask(tt.src, ledger), ledger)

			if got := ledger.Count(TokenMath); got != 1 {
				t.Errorf("math after indented code: %d expressions extracted, want 1", got)
			}
		})
	}
}

func TestMask_FenceIndentUpToThreeSpaces(t *testing.T) {
	t.Parallel()

	for _, src := range []string{"   ```\n$x$\n   ```", "> ```\n> $x$\n> ```", ">> ```\n>> $x$\n>> ```"} {
		ledger := NewLedger(src)
		ExtractMath((&Masker{}).Mask(src, ledger), ledger)

		if ledger.Count(TokenCode) != 1 || ledger.Count(TokenMath) != 0 {
			t.Errorf("Mask(%q): code=%d math=%d, want the fence masked as code",
				src, ledger.Count(TokenCode), ledger.Count(TokenMath))
		}
	}
}

func TestMask_MathFenceInBlockquote(t *testing.T) {
	t.Parallel()

	src := "> ```math\n> x^2\n> + y\n> ```\nafter"
	ledger := NewLedger(src)
	masked := (&Masker{}).Mask(src, ledger)

	tok := ledger.Tokens()[0]
	if want := "> " + tok.Key + "\nafter"; masked != want {
		t.Errorf("Mask() = %q, want %q", masked, want)
	}
	if tok.Math.Expression != "x^2\n+ y" || !tok.Math.Display {
		t.Errorf("math fence = %+v, want display expression without quote markers", tok.Math)
	}
	if got := ledger.Literalize(masked); got != src {
		t.Errorf("Literalize(Mask()) = %q, want input", got)
	}
}

func TestMask_FenceKeepsSurroundingNewlines(t *testing.T) {
	t.Parallel()

	src := "before\n```\ncode\n```\nafter"
	ledger := NewLedger(src)
	masked := (&Masker{}).Mask(src, ledger)

	want := "before\n" + ledger.Tokens()[0].Key + "\nafter"
	if masked != want {
		t.Errorf("Mask() = %q, want %q", masked, want)
	}
}

func TestMask_UnterminatedFenceMasksToEnd(t *testing.T) {
	t.Parallel()

	src := "text\n```\n$x$ and $$y$$"
	ledger := NewLedger(src)
	masked := ExtractMath((&Masker{}).Mask(src, ledger), ledger)

	if ledger.Count(TokenMath) != 0 {
		t.Errorf("math extracted from an unterminated fence: %q", masked)
	}
	if want := "text\n" + ledger.Tokens()[0].Key; masked != want {
		t.Errorf("Mask() = %q, want %q", masked, want)
	}
}

func TestMask_CodeSpans(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		sources []string
	}{
		{"single", "a `$x$` b", []string{"`$x$`"}},
		{"double encloses single", "``a ` b``", []string{"``a ` b``"}},
		{"two spans", "`a` and `b`", []string{"`a`", "`b`"}},
		{"unmatched run", "a ` b", []string{"`"}},
		{"blank line breaks span", "`a\n\nb`", []string{"`", "`"}},
		{"span across soft break", "`a\nb`", []string{"`a\nb`"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ledger := NewLedger(tt.src)
			(&Masker{}).Mask(tt.src, ledger)

			tokens := ledger.Tokens()
			if len(tokens) != len(tt.sources) {
				t.Fatalf("Mask(%q) recorded %d tokens, want %d", tt.src, len(tokens), len(tt.sources))
			}
			for i, want := range tt.sources {
				if tokens[i].Source != want {
					t.Errorf("token %d source = %q, want %q", i, tokens[i].Source, want)
				}
			}
		})
	}
}

func TestMask_Escapes(t *testing.T) {
	t.Parallel()

	src := `\$5, \\$x$ and \$`
	ledger := NewLedger(src)
	masked := ExtractMath((&Masker{}).Mask(src, ledger), ledger)

	if got := ledger.Count(TokenEscape); got != 2 {
		t.Errorf("escape tokens = %d, want 2 in %q", got, masked)
	}
	if got := ledger.Count(TokenMath); got != 1 {
		t.Errorf("math tokens = %d, want 1 (after an escaped backslash)", got)
	}
}
