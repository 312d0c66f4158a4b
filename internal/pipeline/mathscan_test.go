package pipeline

import (
	"testing"
)

// extract runs masking and math extraction and returns the math tokens.
func extract(t *testing.T, src string) (string, []Token) {
	t.Helper()

	ledger := NewLedger(src)
	text := ExtractMath((&Masker{}).Mask(src, ledger), ledger)

	var math []Token
	for _, tok := range ledger.Tokens() {
		if tok.Kind == TokenMath {
			math = append(math, tok)
		}
	}
	return text, math
}

func TestExtractMath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []MathExpr
	}{
		{
			name: "inline",
			src:  "Energy $E = mc^2$ here.",
			want: []MathExpr{{Expression: "E = mc^2"}},
		},
		{
			name: "two inline on one line",
			src:  "$a$ and $b$",
			want: []MathExpr{{Expression: "a"}, {Expression: "b"}},
		},
		{
			name: "anchored display block",
			src:  "$$\nx = 1\n$$",
			want: []MathExpr{{Expression: "x = 1", Display: true}},
		},
		{
			name: "single line display",
			src:  "$$x^2$$\n",
			want: []MathExpr{{Expression: "x^2", Display: true}},
		},
		{
			name: "display with up to three leading spaces",
			src:  "   $$\n   y\n   $$\n",
			want: []MathExpr{{Expression: "y", Display: true}},
		},
		{
			name: "display then inline",
			src:  "$$\na\n$$\n\ntext $b$",
			want: []MathExpr{{Expression: "a", Display: true}, {Expression: "b"}},
		},
		{
			name: "mid-sentence double dollar is not display",
			src:  "costs $$ here and $$ there",
		},
		{
			name: "closing delimiter must end a line",
			src:  "$$ a $$ b",
		},
		{
			name: "blank line cancels display",
			src:  "$$\na\n\nb\n$$",
		},
		{
			name: "indented four spaces is not display",
			src:  "    $$\nx\n$$",
		},
		{
			name: "inline does not cross lines",
			src:  "$a\nb$",
		},
		{
			name: "CJK currency is prose",
			src:  "價格是 $100$ 元",
		},
		{
			name: "CJK inside expression is prose",
			src:  "$x 和 y$",
		},
		{
			name: "CJK with text command is math",
			src:  `$\text{和} x$`,
			want: []MathExpr{{Expression: `\text{和} x`}},
		},
		{
			name: "number next to latin text is math",
			src:  "the value $100$ here",
			want: []MathExpr{{Expression: "100"}},
		},
		{
			name: "escaped dollar is never a delimiter",
			src:  `cost \$5 and \$6`,
		},
		{
			name: "escaped dollar inside expression",
			src:  `$a \$ b$`,
			want: []MathExpr{{Expression: `a \$ b`}},
		},
		{
			name: "code span is never math",
			src:  "`price: $5$`",
		},
		{
			name: "fenced code is never math",
			src:  "```\nprice: $5$\n$$\nx\n$$\n```",
		},
		{
			name: "display delimiters inside a blockquote stay text",
			src:  "> $$\n> x\n> $$",
		},
		{
			name: "display delimiters after a list bullet stay text",
			src:  "- $$\n  x\n  $$",
		},
		{
			name: "math fence inside a blockquote is display",
			src:  "> ```math\n> x\n> ```",
			want: []MathExpr{{Expression: "x", Display: true}},
		},
		{
			name: "inline inside a blockquote",
			src:  "> see $x$",
			want: []MathExpr{{Expression: "x"}},
		},
		{
			name: "empty inline is skipped",
			src:  "$ $ and $x$",
			want: []MathExpr{{Expression: "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			text, got := extract(t, tt.src)
			if len(got) != len(tt.want) {
				t.Fatalf("extract(%q) found %d expressions, want %d (masked %q)", tt.src, len(got), len(tt.want), text)
			}
			for i, want := range tt.want {
				if got[i].Math != want {
					t.Errorf("expression %d = %+v, want %+v", i, got[i].Math, want)
				}
			}
		})
	}
}

func TestExtractMath_SourceKeepsDelimiters(t *testing.T) {
	t.Parallel()

	_, got := extract(t, "x $a$ y\n\n$$\nb\n$$\n")
	if len(got) != 2 {
		t.Fatalf("found %d expressions, want 2", len(got))
	}
	// Display blocks are extracted before inline expressions.
	if got[0].Source != "$$\nb\n$$" {
		t.Errorf("display source = %q, want %q", got[0].Source, "$$\nb\n$$")
	}
	if got[1].Source != "$a$" {
		t.Errorf("inline source = %q, want %q", got[1].Source, "$a$")
	}
}

func TestExtractMath_DisplayKeepsNewlines(t *testing.T) {
	t.Parallel()

	text, got := extract(t, "above\n\n$$\nx\n$$\n\nbelow")
	if len(got) != 1 {
		t.Fatalf("found %d expressions, want 1", len(got))
	}
	if want := "above\n\n" + got[0].Key + "\n\nbelow"; text != want {
		t.Errorf("ExtractMath() = %q, want %q", text, want)
	}
}

func TestIsCJK(t *testing.T) {
	t.Parallel()

	tests := []struct {
		r    rune
		want bool
	}{
		{'價', true},
		{'ひ', true},
		{'カ', true},
		{'한', true},
		{'a', false},
		{'é', false},
		{'$', false},
	}
	for _, tt := range tests {
		if got := IsCJK(tt.r); got != tt.want {
			t.Errorf("IsCJK(%q) = %v, want %v", tt.r, got, tt.want)
		}
	}
}
