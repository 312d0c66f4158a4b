//go:build bench

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// BenchmarkGoldmarkToHTML benchmarks the structural parse with math nodes.
func BenchmarkGoldmarkToHTML(b *testing.B) {
	converter := NewGoldmarkConverter(ConverterConfig{})
	masker := &Masker{}
	ctx := context.Background()

	for _, size := range []int{1, 10, 50, 200} {
		source := generateMixedMarkdown(size)
		b.Run(fmt.Sprintf("sections_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				ledger := NewLedger(source)
				text := ExtractMath(masker.Mask(source, ledger), ledger)
				if _, err := converter.ToHTML(ctx, RestoreCode(text, ledger), ledger); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkMask benchmarks the masking and extraction passes alone.
func BenchmarkMask(b *testing.B) {
	masker := &Masker{}
	source := generateMixedMarkdown(100)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ledger := NewLedger(source)
		_ = ExtractMath(masker.Mask(source, ledger), ledger)
	}
}

// BenchmarkSanitize benchmarks the bluemonday policy.
func BenchmarkSanitize(b *testing.B) {
	sanitizer := NewSanitizer()
	fragment := strings.Repeat(`<p>Text <span class="math math-inline">mdpvtok0z</span> <a href="https://example.com" onclick="x()">link</a></p>`, 100)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = sanitizer.Sanitize(fragment)
	}
}

func generateMixedMarkdown(sections int) string {
	var sb strings.Builder
	for i := 0; i < sections; i++ {
		fmt.Fprintf(&sb, "## Section %d\n\n", i)
		sb.WriteString("Some *emphasis*, `code $x$`, and inline math $a_i^2 + b_i^2$.\n\n")
		sb.WriteString("$$\n\\sum_{k=1}^{n} k = \\frac{n(n+1)}{2}\n$$\n\n")
		sb.WriteString("```go\nfunc f() int { return 1 }\n```\n\n")
		sb.WriteString("| a | b |\n|---|---|\n| $x$ | 價格是 $100$ 元 |\n\n")
	}
	return sb.String()
}
