package mdpreview

import "testing"

func TestCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want WordStats
	}{
		{
			name: "empty",
			text: "",
			want: WordStats{},
		},
		{
			name: "western words",
			text: "Hello, world 42",
			want: WordStats{Words: 3, Western: 3, Characters: 15, NonSpace: 13, Lines: 1},
		},
		{
			name: "CJK characters count one each",
			text: "你好世界",
			want: WordStats{Words: 4, CJK: 4, Characters: 4, NonSpace: 4, Lines: 1},
		},
		{
			name: "mixed",
			text: "Go 語言 rocks",
			want: WordStats{Words: 4, CJK: 2, Western: 2, Characters: 11, NonSpace: 9, Lines: 1},
		},
		{
			name: "CJK adjacent to latin splits words",
			text: "abc中def",
			want: WordStats{Words: 3, CJK: 1, Western: 2, Characters: 7, NonSpace: 7, Lines: 1},
		},
		{
			name: "kana and hangul",
			text: "ひらがな 한국",
			want: WordStats{Words: 6, CJK: 6, Characters: 7, NonSpace: 6, Lines: 1},
		},
		{
			name: "latin-1 letters join words",
			text: "café résumé",
			want: WordStats{Words: 2, Western: 2, Characters: 11, NonSpace: 10, Lines: 1},
		},
		{
			name: "markdown punctuation is not a word",
			text: "# Title\n\n- item\n",
			want: WordStats{Words: 2, Western: 2, Characters: 16, NonSpace: 11, Lines: 3},
		},
		{
			name: "final line without newline",
			text: "a\nb",
			want: WordStats{Words: 2, Western: 2, Characters: 3, NonSpace: 2, Lines: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Count(tt.text); got != tt.want {
				t.Errorf("Count(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCountWords(t *testing.T) {
	t.Parallel()

	if got := CountWords("價格是 100 元"); got != 5 {
		t.Errorf("CountWords() = %d, want 5", got)
	}
}
