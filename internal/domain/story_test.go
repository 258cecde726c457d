package domain

import (
	"strings"
	"testing"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"spaces only", "   \n\t ", 0},
		{"simple", "one two three", 3},
		{"mixed whitespace", "  one\ttwo\n\nthree  ", 3},
		{"punctuation sticks to words", "Hello, world! Bye.", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WordCount(tt.text); got != tt.want {
				t.Errorf("WordCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLengthHint(t *testing.T) {
	tests := []struct {
		name     string
		words    int
		wantHint bool
		contains string
	}{
		{"too short", 349, true, "Expand"},
		{"lower bound", 350, false, ""},
		{"middle", 450, false, ""},
		{"upper bound", 550, false, ""},
		{"too long", 551, true, "Tighten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint, ok := LengthHint(words(tt.words))
			if ok != tt.wantHint {
				t.Fatalf("LengthHint() ok = %v, want %v", ok, tt.wantHint)
			}
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("LengthHint() = %q, want to contain %q", hint, tt.contains)
			}
			if InLengthBand(words(tt.words)) == tt.wantHint {
				t.Errorf("InLengthBand() disagrees with LengthHint() for %d words", tt.words)
			}
		})
	}
}

func TestTargetOverall(t *testing.T) {
	tests := []struct {
		overall float64
		want    float64
	}{
		{1.0, 4.2},
		{3.5, 4.2},
		{4.2, 4.2},
		{4.6, 4.6},
	}

	for _, tt := range tests {
		if got := TargetOverall(tt.overall); got != tt.want {
			t.Errorf("TargetOverall(%v) = %v, want %v", tt.overall, got, tt.want)
		}
	}
}

func TestMergeFeedback(t *testing.T) {
	inBand := words(400)
	short := words(100)

	tests := []struct {
		name     string
		feedback []string
		story    string
		want     []string
	}{
		{"judge feedback only", []string{"a", "b"}, inBand, []string{"a", "b"}},
		{"adds length hint", []string{"a"}, short, []string{"a", expandHint}},
		{"empty in band falls back", []string{}, inBand, []string{PolishFallback}},
		{"nil in band falls back", nil, inBand, []string{PolishFallback}},
		{"blank items dropped", []string{"  ", ""}, inBand, []string{PolishFallback}},
		{"empty but out of band uses hint", nil, short, []string{expandHint}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeFeedback(tt.feedback, tt.story)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("MergeFeedback() = %v, want %v", got, tt.want)
			}
		})
	}
}
