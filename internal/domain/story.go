package domain

import (
	"fmt"
	"math"
	"strings"
)

const (
	MinWords = 350
	MaxWords = 550

	// TargetOverallFloor - минимальная цель для редактора, не зависит от threshold
	TargetOverallFloor = 4.2
	// PseudoOverall - заглушка для отчета перед правкой длины
	PseudoOverall = 3.5

	PolishFallback = "Polish flow while keeping clarity for ages 5-10."
)

var (
	expandHint  = fmt.Sprintf("Expand to %d-%d words with full paragraphs.", MinWords, MaxWords)
	tightenHint = fmt.Sprintf("Tighten to %d-%d words without removing key plot beats.", MinWords, MaxWords)
)

func WordCount(text string) int {
	return len(strings.Fields(text))
}

func InLengthBand(text string) bool {
	wc := WordCount(text)
	return wc >= MinWords && wc <= MaxWords
}

// LengthHint возвращает подсказку редактору, если длина вне [MinWords, MaxWords]
func LengthHint(text string) (string, bool) {
	wc := WordCount(text)
	switch {
	case wc < MinWords:
		return expandHint, true
	case wc > MaxWords:
		return tightenHint, true
	}
	return "", false
}

func TargetOverall(overall float64) float64 {
	return math.Max(overall, TargetOverallFloor)
}

// MergeFeedback - замечания судьи плюс подсказка по длине.
// Пустой результат не допускается: редактор без указаний не вызывается.
func MergeFeedback(feedback []string, story string) []string {
	merged := make([]string, 0, len(feedback)+1)
	for _, f := range feedback {
		if s := strings.TrimSpace(f); s != "" {
			merged = append(merged, s)
		}
	}
	if hint, ok := LengthHint(story); ok {
		merged = append(merged, hint)
	}
	if len(merged) == 0 {
		merged = append(merged, PolishFallback)
	}
	return merged
}
