package service

import "github.com/kitbuilder587/bedtime-stories/internal/domain"

// Observer получает события цикла для подробного вывода в консоль
type Observer interface {
	DraftCreated(wordCount int)
	LengthFixStarted(hint string)
	LengthFixApplied(wordCount int)
	Judged(round int, report *domain.JudgeReport)
	RevisionStarted(loop, maxLoops int)
}

type NopObserver struct{}

func (NopObserver) DraftCreated(int)                {}
func (NopObserver) LengthFixStarted(string)         {}
func (NopObserver) LengthFixApplied(int)            {}
func (NopObserver) Judged(int, *domain.JudgeReport) {}
func (NopObserver) RevisionStarted(int, int)        {}

var _ Observer = NopObserver{}
