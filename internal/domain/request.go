package domain

import "strings"

const (
	DefaultAge       = 7
	DefaultStyle     = "bedtime, gentle"
	DefaultMoral     = "kindness"
	DefaultMaxLoops  = 2
	DefaultThreshold = 4.2

	MaxTopicLength = 1000
	MaxLoopsLimit  = 10
)

// StoryRequest - параметры одного запуска, не меняются до конца run
type StoryRequest struct {
	Topic     string
	Age       int
	Style     string
	Moral     string
	MaxLoops  int
	Threshold float64
	Verbose   bool
}

func (r *StoryRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return ErrEmptyTopic
	}
	if len(r.Topic) > MaxTopicLength {
		return ErrTopicTooLong
	}
	if r.Age < 1 || r.Age > 18 {
		return ErrInvalidAge
	}
	if r.MaxLoops < 0 || r.MaxLoops > MaxLoopsLimit {
		return ErrInvalidMaxLoops
	}
	if r.Threshold < 1 || r.Threshold > 5 {
		return ErrInvalidThreshold
	}
	return nil
}

func (r *StoryRequest) Sanitize() {
	r.Topic = strings.Join(strings.Fields(r.Topic), " ")
	r.Style = strings.TrimSpace(r.Style)
	r.Moral = strings.TrimSpace(r.Moral)
	if r.Style == "" {
		r.Style = DefaultStyle
	}
	if r.Moral == "" {
		r.Moral = DefaultMoral
	}
}

type Outcome string

const (
	OutcomeAccepted   Outcome = "accepted"
	OutcomeBestEffort Outcome = "best_effort"
)

func (o Outcome) String() string { return string(o) }

type StoryResult struct {
	RunID            string
	Story            string
	Report           *JudgeReport
	Outcome          Outcome
	RevisionsUsed    int
	JudgeRounds      int
	LengthFixApplied bool
}

// AcceptedOnFirstPass - порог взят на первой оценке судьи (правка длины не считается)
func (r *StoryResult) AcceptedOnFirstPass() bool {
	return r.Outcome == OutcomeAccepted && r.JudgeRounds == 1
}
