package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/kitbuilder587/bedtime-stories/internal/domain"
	"github.com/kitbuilder587/bedtime-stories/internal/llm"
)

func storyOf(words int) string {
	return strings.TrimSpace(strings.Repeat("cloud ", words))
}

func judgeJSON(overall float64, feedback ...string) string {
	if feedback == nil {
		feedback = []string{}
	}
	body, _ := json.Marshal(map[string]interface{}{
		"scores": map[string]int{
			"audience_fit":   4,
			"plot_structure": 4,
			"moral_clarity":  4,
			"vocabulary":     4,
			"safety":         5,
			"length":         4,
		},
		"overall":             overall,
		"actionable_feedback": feedback,
	})
	return string(body)
}

func storyRequest(maxLoops int, threshold float64) domain.StoryRequest {
	return domain.StoryRequest{
		Topic:     "A kid helps a lost cloud find home",
		Age:       8,
		Style:     domain.DefaultStyle,
		Moral:     domain.DefaultMoral,
		MaxLoops:  maxLoops,
		Threshold: threshold,
	}
}

type recordingObserver struct {
	events []string
}

func (o *recordingObserver) DraftCreated(int)                { o.events = append(o.events, "draft") }
func (o *recordingObserver) LengthFixStarted(string)         { o.events = append(o.events, "length_start") }
func (o *recordingObserver) LengthFixApplied(int)            { o.events = append(o.events, "length_done") }
func (o *recordingObserver) Judged(int, *domain.JudgeReport) { o.events = append(o.events, "judged") }
func (o *recordingObserver) RevisionStarted(int, int)        { o.events = append(o.events, "revision") }

// purposeClient отвечает по назначению вызова: история на draft/revise, отчет на judge
type purposeClient struct {
	story string
	judge string
	calls map[string]int
	total int
}

func newPurposeClient(story, judge string) *purposeClient {
	return &purposeClient{story: story, judge: judge, calls: make(map[string]int)}
}

func (c *purposeClient) Generate(_ context.Context, req llm.Request) (string, error) {
	c.total++
	c.calls[req.Purpose]++
	if req.Purpose == PurposeJudge {
		return c.judge, nil
	}
	return c.story, nil
}

func userContent(req llm.Request) string {
	for _, m := range req.Messages {
		if m.Role == llm.RoleUser {
			return m.Content
		}
	}
	return ""
}
