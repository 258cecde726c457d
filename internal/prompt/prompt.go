// Package prompt собирает сообщения для трех вызовов модели: черновик, оценка, правка.
// Функции чистые, ошибок не возвращают.
package prompt

import (
	"fmt"
	"strings"

	"github.com/kitbuilder587/bedtime-stories/internal/domain"
	"github.com/kitbuilder587/bedtime-stories/internal/llm"
)

// StrictJSONSuffix дописывается к user-сообщению судьи при повторной попытке
const StrictJSONSuffix = "\n\nIMPORTANT: Return VALID JSON only. No commentary."

var storytellerSystem = fmt.Sprintf(`You are an expert children's storyteller for ages 5-10. `+
	`Write a safe, positive story with a clear beginning, middle, and end. `+
	`Use simple, vivid vocabulary. `+
	`Write a FULL narrative (no outlines or bullet points). `+
	`Target %d-%d words; do NOT write fewer than %d words. `+
	`End with ONE sentence stating the moral.`, domain.MinWords, domain.MaxWords, domain.MinWords)

var judgeSystem = `You are a strict children's literature reviewer for ages 5-10. ` +
	`Return ONLY a JSON object with fields: scores, overall, actionable_feedback. ` +
	`scores is an object with keys: ` + strings.Join(domain.RubricDimensions, ", ") + `. ` +
	`Each score is an integer 1-5. overall is 1-5. actionable_feedback is an array of 2-5 short strings. ` +
	`No commentary, no markdown, JSON only.`

var editorSystem = fmt.Sprintf(`You are a careful editor. Revise the story conservatively to address the listed issues. `+
	`Preserve the plot and voice. `+
	`Keep the story length between %d-%d words (do NOT shorten below %d words). `+
	`Maintain age-appropriate vocabulary, clear beginning-middle-end, and end with one-sentence moral. `+
	`Never drop the moral. `+
	`Write a FULL narrative in paragraphs; no outlines.`, domain.MinWords, domain.MaxWords, domain.MinWords)

func Draft(topic string, age int, style, moral string) []llm.Message {
	var sb strings.Builder
	sb.WriteString("Write a story based on this request.\n")
	fmt.Fprintf(&sb, "- Topic: %s\n", topic)
	fmt.Fprintf(&sb, "- Target age: %d\n", age)
	fmt.Fprintf(&sb, "- Style: %s\n", style)
	fmt.Fprintf(&sb, "- Moral to end with: %s\n\n", moral)
	sb.WriteString("Constraints:\n")
	sb.WriteString("1) Avoid violence or scary imagery.\n")
	sb.WriteString("2) Keep vocabulary age-appropriate.\n")
	sb.WriteString("3) Close with a single-sentence moral.\n")
	fmt.Fprintf(&sb, "4) Produce %d-%d words in full paragraphs.\n", domain.MinWords, domain.MaxWords)

	return []llm.Message{
		llm.SystemMessage(storytellerSystem),
		llm.UserMessage(sb.String()),
	}
}

func Judge(story string) []llm.Message {
	var sb strings.Builder
	sb.WriteString("Evaluate the following story for ages 5-10 using the rubric.\n\n")
	sb.WriteString("STORY:\n")
	sb.WriteString(story)
	sb.WriteString("\n\nReturn valid JSON only.")

	return []llm.Message{
		llm.SystemMessage(judgeSystem),
		llm.UserMessage(sb.String()),
	}
}

// StrictJudge - то же, что Judge, но с усиленным требованием JSON
func StrictJudge(story string) []llm.Message {
	msgs := Judge(story)
	last := len(msgs) - 1
	msgs[last].Content += StrictJSONSuffix
	return msgs
}

func Revise(story string, feedback []string, targetOverall float64) []llm.Message {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Revise the story below. Address ONLY these issues to improve the score to at least %.1f/5:\n", targetOverall)
	for i, item := range feedback {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, item)
	}
	sb.WriteString("\nSTORY TO REVISE:\n")
	sb.WriteString(story)
	sb.WriteString("\n")

	return []llm.Message{
		llm.SystemMessage(editorSystem),
		llm.UserMessage(sb.String()),
	}
}
