package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kitbuilder587/bedtime-stories/internal/config"
	"github.com/kitbuilder587/bedtime-stories/internal/domain"
	"github.com/kitbuilder587/bedtime-stories/internal/llm"
)

// ErrorMessage - человекочитаемое описание ошибки запуска
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		return "API key is not set. Export OPENAI_API_KEY (or the key of the selected LLM_PROVIDER)."
	case errors.Is(err, llm.ErrWrongKeyFormat):
		return "API key format looks wrong (starts with \"AI\", probably not an OpenAI key)."
	case errors.Is(err, config.ErrInvalidProvider):
		return "Unknown LLM_PROVIDER. Use openai, openrouter or gigachat."
	case errors.Is(err, config.ErrInvalidMaxTokens), errors.Is(err, config.ErrInvalidTimeout):
		return "Invalid LLM settings: " + err.Error() + "."
	case errors.Is(err, domain.ErrEmptyTopic):
		return "Topic is empty. Pass --topic."
	case errors.Is(err, domain.ErrTopicTooLong):
		return fmt.Sprintf("Topic is too long. Maximum %d characters.", domain.MaxTopicLength)
	case errors.Is(err, domain.ErrInvalidAge):
		return "Age must be between 1 and 18."
	case errors.Is(err, domain.ErrInvalidMaxLoops):
		return fmt.Sprintf("--max-loops must be between 0 and %d.", domain.MaxLoopsLimit)
	case errors.Is(err, domain.ErrInvalidThreshold):
		return "--threshold must be between 1 and 5."
	case errors.Is(err, domain.ErrJudgeContract):
		return "Judge did not return valid JSON after one retry."
	case errors.Is(err, context.DeadlineExceeded):
		return "Model call timed out."
	case errors.Is(err, context.Canceled):
		return "Interrupted."
	case errors.Is(err, llm.ErrAuthFailed):
		return "Model provider rejected the API key."
	case errors.Is(err, llm.ErrRateLimit):
		return "Model provider rate limit reached. Try again later."
	case errors.Is(err, llm.ErrEmptyResponse):
		return "Model returned an empty response."
	case errors.Is(err, domain.ErrProvider):
		return "Model call failed: " + err.Error()
	default:
		return err.Error()
	}
}

func PrintError(w io.Writer, err error) {
	style := lipgloss.NewRenderer(w).NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	rule := strings.Repeat("x ", 20)
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, style.Render("ERROR: "+ErrorMessage(err)))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}
