package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kitbuilder587/bedtime-stories/internal/config"
	"github.com/kitbuilder587/bedtime-stories/internal/domain"
	"github.com/kitbuilder587/bedtime-stories/internal/llm"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"missing key", fmt.Errorf("openai: %w", llm.ErrMissingAPIKey), "API key is not set"},
		{"wrong key format", llm.ErrWrongKeyFormat, "API key format looks wrong"},
		{"invalid provider", config.ErrInvalidProvider, "Unknown LLM_PROVIDER"},
		{"empty topic", domain.ErrEmptyTopic, "Topic is empty"},
		{"max loops", domain.ErrInvalidMaxLoops, "--max-loops must be between 0 and 10"},
		{"judge contract", fmt.Errorf("judge round 2: after retry: %w", &domain.ContractError{Reason: "invalid json"}), "Judge did not return valid JSON after one retry."},
		{"timeout", fmt.Errorf("%w: draft: %w", domain.ErrProvider, context.DeadlineExceeded), "timed out"},
		{"auth", fmt.Errorf("%w: judge: %w", domain.ErrProvider, llm.ErrAuthFailed), "rejected the API key"},
		{"rate limit", fmt.Errorf("%w: revise: %w", domain.ErrProvider, llm.ErrRateLimit), "rate limit"},
		{"generic provider", fmt.Errorf("%w: draft: %w", domain.ErrProvider, llm.ErrRequestFailed), "Model call failed"},
		{"unknown", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ErrorMessage(tt.err)
			if !strings.Contains(got, tt.want) {
				t.Errorf("ErrorMessage() = %q, want to contain %q", got, tt.want)
			}
		})
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, domain.ErrEmptyTopic)

	if !strings.Contains(buf.String(), "ERROR: Topic is empty. Pass --topic.") {
		t.Errorf("PrintError() output = %q", buf.String())
	}
}
