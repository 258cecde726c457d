package llm

import (
	"context"
	"errors"
	"time"

	"github.com/kitbuilder587/bedtime-stories/internal/metrics"
)

type instrumentedClient struct {
	next     Client
	provider string
	metrics  *metrics.Metrics
}

// WithMetrics оборачивает клиента счетчиками и гистограммой латентности.
// При nil metrics возвращает клиента как есть.
func WithMetrics(next Client, provider string, m *metrics.Metrics) Client {
	if m == nil {
		return next
	}
	return &instrumentedClient{next: next, provider: provider, metrics: m}
}

func (c *instrumentedClient) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	out, err := c.next.Generate(ctx, req)
	c.metrics.RecordLLMRequest(c.provider, req.Purpose, statusOf(err), time.Since(start))
	return out, err
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrAuthFailed):
		return "auth_failed"
	case errors.Is(err, ErrRateLimit):
		return "rate_limited"
	case errors.Is(err, ErrEmptyResponse):
		return "empty"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
