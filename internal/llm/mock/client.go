package mock

import (
	"context"
	"strings"
	"time"

	"github.com/kitbuilder587/bedtime-stories/internal/llm"
)

// Client - скриптованный клиент для тестов.
// Responses/Errors отдаются по порядку вызовов, после конца очереди - Response/Error.
type Client struct {
	Response string
	Error    error
	Delay    time.Duration

	Responses []string
	Errors    []error

	CallCount int
	LastReq   llm.Request
	AllCalls  []llm.Request
}

func New() *Client {
	return &Client{
		Response: "Once upon a time there was a mock story.",
	}
}

func (c *Client) WithResponse(response string) *Client {
	c.Response = response
	return c
}

func (c *Client) WithResponses(responses ...string) *Client {
	c.Responses = append(c.Responses, responses...)
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	idx := c.CallCount
	c.CallCount++
	c.LastReq = req
	c.AllCalls = append(c.AllCalls, req)

	if c.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.Delay):
		}
	}

	if idx < len(c.Errors) && c.Errors[idx] != nil {
		return "", c.Errors[idx]
	}
	if idx < len(c.Responses) {
		return c.Responses[idx], nil
	}
	if c.Error != nil {
		return "", c.Error
	}
	return c.Response, nil
}

// CallsFor - вызовы с заданным назначением (draft/judge/revise)
func (c *Client) CallsFor(purpose string) []llm.Request {
	var out []llm.Request
	for _, call := range c.AllCalls {
		if call.Purpose == purpose {
			out = append(out, call)
		}
	}
	return out
}

// HasJudgeCall проверяет что хоть один вызов шел с системным промптом рецензента
func (c *Client) HasJudgeCall() bool {
	for _, call := range c.AllCalls {
		for _, m := range call.Messages {
			if m.Role == llm.RoleSystem && strings.Contains(m.Content, "reviewer") {
				return true
			}
		}
	}
	return false
}

var _ llm.Client = (*Client)(nil)
