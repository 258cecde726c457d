package llm

import (
	"context"
	"errors"
)

var (
	ErrAuthFailed    = errors.New("authentication failed")
	ErrRequestFailed = errors.New("request failed")
	ErrEmptyResponse = errors.New("empty response")
	ErrRateLimit     = errors.New("rate limit exceeded")
)

// ошибки учетных данных, проверяются до первого сетевого вызова
var (
	ErrMissingAPIKey  = errors.New("api key is not set")
	ErrWrongKeyFormat = errors.New("api key belongs to another provider")
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Request - один синхронный вызов модели.
// Пустой Model значит "модель клиента по умолчанию".
type Request struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int

	// Purpose не уходит провайдеру, только в логи и метрики (draft/judge/revise)
	Purpose string
}

type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}
