package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/kitbuilder587/bedtime-stories/internal/llm"
)

const DefaultModel = "gpt-3.5-turbo"

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client ходит в chat completions через официальный SDK.
// Ретраи SDK выключены: один вызов Generate = один запрос.
type Client struct {
	api    openai.Client
	model  string
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if err := CheckAPIKey(cfg.APIKey); err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		api:    openai.NewClient(opts...),
		model:  cfg.Model,
		logger: logger,
	}, nil
}

// CheckAPIKey - дешевая эвристика, не авторизация: ключи Google/Gemini начинаются с "AI"
func CheckAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("OPENAI_API_KEY: %w", llm.ErrMissingAPIKey)
	}
	if strings.HasPrefix(key, "AI") {
		return fmt.Errorf("OPENAI_API_KEY looks like a Google/Gemini key, use an OpenAI key (sk-...): %w", llm.ErrWrongKeyFormat)
	}
	return nil
}

func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case llm.RoleSystem:
			msgs = append(msgs, openai.SystemMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    msgs,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	c.logger.Debug("openai request",
		zap.String("model", model),
		zap.String("purpose", req.Purpose),
		zap.Float64("temperature", req.Temperature),
	)

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", mapError(err, c.logger)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", llm.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func mapError(err error, logger *zap.Logger) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return llm.ErrAuthFailed
		case http.StatusTooManyRequests:
			return llm.ErrRateLimit
		default:
			logger.Error("openai request failed",
				zap.Int("status", apiErr.StatusCode),
				zap.Error(err),
			)
			return fmt.Errorf("%w: status %d", llm.ErrRequestFailed, apiErr.StatusCode)
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", llm.ErrRequestFailed, err)
}
