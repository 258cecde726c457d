package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGigaChat   = "gigachat"
)

var (
	ErrInvalidProvider  = errors.New("invalid LLM provider")
	ErrInvalidMaxTokens = errors.New("LLM_MAX_TOKENS must be positive")
	ErrInvalidTimeout   = errors.New("LLM_TIMEOUT_SEC must be positive")
)

type Config struct {
	LLM     LLMConfig
	Log     LogConfig
	Metrics MetricsConfig
}

type LLMConfig struct {
	Provider   string
	OpenAI     OpenAIConfig
	OpenRouter OpenRouterConfig
	GigaChat   GigaChatConfig
	Timeout    time.Duration
	MaxTokens  int
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GigaChatConfig struct {
	AuthKey      string
	ClientID     string
	ClientSecret string
	Scope        string
	Model        string
	AuthURL      string
	BaseURL      string
	CAFile       string
	InsecureTLS  bool
}

type LogConfig struct {
	Level string
}

type MetricsConfig struct {
	File string // пусто - метрики не выгружаются
}

// Load читает окружение один раз. Ключи не проверяются здесь:
// это делает конструктор клиента провайдера до первого запроса.
func Load() (*Config, error) {
	cfg := &Config{
		LLM: LLMConfig{
			Provider: getEnvOrDefault("LLM_PROVIDER", ProviderOpenAI),
			OpenAI: OpenAIConfig{
				APIKey:  os.Getenv("OPENAI_API_KEY"),
				Model:   getEnvOrDefault("OPENAI_MODEL", "gpt-3.5-turbo"),
				BaseURL: os.Getenv("OPENAI_BASE_URL"),
			},
			OpenRouter: OpenRouterConfig{
				APIKey:  os.Getenv("OPENROUTER_API_KEY"),
				Model:   getEnvOrDefault("OPENROUTER_MODEL", "openai/gpt-3.5-turbo"),
				BaseURL: getEnvOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			},
			GigaChat: GigaChatConfig{
				AuthKey:      os.Getenv("GIGACHAT_AUTH_KEY"),
				ClientID:     os.Getenv("GIGACHAT_CLIENT_ID"),
				ClientSecret: os.Getenv("GIGACHAT_CLIENT_SECRET"),
				Scope:        getEnvOrDefault("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
				Model:        getEnvOrDefault("GIGACHAT_MODEL", "GigaChat"),
				AuthURL:      getEnvOrDefault("GIGACHAT_AUTH_URL", "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"),
				BaseURL:      getEnvOrDefault("GIGACHAT_BASE_URL", "https://gigachat.devices.sberbank.ru/api/v1"),
				CAFile:       os.Getenv("GIGACHAT_CA_FILE"),
				InsecureTLS:  getEnvBoolOrDefault("GIGACHAT_INSECURE_TLS", false),
			},
			Timeout:   time.Duration(getEnvIntOrDefault("LLM_TIMEOUT_SEC", 120)) * time.Second,
			MaxTokens: getEnvIntOrDefault("LLM_MAX_TOKENS", 1600),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "warn"),
		},
		Metrics: MetricsConfig{
			File: os.Getenv("METRICS_FILE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderOpenRouter, ProviderGigaChat:
	default:
		return ErrInvalidProvider
	}
	if c.LLM.MaxTokens <= 0 {
		return ErrInvalidMaxTokens
	}
	if c.LLM.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// Model - модель выбранного провайдера
func (c *LLMConfig) Model() string {
	switch c.Provider {
	case ProviderOpenRouter:
		return c.OpenRouter.Model
	case ProviderGigaChat:
		return c.GigaChat.Model
	default:
		return c.OpenAI.Model
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
