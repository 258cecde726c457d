package gigachat

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kitbuilder587/bedtime-stories/internal/llm"
)

const (
	DefaultAuthURL = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"
	DefaultBaseURL = "https://gigachat.devices.sberbank.ru/api/v1"
	DefaultScope   = "GIGACHAT_API_PERS"
	DefaultModel   = "GigaChat"

	// токен считаем протухшим чуть раньше срока
	tokenLeeway = 5 * time.Minute
)

type Config struct {
	AuthKey      string // готовый ключ авторизации (предпочтительно)
	ClientID     string // альтернатива: будет base64(id:secret)
	ClientSecret string
	Scope        string
	Model        string
	AuthURL      string
	BaseURL      string
	Timeout      time.Duration

	// CAFile - PEM с корневым сертификатом Минцифры, которым подписаны хосты Сбера
	CAFile string
	// InsecureSkipVerify отключает проверку сертификата целиком, только для отладки
	InsecureSkipVerify bool
}

type accessToken struct {
	value   string
	expires time.Time
}

func (t accessToken) usable(now time.Time) bool {
	return t.value != "" && now.Before(t.expires.Add(-tokenLeeway))
}

// Client ходит в GigaChat: OAuth-токен по ключу, затем chat/completions.
// Один Generate - не больше одного запроса к chat/completions.
type Client struct {
	authKey string
	scope   string
	model   string
	authURL string
	baseURL string
	client  *http.Client
	logger  *zap.Logger

	mu    sync.Mutex
	token accessToken
}

func New(cfg Config, logger *zap.Logger) (*Client, error) {
	authKey := cfg.AuthKey
	if authKey == "" && cfg.ClientID != "" && cfg.ClientSecret != "" {
		authKey = base64.StdEncoding.EncodeToString([]byte(cfg.ClientID + ":" + cfg.ClientSecret))
	}
	if authKey == "" {
		return nil, fmt.Errorf("gigachat: %w", llm.ErrMissingAPIKey)
	}

	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Scope == "" {
		cfg.Scope = DefaultScope
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	transport, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("gigachat TLS certificate verification disabled")
	}

	return &Client{
		authKey: authKey,
		scope:   cfg.Scope,
		model:   cfg.Model,
		authURL: cfg.AuthURL,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout, Transport: transport},
		logger:  logger,
	}, nil
}

func newTransport(cfg Config) (*http.Transport, error) {
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // включается только явно
	}

	if cfg.CAFile != "" {
		pem, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("gigachat: read CA file: %w", err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("gigachat: no certificates in %s", cfg.CAFile)
		}
		tlsConfig.RootCAs = pool
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig
	return transport, nil
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"` // unix millis
}

func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return "", err
	}

	chatReq := llm.NewChatRequest(c.model, req)
	body, err := json.Marshal(chatReq)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	c.logger.Debug("gigachat request",
		zap.String("model", chatReq.Model),
		zap.String("purpose", req.Purpose),
		zap.Float64("temperature", chatReq.Temperature),
	)

	respBody, statusCode, err := llm.DoRequest(c.client, httpReq)
	if err != nil {
		return "", err
	}

	switch {
	case statusCode == http.StatusUnauthorized:
		// токен отозван раньше срока: запрос не повторяем, следующий Generate возьмет новый
		c.invalidateToken()
		return "", llm.ErrAuthFailed
	case statusCode != http.StatusOK:
		return "", llm.HandleHTTPError(statusCode, respBody, c.logger, "gigachat")
	}

	chatResp, err := llm.ParseChatResponse(respBody)
	if err != nil {
		return "", err
	}
	return llm.ExtractContent(chatResp)
}

func (c *Client) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token.usable(time.Now()) {
		return c.token.value, nil
	}

	token, err := c.fetchToken(ctx)
	if err != nil {
		return "", err
	}
	c.token = token

	c.logger.Debug("gigachat token refreshed",
		zap.Time("expires", token.expires),
	)
	return token.value, nil
}

func (c *Client) fetchToken(ctx context.Context) (accessToken, error) {
	form := url.Values{}
	form.Set("scope", c.scope)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return accessToken{}, fmt.Errorf("create auth request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Basic "+c.authKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("RqUID", uuid.NewString()) // Сбер требует уникальный id запроса

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return accessToken{}, fmt.Errorf("%w: %w", llm.ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("gigachat auth failed",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return accessToken{}, fmt.Errorf("%w: oauth status %d", llm.ErrAuthFailed, resp.StatusCode)
	}

	var authResp authResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		return accessToken{}, fmt.Errorf("%w: decode oauth response: %w", llm.ErrAuthFailed, err)
	}
	if authResp.AccessToken == "" {
		return accessToken{}, fmt.Errorf("%w: empty access token", llm.ErrAuthFailed)
	}

	return accessToken{
		value:   authResp.AccessToken,
		expires: time.UnixMilli(authResp.ExpiresAt),
	}, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = accessToken{}
}
