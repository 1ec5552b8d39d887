package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"storehub_mcp/internal/config"

	openrouter "github.com/revrost/go-openrouter"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"llm",
		fx.Provide(NewClient),
	)
}

var ErrNotConfigured = errors.New("llm is not configured: set LLM_API_KEY and LLM_MODEL")

// Client drives the optional chat surface. It is always constructed; without
// credentials Enabled reports false and every call returns ErrNotConfigured.
type Client struct {
	client  *openrouter.Client
	model   string
	logger  *zap.Logger
	enabled bool
}

func NewClient(cfg config.Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("llm")
	model := strings.TrimSpace(cfg.LLMModel)
	apiKey := strings.TrimSpace(cfg.LLMAPIKey)

	if model == "" || apiKey == "" {
		logger.Debug("llm config is incomplete; chat is disabled",
			zap.Bool("has_model", model != ""),
			zap.Bool("has_api_key", apiKey != ""),
		)
		return &Client{model: model, logger: logger}, nil
	}

	clientCfg := openrouter.DefaultConfig(apiKey)
	if baseURL := strings.TrimSpace(cfg.LLMBaseURL); baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		client:  openrouter.NewClientWithConfig(*clientCfg),
		model:   model,
		logger:  logger,
		enabled: true,
	}, nil
}

func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

func (c *Client) ChatWithMessages(ctx context.Context, messages []openrouter.ChatCompletionMessage, tools []openrouter.Tool) (openrouter.ChatCompletionResponse, error) {
	if !c.Enabled() || c.client == nil {
		return openrouter.ChatCompletionResponse{}, ErrNotConfigured
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openrouter.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		Tools:    tools,
	})
	c.logger.Debug("llm completion",
		zap.String("model", c.model),
		zap.Int("messages", len(messages)),
		zap.Int("tools", len(tools)),
		zap.Duration("latency", time.Since(start)),
		zap.Error(err),
	)
	return resp, err
}
