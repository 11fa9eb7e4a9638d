package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"CivicPortal/internal/adapter"
	"CivicPortal/internal/config"
	"CivicPortal/internal/interfaces"
	"CivicPortal/internal/monitoring"
	"CivicPortal/internal/utils/httpclient"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

const ProviderName = "openai"

// ErrEmptyChoice 接口返回成功但没有候选回复
var ErrEmptyChoice = errors.New("completion returned no choices")

func init() {
	adapter.Register(ProviderName, func(cfg *config.ChatConfig, logger *logrus.Logger) interfaces.CompletionClient {
		return NewClient(cfg, logger)
	})
}

// Client OpenAI 兼容的 chat.completions 客户端
type Client struct {
	cfg    *config.ChatConfig
	api    *goopenai.Client
	logger *logrus.Logger
}

func NewClient(cfg *config.ChatConfig, logger *logrus.Logger) *Client {
	apiCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	// 代理与超时沿用统一的出站客户端
	apiCfg.HTTPClient = httpclient.NewHTTPClient(httpclient.Options{
		Timeout: time.Duration(cfg.Timeout) * time.Second,
		Proxy:   cfg.Proxy,
	}, logger)

	return &Client{
		cfg:    cfg,
		api:    goopenai.NewClientWithConfig(apiCfg),
		logger: logger,
	}
}

func (c *Client) Name() string { return ProviderName }

// Complete 发送 system + user 两条消息，返回第一条候选
func (c *Client) Complete(ctx context.Context, systemPrompt, message string) (reply string, err error) {
	started := time.Now()
	defer func() { monitoring.ObserveCompletion(ProviderName, started, err == nil) }()

	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: message},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: float32(c.cfg.Temperature),
	})
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			c.logger.WithFields(logrus.Fields{
				"status": apiErr.HTTPStatusCode,
				"type":   apiErr.Type,
			}).Warn("补全接口返回错误")
			return "", fmt.Errorf("补全接口返回错误(status=%d): %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		var reqErr *goopenai.RequestError
		if errors.As(err, &reqErr) {
			return "", fmt.Errorf("补全接口返回错误(status=%d): %w", reqErr.HTTPStatusCode, err)
		}
		return "", fmt.Errorf("请求补全接口失败: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyChoice
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
