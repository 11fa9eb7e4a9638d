package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"CivicPortal/internal/adapter"
	"CivicPortal/internal/config"
	"CivicPortal/internal/interfaces"
	"CivicPortal/internal/monitoring"
	"CivicPortal/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

const ProviderName = "relay"

func init() {
	adapter.Register(ProviderName, func(cfg *config.ChatConfig, logger *logrus.Logger) interfaces.CompletionClient {
		return NewClient(cfg, logger)
	})
}

// Client 转发到已有的 /api/chat 兼容服务：{message, systemPrompt} → {message} / {error}
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(cfg *config.ChatConfig, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpclient.NewHTTPClient(httpclient.Options{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
			Proxy:   cfg.Proxy,
		}, logger),
		logger: logger,
	}
}

func (c *Client) Name() string { return ProviderName }

type relayRequest struct {
	Message      string `json:"message"`
	SystemPrompt string `json:"systemPrompt"`
}

type relayResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) Complete(ctx context.Context, systemPrompt, message string) (reply string, err error) {
	started := time.Now()
	defer func() { monitoring.ObserveCompletion(ProviderName, started, err == nil) }()

	body, err := json.Marshal(relayRequest{Message: message, SystemPrompt: systemPrompt})
	if err != nil {
		return "", fmt.Errorf("序列化请求失败: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("构建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求中转服务失败: %w", err)
	}
	defer resp.Body.Close()

	var out relayResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("解析中转响应失败(status=%d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || out.Error != "" {
		c.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"error":  out.Error,
		}).Warn("中转服务返回错误")
		return "", fmt.Errorf("中转服务返回错误(status=%d): %s", resp.StatusCode, out.Error)
	}
	return out.Message, nil
}
