package interfaces

import (
	"context"

	"CivicPortal/internal/config"

	"github.com/sirupsen/logrus"
)

// CompletionClient 外部对话补全接口
type CompletionClient interface {
	Name() string                                                               // 提供方名称（指标标签）
	Complete(ctx context.Context, systemPrompt, message string) (string, error) // 返回助手回复
}

// CompletionFactory 补全客户端工厂函数签名
type CompletionFactory func(cfg *config.ChatConfig, logger *logrus.Logger) CompletionClient
