package adapter

import (
	"fmt"
	"strings"

	"CivicPortal/internal/config"
	"CivicPortal/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// NewCompletionClient 按 chat.provider 选择已注册的工厂创建补全客户端
func NewCompletionClient(cfg *config.ChatConfig, logger *logrus.Logger) (interfaces.CompletionClient, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	factory, ok := GetFactory(provider)
	if !ok {
		return nil, fmt.Errorf("未注册的补全提供方%q（已注册：%v）", cfg.Provider, ListProviders())
	}
	client := factory(cfg, logger)
	if client == nil {
		return nil, fmt.Errorf("补全提供方%s的工厂函数返回nil", provider)
	}
	logger.WithFields(logrus.Fields{
		"provider": client.Name(),
		"base_url": cfg.BaseURL,
		"model":    cfg.Model,
	}).Info("补全客户端初始化成功")
	return client, nil
}
