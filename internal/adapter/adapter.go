package adapter

import (
	"fmt"
	"sort"

	"CivicPortal/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// 补全提供方工厂注册表，由各适配器包的 init 注册
var factoryRegistry = make(map[string]interfaces.CompletionFactory)

// Register 供适配器 init 函数调用
func Register(provider string, factory interfaces.CompletionFactory) {
	if factory == nil {
		panic(fmt.Sprintf("补全提供方%s的工厂函数不能为nil", provider))
	}
	if _, exists := factoryRegistry[provider]; exists {
		logrus.Warnf("补全提供方%s已注册，将覆盖原有实现", provider)
	}
	factoryRegistry[provider] = factory
}

// GetFactory 获取指定提供方的工厂函数
func GetFactory(provider string) (interfaces.CompletionFactory, bool) {
	factory, ok := factoryRegistry[provider]
	return factory, ok
}

// ListProviders 已注册的提供方（排序后）
func ListProviders() []string {
	providers := make([]string, 0, len(factoryRegistry))
	for p := range factoryRegistry {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	return providers
}
