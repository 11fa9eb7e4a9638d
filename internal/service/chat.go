package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"CivicPortal/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// ErrEmptyMessage 用户消息为空
var ErrEmptyMessage = errors.New("message is required")

// ChatService 对话助手：拉取活动 → 生成系统提示 → 调用补全接口
type ChatService struct {
	store  interfaces.EventStore
	client interfaces.CompletionClient
	tmpl   PromptTemplate
	loc    *time.Location
	now    func() time.Time
	logger *logrus.Logger
}

// NewChatService now 为 nil 时使用 time.Now
func NewChatService(store interfaces.EventStore, client interfaces.CompletionClient, tmpl PromptTemplate, loc *time.Location, now func() time.Time, logger *logrus.Logger) *ChatService {
	if now == nil {
		now = time.Now
	}
	return &ChatService{
		store:  store,
		client: client,
		tmpl:   tmpl,
		loc:    loc,
		now:    now,
		logger: logger,
	}
}

// SystemPrompt 拉取失败时返回错误，绝不退回空提示
func (s *ChatService) SystemPrompt(ctx context.Context) (string, error) {
	events, err := s.store.FetchEvents(ctx)
	if err != nil {
		return "", fmt.Errorf("生成系统提示失败: %w", err)
	}
	return BuildSystemPrompt(events, s.now(), s.tmpl, s.loc), nil
}

// Reply 返回助手回复
func (s *ChatService) Reply(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	systemPrompt, err := s.SystemPrompt(ctx)
	if err != nil {
		return "", err
	}
	reply, err := s.client.Complete(ctx, systemPrompt, message)
	if err != nil {
		s.logger.WithError(err).Error("调用补全接口失败")
		return "", fmt.Errorf("调用补全接口失败: %w", err)
	}
	return reply, nil
}
