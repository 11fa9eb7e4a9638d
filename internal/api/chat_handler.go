package api

import (
	"errors"
	"net/http"

	"CivicPortal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ReplyFailedMessage 补全接口失败时返回给前端的提示
const ReplyFailedMessage = "応答の生成に失敗しました"

// ChatHandler 对话助手接口
type ChatHandler struct {
	chat   *service.ChatService
	logger *logrus.Logger
}

func NewChatHandler(chat *service.ChatService, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger}
}

// systemPrompt 字段只为兼容旧前端，服务端总是自己生成
type chatRequest struct {
	Message      string `json:"message"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
}

// Chat POST /api/chat {message} → {message} | {error}
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.SystemPrompt != "" {
		h.logger.Debug("忽略客户端传入的 systemPrompt")
	}

	reply, err := h.chat.Reply(c.Request.Context(), req.Message)
	if err != nil {
		var fetchErr *service.FetchError
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &fetchErr):
			c.JSON(http.StatusInternalServerError, gin.H{"error": service.FetchFailedMessage})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": ReplyFailedMessage})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": reply})
}

// PromptPreview GET /admin/api/chat/prompt 查看当前系统提示
func (h *ChatHandler) PromptPreview(c *gin.Context) {
	prompt, err := h.chat.SystemPrompt(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("PromptPreview failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": service.FetchFailedMessage})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prompt": prompt})
}
