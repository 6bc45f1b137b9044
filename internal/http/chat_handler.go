package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"terminal-chat/internal/domain"
	"terminal-chat/internal/service"
)

type chatService interface {
	ProcessMessage(ctx context.Context, text string) (domain.Exchange, error)
	History(ctx context.Context, limit int) ([]domain.Exchange, error)
}

// ChatHandler expone el Responder y el historial por HTTP.
type ChatHandler struct {
	logger *zap.Logger
	chat   chatService
}

func NewChatHandler(logger *zap.Logger, chat chatService) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{logger: logger, chat: chat}
}

// PostMessage maneja POST /message.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid post message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	exchange, err := h.chat.ProcessMessage(c.Request.Context(), req.Message)
	if err != nil {
		if errors.Is(err, service.ErrChatInvalidInput) || errors.Is(err, service.ErrEmptyInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is empty"})
			return
		}
		h.logger.Error("process message failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process message"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"exchange": exchange})
}

// GetHistory maneja GET /history?limit=N.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	history, err := h.chat.History(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}
