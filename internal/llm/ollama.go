package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

// OllamaClient implementa LLMClient contra un servidor Ollama local.
type OllamaClient struct {
	client *api.Client
	model  string
	logger *zap.Logger
}

// NewOllamaClient usa baseURL si se indica; si no, OLLAMA_HOST o el host por defecto.
func NewOllamaClient(baseURL, model string, logger *zap.Logger) (*OllamaClient, error) {
	var client *api.Client
	if strings.TrimSpace(baseURL) != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parse ollama url: %w", err)
		}
		client = api.NewClient(u, http.DefaultClient)
	} else {
		var err error
		client, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("ollama client: %w", err)
		}
	}
	return &OllamaClient{
		client: client,
		model:  firstNonEmpty(model, "llama3.2"),
		logger: logger,
	}, nil
}

func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
		Stream: &stream,
	}

	var sb strings.Builder
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		c.logger.Warn("ollama request failed", zap.String("model", c.model), zap.Error(err))
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
