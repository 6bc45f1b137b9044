package llm

import (
	"fmt"

	"go.uber.org/zap"
)

// Settings agrupa lo necesario para construir cualquier proveedor.
type Settings struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
}

// NewClient construye el cliente del proveedor indicado.
func NewClient(s Settings, logger *zap.Logger) (LLMClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch s.Provider {
	case "openai", "":
		return NewOpenAIClient(s.APIKey, s.BaseURL, s.Model, logger), nil
	case "anthropic":
		return NewAnthropicClient(s.APIKey, s.BaseURL, s.Model, logger), nil
	case "ollama":
		return NewOllamaClient(s.BaseURL, s.Model, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", s.Provider)
	}
}
