package service

import (
	"context"
	"fmt"
	"strings"

	"terminal-chat/internal/repository"
)

const contextExchanges = 10

// ContextService define contrato para recuperar contexto conversacional.
type ContextService interface {
	GetContext(ctx context.Context) (string, error)
}

// BasicContextService obtiene los últimos turnos y los formatea como texto plano.
type BasicContextService struct {
	repo repository.ExchangeRepository
}

func NewBasicContextService(repo repository.ExchangeRepository) *BasicContextService {
	return &BasicContextService{repo: repo}
}

func (s *BasicContextService) GetContext(ctx context.Context) (string, error) {
	if s == nil || s.repo == nil {
		return "", nil
	}

	exchanges, err := s.repo.ListRecent(ctx, contextExchanges)
	if err != nil {
		return "", fmt.Errorf("list exchanges: %w", err)
	}
	if len(exchanges) == 0 {
		return "", nil
	}

	// ListRecent viene del más nuevo al más viejo; el prompt los quiere en orden.
	lines := make([]string, 0, len(exchanges)*2)
	for i := len(exchanges) - 1; i >= 0; i-- {
		e := exchanges[i]
		lines = append(lines,
			fmt.Sprintf("User: %s", e.UserMessage),
			fmt.Sprintf("Bot: %s", e.BotResponse),
		)
	}

	return strings.Join(lines, "\n"), nil
}
