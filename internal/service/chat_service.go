package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"terminal-chat/internal/domain"
	"terminal-chat/internal/repository"
)

var (
	ErrChatServiceNotConfigured = errors.New("chat service not configured")
	ErrChatInvalidInput         = errors.New("chat invalid input")
)

// ChatService combina el Responder con el historial persistido.
type ChatService struct {
	responder Responder
	repo      repository.ExchangeRepository
	now       func() time.Time
}

func NewChatService(responder Responder, repo repository.ExchangeRepository) *ChatService {
	return &ChatService{
		responder: responder,
		repo:      repo,
		now:       time.Now,
	}
}

// ProcessMessage responde un mensaje y guarda el turno completo.
func (s *ChatService) ProcessMessage(ctx context.Context, text string) (domain.Exchange, error) {
	if s == nil || s.responder == nil || s.repo == nil {
		return domain.Exchange{}, ErrChatServiceNotConfigured
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Exchange{}, ErrChatInvalidInput
	}

	reply, err := s.responder.Respond(ctx, text)
	if err != nil {
		return domain.Exchange{}, fmt.Errorf("respond: %w", err)
	}

	exchange := s.withDefaults(domain.Exchange{
		UserMessage: text,
		BotResponse: reply,
	})
	if err := s.Record(ctx, exchange); err != nil {
		return domain.Exchange{}, err
	}
	return exchange, nil
}

// Record persiste un turno ya respondido; completa ID y Timestamp si faltan.
func (s *ChatService) Record(ctx context.Context, exchange domain.Exchange) error {
	if s == nil || s.repo == nil {
		return ErrChatServiceNotConfigured
	}
	exchange.UserMessage = strings.TrimSpace(exchange.UserMessage)
	if exchange.UserMessage == "" {
		return ErrChatInvalidInput
	}
	exchange = s.withDefaults(exchange)
	if err := s.repo.Create(ctx, exchange); err != nil {
		return fmt.Errorf("save exchange: %w", err)
	}
	return nil
}

// History devuelve los últimos turnos, el más reciente primero.
func (s *ChatService) History(ctx context.Context, limit int) ([]domain.Exchange, error) {
	if s == nil || s.repo == nil {
		return nil, ErrChatServiceNotConfigured
	}
	if limit <= 0 {
		limit = repository.DefaultHistoryLimit
	}
	out, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	if out == nil {
		out = []domain.Exchange{}
	}
	return out, nil
}

func (s *ChatService) withDefaults(exchange domain.Exchange) domain.Exchange {
	if exchange.ID == "" {
		exchange.ID = uuid.NewString()
	}
	if exchange.Timestamp.IsZero() {
		exchange.Timestamp = s.now().UTC()
	}
	return exchange
}
