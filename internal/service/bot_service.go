package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"terminal-chat/internal/corpus"
	"terminal-chat/internal/domain"
	"terminal-chat/internal/engine"
)

var (
	ErrBotNotTrained           = errors.New("bot not trained")
	ErrBotServiceNotConfigured = errors.New("bot service not configured")
	ErrEmptyInput              = errors.New("empty input")
)

// Responder es el contrato que consumen la terminal y la API.
type Responder interface {
	Train(ctx context.Context) error
	Respond(ctx context.Context, input string) (string, error)
}

// Trainer carga el conocimiento inicial del motor.
type Trainer interface {
	Train(ctx context.Context) error
}

// TrainerFunc adapta una función a Trainer.
type TrainerFunc func(ctx context.Context) error

func (f TrainerFunc) Train(ctx context.Context) error { return f(ctx) }

// NewDefaultTrainer entrena con las categorías empaquetadas y luego con el guion propio.
func NewDefaultTrainer(bot *engine.ChatBot) Trainer {
	corpusTrainer := engine.NewCorpusTrainer(bot)
	listTrainer := engine.NewListTrainer(bot)
	return TrainerFunc(func(ctx context.Context) error {
		if err := corpusTrainer.Train(ctx, corpus.DefaultCategories...); err != nil {
			return fmt.Errorf("corpus: %w", err)
		}
		if err := listTrainer.Train(ctx, corpus.CustomConversation); err != nil {
			return fmt.Errorf("custom conversation: %w", err)
		}
		return nil
	})
}

// BotService envuelve el motor: entrenamiento único y respuestas por turno.
type BotService struct {
	bot          *engine.ChatBot
	trainer      Trainer
	logger       *zap.Logger
	conversation string
	lazy         bool

	mu      sync.Mutex
	trained bool
}

type BotOption func(*BotService)

// WithLazyTraining entrena en el primer Respond si nadie llamó Train antes.
func WithLazyTraining() BotOption {
	return func(s *BotService) { s.lazy = true }
}

// WithConversation fija el identificador de conversación usado al aprender.
func WithConversation(id string) BotOption {
	return func(s *BotService) {
		if id = strings.TrimSpace(id); id != "" {
			s.conversation = id
		}
	}
}

func NewBotService(bot *engine.ChatBot, trainer Trainer, logger *zap.Logger, opts ...BotOption) *BotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if trainer == nil && bot != nil {
		trainer = NewDefaultTrainer(bot)
	}
	s := &BotService{
		bot:          bot,
		trainer:      trainer,
		logger:       logger,
		conversation: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Train es idempotente: solo el primer entrenamiento exitoso tiene efecto.
func (s *BotService) Train(ctx context.Context) error {
	if s == nil || s.bot == nil || s.trainer == nil {
		return ErrBotServiceNotConfigured
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trainLocked(ctx)
}

func (s *BotService) trainLocked(ctx context.Context) error {
	if s.trained {
		return nil
	}
	if err := s.trainer.Train(ctx); err != nil {
		s.logger.Error("bot training failed", zap.Error(err))
		return fmt.Errorf("train bot: %w", err)
	}
	s.trained = true
	if n, err := s.bot.StatementCount(ctx); err == nil {
		s.logger.Info("bot trained", zap.String("bot", s.bot.Name()), zap.Int("statements", n))
	}
	return nil
}

func (s *BotService) Trained() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trained
}

func (s *BotService) Respond(ctx context.Context, input string) (string, error) {
	if s == nil || s.bot == nil {
		return "", ErrBotServiceNotConfigured
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrEmptyInput
	}

	s.mu.Lock()
	if !s.trained {
		if !s.lazy {
			s.mu.Unlock()
			return "", ErrBotNotTrained
		}
		if err := s.trainLocked(ctx); err != nil {
			s.mu.Unlock()
			return "", err
		}
	}
	s.mu.Unlock()

	resp, err := s.bot.GetResponse(ctx, domain.Statement{
		Text:         input,
		Conversation: s.conversation,
	})
	if err != nil {
		return "", fmt.Errorf("get response: %w", err)
	}
	return resp.Text, nil
}
