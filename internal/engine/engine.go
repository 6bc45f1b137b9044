// Package engine implementa el motor conversacional: estrategias de respuesta
// configurables sobre un almacenamiento de frases aprendidas.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"terminal-chat/internal/domain"
	"terminal-chat/internal/llm"
	"terminal-chat/internal/repository"
)

var ErrEmptyStatement = errors.New("empty statement")

// ChatBot elige la mejor respuesta entre sus adaptadores y aprende de cada turno.
type ChatBot struct {
	caps     Capabilities
	store    repository.StatementRepository
	adapters []LogicAdapter
	logger   *zap.Logger

	mu           sync.Mutex
	lastResponse map[string]string
}

type settings struct {
	llmClient llm.LLMClient
	now       func() time.Time
	context   ContextFunc
	logger    *zap.Logger
	rng       *rand.Rand
}

type Option func(*settings)

func WithLLM(client llm.LLMClient) Option {
	return func(s *settings) { s.llmClient = client }
}

func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

func WithContext(fn ContextFunc) Option {
	return func(s *settings) { s.context = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

func WithRand(rng *rand.Rand) Option {
	return func(s *settings) { s.rng = rng }
}

// New construye el motor a partir del descriptor de capacidades.
func New(caps Capabilities, store repository.StatementRepository, opts ...Option) (*ChatBot, error) {
	if store == nil {
		return nil, errors.New("statement store is required")
	}
	if len(caps.Adapters) == 0 {
		return nil, ErrNoAdapters
	}

	cfg := settings{
		now:    time.Now,
		logger: zap.NewNop(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if strings.TrimSpace(caps.DefaultResponse) == "" {
		caps.DefaultResponse = DefaultResponse
	}

	adapters := make([]LogicAdapter, 0, len(caps.Adapters))
	for _, spec := range caps.Adapters {
		var (
			adapter LogicAdapter
			err     error
		)
		switch spec.Name {
		case AdapterBestMatch:
			adapter, err = newBestMatchAdapter(spec, store, cfg.rng)
		case AdapterMath:
			adapter = mathAdapter{}
		case AdapterTime:
			adapter, err = newTimeAdapter(spec, cfg.now)
		case AdapterLLM:
			adapter, err = newLLMAdapter(spec, cfg.llmClient, caps.Name, cfg.context)
		default:
			err = fmt.Errorf("%w: %q", ErrUnknownAdapter, spec.Name)
		}
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, adapter)
	}

	return &ChatBot{
		caps:         caps,
		store:        store,
		adapters:     adapters,
		logger:       cfg.logger,
		lastResponse: make(map[string]string),
	}, nil
}

// Name devuelve el nombre configurado del bot.
func (b *ChatBot) Name() string { return b.caps.Name }

// Capabilities devuelve el descriptor con el que se construyó el motor.
func (b *ChatBot) Capabilities() Capabilities { return b.caps }

// StatementCount informa cuántas frases conoce el motor.
func (b *ChatBot) StatementCount(ctx context.Context) (int, error) {
	return b.store.Count(ctx)
}

// GetResponse devuelve la respuesta de mayor confianza; los empates favorecen al primer adaptador.
func (b *ChatBot) GetResponse(ctx context.Context, input domain.Statement) (domain.Statement, error) {
	input.Text = strings.TrimSpace(input.Text)
	if input.Text == "" {
		return domain.Statement{}, ErrEmptyStatement
	}

	var (
		best    domain.Statement
		winner  string
		found   bool
		errs    []error
		decided bool
	)
	for _, adapter := range b.adapters {
		if !adapter.CanProcess(input) {
			continue
		}
		candidate, err := adapter.Process(ctx, input)
		if err != nil {
			b.logger.Warn("logic adapter failed", zap.String("adapter", adapter.Name()), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", adapter.Name(), err))
			continue
		}
		decided = true
		if candidate.Confidence > 0 && strings.TrimSpace(candidate.Text) != "" && (!found || candidate.Confidence > best.Confidence) {
			best, winner, found = candidate, adapter.Name(), true
		}
	}

	if !decided && len(errs) > 0 {
		return domain.Statement{}, errors.Join(errs...)
	}
	if !found {
		best = domain.Statement{
			Text:         b.caps.DefaultResponse,
			InResponseTo: input.Text,
			Conversation: input.Conversation,
		}
	}
	b.logger.Debug("response selected",
		zap.String("adapter", winner),
		zap.Float64("confidence", best.Confidence),
	)

	if !b.caps.ReadOnly {
		if err := b.learn(ctx, input, best, winner); err != nil {
			b.logger.Warn("learn response failed", zap.Error(err))
		}
	}
	return best, nil
}

// learn guarda la entrada como respuesta a la última salida del bot en la conversación,
// y la salida como respuesta a la entrada cuando proviene de frases conocidas.
func (b *ChatBot) learn(ctx context.Context, input, response domain.Statement, adapter string) error {
	b.mu.Lock()
	previous := b.lastResponse[input.Conversation]
	b.lastResponse[input.Conversation] = response.Text
	b.mu.Unlock()

	learned := []domain.Statement{{
		Text:         input.Text,
		InResponseTo: previous,
		Conversation: input.Conversation,
	}}
	if adapter == AdapterBestMatch || adapter == AdapterLLM {
		learned = append(learned, domain.Statement{
			Text:         response.Text,
			InResponseTo: input.Text,
			Conversation: input.Conversation,
		})
	}
	return b.store.Create(ctx, learned...)
}
