package engine

import (
	"context"
	"fmt"
	"strings"

	"terminal-chat/internal/corpus"
	"terminal-chat/internal/domain"
	"terminal-chat/internal/repository"
)

const trainingConversation = "training"

// ListTrainer aprende una conversación: cada línea responde a la anterior.
type ListTrainer struct {
	store repository.StatementRepository
}

func NewListTrainer(bot *ChatBot) *ListTrainer {
	return &ListTrainer{store: bot.store}
}

func (t *ListTrainer) Train(ctx context.Context, conversation []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	statements := make([]domain.Statement, 0, len(conversation))
	previous := ""
	for _, line := range conversation {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		statements = append(statements, domain.Statement{
			Text:         line,
			InResponseTo: previous,
			Conversation: trainingConversation,
		})
		previous = line
	}
	if len(statements) == 0 {
		return nil
	}
	if err := t.store.Create(ctx, statements...); err != nil {
		return fmt.Errorf("store statements: %w", err)
	}
	return nil
}

// CorpusTrainer entrena con categorías del corpus empaquetado.
type CorpusTrainer struct {
	list *ListTrainer
	load func(name string) (corpus.Category, error)
}

func NewCorpusTrainer(bot *ChatBot) *CorpusTrainer {
	return &CorpusTrainer{
		list: NewListTrainer(bot),
		load: corpus.Load,
	}
}

func (t *CorpusTrainer) Train(ctx context.Context, categories ...string) error {
	for _, name := range categories {
		cat, err := t.load(name)
		if err != nil {
			return err
		}
		for _, conv := range cat.Conversations {
			if err := t.list.Train(ctx, conv); err != nil {
				return fmt.Errorf("train %s: %w", name, err)
			}
		}
	}
	return nil
}
