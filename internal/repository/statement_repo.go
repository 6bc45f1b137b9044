package repository

import (
	"context"
	"sync"
	"time"

	"terminal-chat/internal/domain"
)

// StatementRepository es el almacenamiento de frases del motor conversacional.
type StatementRepository interface {
	Create(ctx context.Context, statements ...domain.Statement) error
	// Prompts devuelve los textos distintos que tienen al menos una respuesta conocida.
	Prompts(ctx context.Context) ([]string, error)
	// Responses devuelve las frases que responden a text, en orden de inserción.
	Responses(ctx context.Context, text string) ([]domain.Statement, error)
	Count(ctx context.Context) (int, error)
}

type MemoryStatementRepository struct {
	mu         sync.RWMutex
	nextID     int64
	statements []domain.Statement
	prompts    []string
	responses  map[string][]int
}

func NewMemoryStatementRepository() *MemoryStatementRepository {
	return &MemoryStatementRepository{
		responses: make(map[string][]int),
	}
}

func (r *MemoryStatementRepository) Create(_ context.Context, statements ...domain.Statement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, st := range statements {
		r.nextID++
		st.ID = r.nextID
		if st.CreatedAt.IsZero() {
			st.CreatedAt = time.Now().UTC()
		}
		r.statements = append(r.statements, st)
		if st.InResponseTo == "" {
			continue
		}
		if _, ok := r.responses[st.InResponseTo]; !ok {
			r.prompts = append(r.prompts, st.InResponseTo)
		}
		r.responses[st.InResponseTo] = append(r.responses[st.InResponseTo], len(r.statements)-1)
	}
	return nil
}

func (r *MemoryStatementRepository) Prompts(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.prompts))
	copy(out, r.prompts)
	return out, nil
}

func (r *MemoryStatementRepository) Responses(_ context.Context, text string) ([]domain.Statement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := r.responses[text]
	out := make([]domain.Statement, 0, len(idx))
	for _, i := range idx {
		out = append(out, r.statements[i])
	}
	return out, nil
}

func (r *MemoryStatementRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.statements), nil
}
