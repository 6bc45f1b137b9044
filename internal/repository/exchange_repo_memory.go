package repository

import (
	"context"
	"sort"
	"sync"

	"terminal-chat/internal/domain"
)

// MemoryExchangeRepository guarda el transcript solo durante la vida del proceso.
type MemoryExchangeRepository struct {
	mu        sync.RWMutex
	exchanges []domain.Exchange
}

func NewMemoryExchangeRepository() *MemoryExchangeRepository {
	return &MemoryExchangeRepository{
		exchanges: make([]domain.Exchange, 0, 16),
	}
}

func (r *MemoryExchangeRepository) Create(_ context.Context, exchange domain.Exchange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exchanges = append(r.exchanges, exchange)
	return nil
}

func (r *MemoryExchangeRepository) ListRecent(_ context.Context, limit int) ([]domain.Exchange, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	r.mu.RLock()
	out := make([]domain.Exchange, 0, len(r.exchanges))
	for i := len(r.exchanges) - 1; i >= 0; i-- {
		out = append(out, r.exchanges[i])
	}
	r.mu.RUnlock()

	// Inserción inversa primero; el sort estable deja los empates en ese orden.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
