package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"terminal-chat/internal/domain"
)

func TestMemoryExchangeRepository_ListRecentNewestFirst(t *testing.T) {
	repo := NewMemoryExchangeRepository()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 12; i++ {
		ex := domain.Exchange{
			ID:          fmt.Sprintf("e%d", i),
			UserMessage: fmt.Sprintf("msg %d", i),
			BotResponse: "ok",
			Timestamp:   base.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Create(ctx, ex); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	out, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out) != 10 {
		t.Fatalf("expected 10 exchanges, got %d", len(out))
	}
	if out[0].ID != "e11" || out[9].ID != "e2" {
		t.Fatalf("unexpected order: first=%s last=%s", out[0].ID, out[9].ID)
	}
}

func TestMemoryExchangeRepository_TiesKeepInsertionOrder(t *testing.T) {
	repo := NewMemoryExchangeRepository()
	ctx := context.Background()
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	_ = repo.Create(ctx, domain.Exchange{ID: "a", Timestamp: ts})
	_ = repo.Create(ctx, domain.Exchange{ID: "b", Timestamp: ts})

	out, _ := repo.ListRecent(ctx, 0)
	if len(out) != 2 || out[0].ID != "b" || out[1].ID != "a" {
		t.Fatalf("expected [b a], got %+v", out)
	}
}

func TestMemoryExchangeRepository_Empty(t *testing.T) {
	out, err := NewMemoryExchangeRepository().ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty slice, got %+v", out)
	}
}
