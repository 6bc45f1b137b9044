package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"terminal-chat/internal/domain"
)

func TestBasicContextService_OrdersOldestFirst(t *testing.T) {
	repo := &mockExchangeRepo{listData: []domain.Exchange{
		{UserMessage: "second", BotResponse: "two"},
		{UserMessage: "first", BotResponse: "one"},
	}}
	svc := NewBasicContextService(repo)

	got, err := svc.GetContext(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := "User: first\nBot: one\nUser: second\nBot: two"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if repo.lastLimit != 10 {
		t.Fatalf("expected limit 10, got %d", repo.lastLimit)
	}
}

func TestBasicContextService_Empty(t *testing.T) {
	svc := NewBasicContextService(&mockExchangeRepo{})
	got, err := svc.GetContext(context.Background())
	if err != nil || got != "" {
		t.Fatalf("expected empty context, got %q err=%v", got, err)
	}

	var nilSvc *BasicContextService
	if got, err := nilSvc.GetContext(context.Background()); err != nil || got != "" {
		t.Fatalf("expected empty context from nil service, got %q err=%v", got, err)
	}
}

func TestBasicContextService_Error(t *testing.T) {
	svc := NewBasicContextService(&mockExchangeRepo{listErr: errors.New("boom")})
	if _, err := svc.GetContext(context.Background()); err == nil || !strings.Contains(err.Error(), "list exchanges") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestBasicContextService_UsesRealHistory(t *testing.T) {
	repo := &mockExchangeRepo{}
	for i := 12; i >= 1; i-- {
		repo.listData = append(repo.listData, domain.Exchange{
			UserMessage: fmt.Sprintf("u%d", i),
			BotResponse: fmt.Sprintf("b%d", i),
		})
	}
	repo.listData = repo.listData[:10]

	got, err := NewBasicContextService(repo).GetContext(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	lines := strings.Split(got, "\n")
	if len(lines) != 20 || lines[0] != "User: u3" || lines[19] != "Bot: b12" {
		t.Fatalf("unexpected context lines %v", lines)
	}
}
