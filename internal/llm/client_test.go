package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newJSONServer(t *testing.T, status int, body string, gotPath *string, gotBody *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotPath != nil {
			*gotPath = r.URL.Path
		}
		if gotBody != nil {
			_ = json.NewDecoder(r.Body).Decode(gotBody)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIClientGenerate(t *testing.T) {
	var path string
	var body map[string]any
	srv := newJSONServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1,
		"model": "test-model",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Hello there"}}]
	}`, &path, &body)

	client := NewOpenAIClient("key", srv.URL, "test-model", zap.NewNop())
	out, err := client.Generate(context.Background(), "hi")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "Hello there" {
		t.Fatalf("expected reply, got %q", out)
	}
	if !strings.HasSuffix(path, "/chat/completions") {
		t.Fatalf("unexpected path %q", path)
	}
	if body["model"] != "test-model" {
		t.Fatalf("expected model in request, got %+v", body["model"])
	}
}

func TestOpenAIClientGenerate_EmptyChoices(t *testing.T) {
	srv := newJSONServer(t, http.StatusOK, `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`, nil, nil)
	client := NewOpenAIClient("key", srv.URL, "m", zap.NewNop())
	if _, err := client.Generate(context.Background(), "hi"); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestOpenAIClientGenerate_HTTPError(t *testing.T) {
	srv := newJSONServer(t, http.StatusBadRequest, `{"error":{"message":"bad request","type":"invalid_request_error"}}`, nil, nil)
	client := NewOpenAIClient("key", srv.URL, "m", zap.NewNop())
	if _, err := client.Generate(context.Background(), "hi"); err == nil {
		t.Fatalf("expected error on 400")
	}
}

func TestAnthropicClientGenerate(t *testing.T) {
	var path string
	srv := newJSONServer(t, http.StatusOK, `{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"model": "claude-test",
		"content": [{"type": "text", "text": "Hi "}, {"type": "text", "text": "friend"}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 3, "output_tokens": 2}
	}`, &path, nil)

	client := NewAnthropicClient("key", srv.URL, "claude-test", zap.NewNop())
	out, err := client.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "Hi friend" {
		t.Fatalf("expected joined text blocks, got %q", out)
	}
	if !strings.HasSuffix(path, "/v1/messages") {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestOllamaClientGenerate(t *testing.T) {
	var path string
	srv := newJSONServer(t, http.StatusOK, `{"model":"llama3.2","created_at":"2024-01-01T00:00:00Z","message":{"role":"assistant","content":"Hola"},"done":true}`, &path, nil)

	client, err := NewOllamaClient(srv.URL, "", zap.NewNop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	out, err := client.Generate(context.Background(), "hi")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "Hola" {
		t.Fatalf("expected reply, got %q", out)
	}
	if path != "/api/chat" {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestNewClient(t *testing.T) {
	for _, provider := range []string{"", "openai", "anthropic", "ollama"} {
		c, err := NewClient(Settings{Provider: provider, APIKey: "k", BaseURL: "http://localhost:1"}, nil)
		if err != nil || c == nil {
			t.Fatalf("provider %q: expected client, got %v", provider, err)
		}
	}
	if _, err := NewClient(Settings{Provider: "cohere"}, nil); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestMockClient(t *testing.T) {
	m := &MockClient{Response: "ok"}
	out, err := m.Generate(context.Background(), "prompt")
	if err != nil || out != "ok" || m.Calls != 1 || m.LastPrompt != "prompt" {
		t.Fatalf("unexpected mock state: out=%q err=%v calls=%d", out, err, m.Calls)
	}
}
