package engine

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"terminal-chat/internal/domain"
	"terminal-chat/internal/llm"
)

var (
	ErrLLMNotConfigured = errors.New("llm adapter enabled without client")
	errEmptyLLMReply    = errors.New("llm returned an empty reply")

	fenceStart = regexp.MustCompile("(?is)^\\s*```[a-z]*\\s*")
	fenceEnd   = regexp.MustCompile("(?is)\\s*```\\s*$")
)

// ContextFunc devuelve la conversación reciente en texto plano para el prompt.
type ContextFunc func(ctx context.Context) (string, error)

type llmAdapter struct {
	client     llm.LLMClient
	botName    string
	confidence float64
	context    ContextFunc
}

func newLLMAdapter(spec AdapterSpec, client llm.LLMClient, botName string, contextFn ContextFunc) (*llmAdapter, error) {
	if client == nil {
		return nil, ErrLLMNotConfigured
	}
	confidence, err := spec.floatOption("confidence", 0.6)
	if err != nil {
		return nil, err
	}
	if botName == "" {
		botName = "TerminalBot"
	}
	return &llmAdapter{
		client:     client,
		botName:    botName,
		confidence: confidence,
		context:    contextFn,
	}, nil
}

func (a *llmAdapter) Name() string { return AdapterLLM }

func (a *llmAdapter) CanProcess(domain.Statement) bool { return true }

func (a *llmAdapter) Process(ctx context.Context, input domain.Statement) (domain.Statement, error) {
	var history string
	if a.context != nil {
		// Sin contexto la respuesta sigue siendo útil; no se bloquea el turno.
		history, _ = a.context(ctx)
	}

	reply, err := a.client.Generate(ctx, a.buildPrompt(history, input.Text))
	if err != nil {
		return domain.Statement{}, fmt.Errorf("llm generate: %w", err)
	}
	reply = cleanReply(reply)
	if reply == "" {
		return domain.Statement{}, errEmptyLLMReply
	}

	return domain.Statement{
		Text:         reply,
		InResponseTo: input.Text,
		Conversation: input.Conversation,
		Confidence:   a.confidence,
	}, nil
}

func (a *llmAdapter) buildPrompt(history, text string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are %s, a friendly chatbot running in a terminal. ", a.botName))
	sb.WriteString("Reply in one or two short sentences of plain text, without markdown.\n\n")
	if strings.TrimSpace(history) != "" {
		sb.WriteString("Recent conversation:\n")
		sb.WriteString(history)
		sb.WriteString("\n\n")
	}
	sb.WriteString(fmt.Sprintf("User: %s\n", text))
	sb.WriteString(a.botName + ":")
	return sb.String()
}

// cleanReply quita fences ``` y BOM, dejando texto plano.
func cleanReply(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(s, "\uFEFF")
	s = fenceStart.ReplaceAllString(s, "")
	s = fenceEnd.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
