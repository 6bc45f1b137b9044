package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"terminal-chat/internal/llm"
)

func TestEvaluateResponse_ParsesAndClamps(t *testing.T) {
	judge := &llm.MockClient{Response: "Sure! ```json\n{\"reasoning\": \"uses a {brace} \\\"quote\\\"\", \"coherence_score\": 9}\n```"}
	sc := Scenario{Input: "Hello", ExpectedBehavior: "A greeting"}

	jr, err := evaluateResponse(context.Background(), judge, sc, "Hi")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if jr.CoherenceScore != 5 {
		t.Fatalf("expected score clamped to 5, got %d", jr.CoherenceScore)
	}
	if jr.Reasoning != `uses a {brace} "quote"` {
		t.Fatalf("unexpected reasoning %q", jr.Reasoning)
	}
	for _, n := range []string{"User: Hello", "Bot: Hi", "Expected behaviour: A greeting", "coherence_score"} {
		if !strings.Contains(judge.LastPrompt, n) {
			t.Fatalf("prompt missing %q: %q", n, judge.LastPrompt)
		}
	}
}

func TestEvaluateResponse_Errors(t *testing.T) {
	sc := Scenario{Input: "Hello"}
	if _, err := evaluateResponse(context.Background(), &llm.MockClient{Response: "no json here"}, sc, "Hi"); err == nil {
		t.Fatalf("expected error for non-json judge reply")
	}
	if _, err := evaluateResponse(context.Background(), &llm.MockClient{Response: `{"coherence_score": "high"}`}, sc, "Hi"); err == nil {
		t.Fatalf("expected error for malformed judge json")
	}
	boom := errors.New("rate limited")
	if _, err := evaluateResponse(context.Background(), &llm.MockClient{Err: boom}, sc, "Hi"); !errors.Is(err, boom) {
		t.Fatalf("expected judge error, got %v", err)
	}
}

func TestCheckReply(t *testing.T) {
	const def = "I am sorry, but I do not understand."
	cases := []struct {
		name  string
		sc    Scenario
		reply string
		ok    bool
	}{
		{"expected text", Scenario{Expect: "12 / 4 = 3"}, "12 / 4 = 3", true},
		{"case insensitive", Scenario{Expect: "chatbot"}, "I am an AI ChatBot", true},
		{"missing text", Scenario{Expect: "The current time is"}, "Hi", false},
		{"unexpected default", Scenario{}, def, false},
		{"expected default", Scenario{ExpectDefault: true}, def, true},
		{"default missing", Scenario{ExpectDefault: true}, "Hello", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := checkReply(tc.sc, tc.reply, def) == ""; got != tc.ok {
				t.Fatalf("checkReply ok=%v want %v", got, tc.ok)
			}
		})
	}
}

func TestExtractFirstJSONObject(t *testing.T) {
	cases := map[string]string{
		`prefix {"a": {"b": 1}} suffix {"c": 2}`: `{"a": {"b": 1}}`,
		`{"s": "}"}`:                             `{"s": "}"}`,
		`no object`:                              ``,
		`{"open": true`:                          ``,
	}
	for in, want := range cases {
		if got := extractFirstJSONObject(in); got != want {
			t.Fatalf("extractFirstJSONObject(%q)=%q want %q", in, got, want)
		}
	}
}
