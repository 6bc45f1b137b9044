package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"terminal-chat/internal/llm"
)

// judgeResponse representa la respuesta estructurada del juez evaluador en formato JSON.
type judgeResponse struct {
	Reasoning      string `json:"reasoning"`
	CoherenceScore int    `json:"coherence_score"`
}

func evaluateResponse(ctx context.Context, judge llm.LLMClient, sc Scenario, response string) (judgeResponse, error) {
	raw, err := judge.Generate(ctx, buildJudgePrompt(sc.Input, response, sc.ExpectedBehavior))
	if err != nil {
		return judgeResponse{}, err
	}

	// los modelos suelen envolver el JSON en texto; tomamos el primer objeto balanceado
	jsonStr := extractFirstJSONObject(raw)
	if jsonStr == "" {
		return judgeResponse{}, fmt.Errorf("judge returned no json: %q", raw)
	}

	var jr judgeResponse
	if err := json.Unmarshal([]byte(jsonStr), &jr); err != nil {
		return judgeResponse{}, fmt.Errorf("parse judge json: %w (raw=%q)", err, jsonStr)
	}
	jr.CoherenceScore = clamp1to5(jr.CoherenceScore)
	return jr, nil
}

func buildJudgePrompt(input, response, expected string) string {
	var sb strings.Builder
	sb.WriteString("You evaluate a small rule-based terminal chatbot.\n")
	sb.WriteString("Score how coherent the bot reply is as an answer to the user message, from 1 (nonsense) to 5 (natural and on topic).\n")
	sb.WriteString("Short canned replies are fine when they fit.\n\n")
	fmt.Fprintf(&sb, "User: %s\n", input)
	fmt.Fprintf(&sb, "Bot: %s\n", response)
	fmt.Fprintf(&sb, "Expected behaviour: %s\n\n", expected)
	sb.WriteString(`Answer only with JSON: {"reasoning": "<one sentence>", "coherence_score": <1-5>}`)
	return sb.String()
}

func clamp1to5(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

func extractFirstJSONObject(input string) string {
	start := strings.IndexByte(input, '{')
	if start == -1 {
		return ""
	}

	inString := false
	escape := false
	depth := 0

	for i := start; i < len(input); i++ {
		ch := input[i]

		if inString {
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}

	return ""
}
