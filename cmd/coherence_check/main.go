package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"terminal-chat/internal/app"
	"terminal-chat/internal/config"
	"terminal-chat/internal/llm"
	"terminal-chat/internal/logging"
)

var (
	inputStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	botStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Scenario es un turno de prueba: Expect es una verificación determinista y
// ExpectedBehavior es lo que el juez LLM debe valorar.
type Scenario struct {
	Input            string
	Expect           string
	ExpectDefault    bool
	ExpectedBehavior string
}

var scenarios = []Scenario{
	{Input: "Hello", ExpectedBehavior: "A short friendly greeting"},
	{Input: "Good morning, how are you?", ExpectedBehavior: "A polite answer about how the bot is doing"},
	{Input: "What is 12 divided by 4?", Expect: "12 / 4 = 3", ExpectedBehavior: "The arithmetic result"},
	{Input: "What time is it?", Expect: "The current time is", ExpectedBehavior: "States the current time"},
	{Input: "Tell me about yourself", Expect: "chatbot", ExpectedBehavior: "Describes itself as a chatbot"},
	{Input: "zxqv plmok wrtn", ExpectDefault: true, ExpectedBehavior: "Admits it does not understand"},
}

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	// La evaluación no debe ensuciar el almacén de frases.
	cfg.ReadOnly = true

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("build app", zap.Error(err))
	}
	defer a.Close()

	if err := a.Responder.Train(ctx); err != nil {
		logger.Fatal("train bot", zap.Error(err))
	}

	judge := newJudge(cfg, logger)
	defaultResponse := a.Bot.Capabilities().DefaultResponse

	var (
		failed     int
		judged     int
		totalScore int
	)
	for _, sc := range scenarios {
		fmt.Printf("%s %s\n", inputStyle.Render("[Input]"), sc.Input)

		reply, err := a.Responder.Respond(ctx, sc.Input)
		if err != nil {
			logger.Fatal("respond", zap.Error(err))
		}
		fmt.Printf("%s %s\n", botStyle.Render("["+a.Bot.Name()+"]"), reply)

		if problem := checkReply(sc, reply, defaultResponse); problem != "" {
			failed++
			fmt.Println(failStyle.Render("FAIL: " + problem))
		}

		if judge != nil {
			jr, err := evaluateResponse(ctx, judge, sc, reply)
			if err != nil {
				logger.Warn("judge failed", zap.Error(err))
			} else {
				judged++
				totalScore += jr.CoherenceScore
				fmt.Printf("Judge: %q\nScore: %d/5\n", jr.Reasoning, jr.CoherenceScore)
			}
		}
		fmt.Println()
	}

	fmt.Println("==== Summary ====")
	fmt.Printf("Checks: %d/%d passed\n", len(scenarios)-failed, len(scenarios))
	if judged > 0 {
		fmt.Printf("Coherence: %.2f/5 over %d replies\n", float64(totalScore)/float64(judged), judged)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// checkReply devuelve una descripción del problema o "" si la respuesta cumple.
func checkReply(sc Scenario, reply, defaultResponse string) string {
	isDefault := reply == defaultResponse
	switch {
	case sc.ExpectDefault && !isDefault:
		return fmt.Sprintf("expected the default response, got %q", reply)
	case !sc.ExpectDefault && isDefault:
		return "bot fell back to the default response"
	case sc.Expect != "" && !strings.Contains(strings.ToLower(reply), strings.ToLower(sc.Expect)):
		return fmt.Sprintf("expected reply to contain %q", sc.Expect)
	}
	return ""
}

// newJudge solo habilita el juez cuando hay credenciales o un Ollama explícito.
func newJudge(cfg *config.Config, logger *zap.Logger) llm.LLMClient {
	if cfg.LLMAPIKey == "" && !(cfg.LLMProvider == config.ProviderOllama && cfg.LLMBaseURL != "") {
		return nil
	}
	client, err := llm.NewClient(llm.Settings{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.LLMAPIKey,
		BaseURL:  cfg.LLMBaseURL,
		Model:    cfg.LLMModel,
	}, logger)
	if err != nil {
		logger.Warn("judge disabled", zap.Error(err))
		return nil
	}
	return client
}
