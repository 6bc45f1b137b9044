package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"

	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config centraliza la configuración del cliente de chat y la API.
type Config struct {
	HTTPPort     string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"warn"`
	APIRateLimit int    `env:"API_RATE_LIMIT" envDefault:"0"`

	BotName           string   `env:"BOT_NAME" envDefault:"TerminalBot"`
	LogicAdapters     []string `env:"LOGIC_ADAPTERS" envSeparator:"," envDefault:"best_match,mathematical_evaluation,time"`
	ReadOnly          bool     `env:"BOT_READ_ONLY" envDefault:"false"`
	DefaultResponse   string   `env:"BOT_DEFAULT_RESPONSE" envDefault:"I am sorry, but I do not understand."`
	ResponseSelection string   `env:"RESPONSE_SELECTION" envDefault:"first"`
	StatementStore    string   `env:"STATEMENT_STORE" envDefault:"memory"`
	ChatbotDBPath     string   `env:"CHATBOT_DB_PATH" envDefault:"chatbot_database.sqlite3"`

	HistoryStore      string `env:"HISTORY_STORE" envDefault:"memory"`
	HistoryLimit      int    `env:"HISTORY_LIMIT" envDefault:"10"`
	HistorySQLitePath string `env:"HISTORY_SQLITE_PATH" envDefault:"chat_history.sqlite3"`
	DatabaseURL       string `env:"DATABASE_URL"`

	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	RedisHistoryKey string `env:"REDIS_HISTORY_KEY" envDefault:"chat:history"`
	RedisHistoryCap int    `env:"REDIS_HISTORY_CAP" envDefault:"1000"`

	LLMProvider   string  `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMAPIKey     string  `env:"LLM_API_KEY"`
	LLMBaseURL    string  `env:"LLM_BASE_URL"`
	LLMModel      string  `env:"LLM_MODEL"`
	LLMConfidence float64 `env:"LLM_CONFIDENCE" envDefault:"0.6"`
}

// LoadConfig carga la configuración desde variables de entorno y la valida.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.StatementStore = strings.ToLower(strings.TrimSpace(c.StatementStore))
	c.HistoryStore = strings.ToLower(strings.TrimSpace(c.HistoryStore))
	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))
	adapters := make([]string, 0, len(c.LogicAdapters))
	for _, a := range c.LogicAdapters {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" {
			adapters = append(adapters, a)
		}
	}
	c.LogicAdapters = adapters
}

// UsesLLM indica si la lista de adaptadores incluye el fallback LLM.
func (c *Config) UsesLLM() bool {
	for _, a := range c.LogicAdapters {
		if a == "llm" {
			return true
		}
	}
	return false
}

// Validate revisa combinaciones que no pueden funcionar en runtime.
func (c *Config) Validate() error {
	if len(c.LogicAdapters) == 0 {
		return fmt.Errorf("%w: LOGIC_ADAPTERS is empty", ErrInvalidConfig)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("%w: HISTORY_LIMIT must be positive", ErrInvalidConfig)
	}
	if c.APIRateLimit < 0 {
		return fmt.Errorf("%w: API_RATE_LIMIT must not be negative", ErrInvalidConfig)
	}

	switch c.StatementStore {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("%w: unknown STATEMENT_STORE %q", ErrInvalidConfig, c.StatementStore)
	}

	switch c.HistoryStore {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for postgres history", ErrInvalidConfig)
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: REDIS_ADDR is required for redis history", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown HISTORY_STORE %q", ErrInvalidConfig, c.HistoryStore)
	}

	if c.UsesLLM() {
		switch c.LLMProvider {
		case ProviderOpenAI, ProviderAnthropic:
			if c.LLMAPIKey == "" {
				return fmt.Errorf("%w: LLM_API_KEY is required for provider %s", ErrInvalidConfig, c.LLMProvider)
			}
		case ProviderOllama:
		default:
			return fmt.Errorf("%w: unknown LLM_PROVIDER %q", ErrInvalidConfig, c.LLMProvider)
		}
		if c.LLMConfidence <= 0 || c.LLMConfidence > 1 {
			return fmt.Errorf("%w: LLM_CONFIDENCE must be in (0, 1]", ErrInvalidConfig)
		}
	}
	return nil
}
