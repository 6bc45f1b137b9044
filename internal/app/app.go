// Package app arma las dependencias compartidas por los binarios a partir de la configuración.
package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"terminal-chat/internal/config"
	"terminal-chat/internal/db"
	"terminal-chat/internal/engine"
	"terminal-chat/internal/llm"
	"terminal-chat/internal/repository"
	"terminal-chat/internal/service"
)

// App agrupa el motor, el Responder y el historial ya conectados.
type App struct {
	Config     *config.Config
	Bot        *engine.ChatBot
	Statements repository.StatementRepository
	History    repository.ExchangeRepository
	Responder  *service.BotService
	Chat       *service.ChatService

	logger  *zap.Logger
	redis   *redis.Client
	closers []func()
}

// New abre los almacenamientos configurados y construye el bot.
// Ante error cierra lo que haya abierto.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, logger: logger}

	history, err := a.openHistory(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open history store: %w", err)
	}
	a.History = history

	statements, err := a.openStatements()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open statement store: %w", err)
	}
	a.Statements = statements

	bot, err := a.buildBot()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Bot = bot

	a.Responder = service.NewBotService(bot, a.trainer(), logger)
	a.Chat = service.NewChatService(a.Responder, history)
	return a, nil
}

// Close libera conexiones en orden inverso de apertura.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) openHistory(ctx context.Context) (repository.ExchangeRepository, error) {
	cfg := a.Config
	switch cfg.HistoryStore {
	case config.StoreSQLite:
		conn, err := db.OpenSQLite(cfg.HistorySQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { conn.Close() })
		return repository.NewSQLiteExchangeRepository(conn)
	case config.StorePostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		repo := repository.NewPgExchangeRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		return repo, nil
	case config.StoreRedis:
		client, err := a.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		return repository.NewRedisExchangeRepository(client, cfg.RedisHistoryKey, cfg.RedisHistoryCap), nil
	default:
		return repository.NewMemoryExchangeRepository(), nil
	}
}

func (a *App) openStatements() (repository.StatementRepository, error) {
	if a.Config.StatementStore != config.StoreSQLite {
		return repository.NewMemoryStatementRepository(), nil
	}
	conn, err := db.OpenSQLite(a.Config.ChatbotDBPath)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { conn.Close() })
	return repository.NewSQLiteStatementRepository(conn)
}

func (a *App) buildBot() (*engine.ChatBot, error) {
	cfg := a.Config
	caps, err := engine.ParseCapabilities(cfg.BotName, cfg.LogicAdapters)
	if err != nil {
		return nil, fmt.Errorf("parse capabilities: %w", err)
	}
	caps.ReadOnly = cfg.ReadOnly
	if cfg.DefaultResponse != "" {
		caps.DefaultResponse = cfg.DefaultResponse
	}
	caps.SetOption(engine.AdapterBestMatch, "response_selection", cfg.ResponseSelection)
	caps.SetOption(engine.AdapterLLM, "confidence", strconv.FormatFloat(cfg.LLMConfidence, 'f', -1, 64))

	opts := []engine.Option{engine.WithLogger(a.logger)}
	if caps.Has(engine.AdapterLLM) {
		client, err := llm.NewClient(llm.Settings{
			Provider: cfg.LLMProvider,
			APIKey:   cfg.LLMAPIKey,
			BaseURL:  cfg.LLMBaseURL,
			Model:    cfg.LLMModel,
		}, a.logger)
		if err != nil {
			return nil, fmt.Errorf("build llm client: %w", err)
		}
		contextSvc := service.NewBasicContextService(a.History)
		opts = append(opts, engine.WithLLM(client), engine.WithContext(contextSvc.GetContext))
	}

	bot, err := engine.New(caps, a.Statements, opts...)
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}
	return bot, nil
}

// trainer evita reentrenar un almacén persistente que ya tiene frases.
func (a *App) trainer() service.Trainer {
	base := service.NewDefaultTrainer(a.Bot)
	if a.Config.StatementStore != config.StoreSQLite {
		return base
	}
	return service.TrainerFunc(func(ctx context.Context) error {
		n, err := a.Bot.StatementCount(ctx)
		if err != nil {
			return fmt.Errorf("count statements: %w", err)
		}
		if n > 0 {
			a.logger.Info("statement store already trained", zap.Int("statements", n))
			return nil
		}
		return base.Train(ctx)
	})
}

// RateLimiter devuelve el limitador de POST /message; nil si API_RATE_LIMIT es 0.
// Con REDIS_ADDR el contador se comparte entre instancias.
func (a *App) RateLimiter(ctx context.Context) (service.RateLimiter, error) {
	if a.Config.APIRateLimit <= 0 {
		return nil, nil
	}
	if a.Config.RedisAddr == "" {
		return service.NewMemoryRateLimiter(time.Minute, a.Config.APIRateLimit), nil
	}
	client, err := a.redisClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return service.NewRedisRateLimiter(client, time.Minute, a.Config.APIRateLimit), nil
}

func (a *App) redisClient(ctx context.Context) (*redis.Client, error) {
	if a.redis != nil {
		return a.redis, nil
	}
	client, err := db.NewRedisClient(ctx, a.Config)
	if err != nil {
		return nil, err
	}
	a.redis = client
	a.closers = append(a.closers, func() { client.Close() })
	return client, nil
}
