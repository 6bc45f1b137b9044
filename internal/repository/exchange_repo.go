package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"terminal-chat/internal/domain"
)

// DefaultHistoryLimit es la cantidad de turnos devuelta cuando el caller no indica límite.
const DefaultHistoryLimit = 10

// ExchangeRepository persiste turnos de conversación.
// ListRecent devuelve como máximo limit filas, la más reciente primero.
type ExchangeRepository interface {
	Create(ctx context.Context, exchange domain.Exchange) error
	ListRecent(ctx context.Context, limit int) ([]domain.Exchange, error)
}

type PgExchangeRepository struct {
	pool *pgxpool.Pool
}

func NewPgExchangeRepository(pool *pgxpool.Pool) *PgExchangeRepository {
	return &PgExchangeRepository{pool: pool}
}

// EnsureSchema crea la tabla chat_history si no existe.
func (r *PgExchangeRepository) EnsureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS chat_history (
			id UUID PRIMARY KEY,
			user_message TEXT NOT NULL,
			bot_response TEXT NOT NULL,
			"timestamp" TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_chat_history_timestamp ON chat_history ("timestamp" DESC);
	`
	_, err := r.pool.Exec(ctx, query)
	return err
}

func (r *PgExchangeRepository) Create(ctx context.Context, exchange domain.Exchange) error {
	const query = `
		INSERT INTO chat_history (id, user_message, bot_response, "timestamp")
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		exchange.ID,
		exchange.UserMessage,
		exchange.BotResponse,
		exchange.Timestamp,
	)
	return err
}

func (r *PgExchangeRepository) ListRecent(ctx context.Context, limit int) ([]domain.Exchange, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	const query = `
		SELECT id, user_message, bot_response, "timestamp"
		FROM chat_history
		ORDER BY "timestamp" DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exchanges := make([]domain.Exchange, 0, limit)
	for rows.Next() {
		var ex domain.Exchange
		if err := rows.Scan(&ex.ID, &ex.UserMessage, &ex.BotResponse, &ex.Timestamp); err != nil {
			return nil, err
		}
		exchanges = append(exchanges, ex)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return exchanges, nil
}
