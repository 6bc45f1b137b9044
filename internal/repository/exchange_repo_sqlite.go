package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"terminal-chat/internal/domain"
)

// sqliteTimeLayout tiene ancho fijo para que el orden lexicográfico coincida con el cronológico.
const sqliteTimeLayout = "2006-01-02 15:04:05.000000000"

const createChatHistoryTableSQL = `
CREATE TABLE IF NOT EXISTS chat_history (
    id           TEXT PRIMARY KEY,
    user_message TEXT NOT NULL,
    bot_response TEXT NOT NULL,
    timestamp    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chat_history_timestamp ON chat_history(timestamp);
`

type SQLiteExchangeRepository struct {
	db *sql.DB
}

// NewSQLiteExchangeRepository crea la tabla chat_history si no existe.
func NewSQLiteExchangeRepository(db *sql.DB) (*SQLiteExchangeRepository, error) {
	if _, err := db.Exec(createChatHistoryTableSQL); err != nil {
		return nil, fmt.Errorf("create chat_history table: %w", err)
	}
	return &SQLiteExchangeRepository{db: db}, nil
}

func (r *SQLiteExchangeRepository) Create(ctx context.Context, exchange domain.Exchange) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chat_history (id, user_message, bot_response, timestamp)
		VALUES (?, ?, ?, ?)`,
		exchange.ID,
		exchange.UserMessage,
		exchange.BotResponse,
		exchange.Timestamp.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert exchange: %w", err)
	}
	return nil
}

func (r *SQLiteExchangeRepository) ListRecent(ctx context.Context, limit int) ([]domain.Exchange, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_message, bot_response, timestamp
		FROM chat_history
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list exchanges: %w", err)
	}
	defer rows.Close()

	exchanges := make([]domain.Exchange, 0, limit)
	for rows.Next() {
		var (
			ex domain.Exchange
			ts string
		)
		if err := rows.Scan(&ex.ID, &ex.UserMessage, &ex.BotResponse, &ts); err != nil {
			return nil, err
		}
		ex.Timestamp, err = time.Parse(sqliteTimeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
		}
		exchanges = append(exchanges, ex)
	}
	return exchanges, rows.Err()
}
