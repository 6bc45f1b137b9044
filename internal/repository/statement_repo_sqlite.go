package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"terminal-chat/internal/domain"
)

const createStatementTableSQL = `
CREATE TABLE IF NOT EXISTS statement (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    text           TEXT NOT NULL,
    in_response_to TEXT NOT NULL DEFAULT '',
    conversation   TEXT NOT NULL DEFAULT '',
    created_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_statement_in_response_to ON statement(in_response_to);
`

// SQLiteStatementRepository persiste lo aprendido por el motor entre ejecuciones.
type SQLiteStatementRepository struct {
	db *sql.DB
}

func NewSQLiteStatementRepository(db *sql.DB) (*SQLiteStatementRepository, error) {
	if _, err := db.Exec(createStatementTableSQL); err != nil {
		return nil, fmt.Errorf("create statement table: %w", err)
	}
	return &SQLiteStatementRepository{db: db}, nil
}

func (r *SQLiteStatementRepository) Create(ctx context.Context, statements ...domain.Statement) error {
	if len(statements) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO statement (text, in_response_to, conversation, created_at)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, st := range statements {
		createdAt := st.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx, st.Text, st.InResponseTo, st.Conversation, createdAt.UTC().Format(sqliteTimeLayout)); err != nil {
			return fmt.Errorf("insert statement: %w", err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteStatementRepository) Prompts(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT in_response_to
		FROM statement
		WHERE in_response_to <> ''
		GROUP BY in_response_to
		ORDER BY MIN(id)`)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	var prompts []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}

func (r *SQLiteStatementRepository) Responses(ctx context.Context, text string) ([]domain.Statement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, text, in_response_to, conversation, created_at
		FROM statement
		WHERE in_response_to = ?
		ORDER BY id`,
		text,
	)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var out []domain.Statement
	for rows.Next() {
		var (
			st domain.Statement
			ts string
		)
		if err := rows.Scan(&st.ID, &st.Text, &st.InResponseTo, &st.Conversation, &ts); err != nil {
			return nil, err
		}
		if st.CreatedAt, err = time.Parse(sqliteTimeLayout, ts); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", ts, err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *SQLiteStatementRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM statement`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count statements: %w", err)
	}
	return n, nil
}
