// Package sqlite persists per-account conversation transcripts in a local
// SQLite database. The append path enforces the transcript cap so the table
// never holds more than domain.MaxTranscriptTurns turns per account.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/bnema/magicpin/internal/domain"
	"github.com/bnema/magicpin/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS turns (
	seq     INTEGER PRIMARY KEY AUTOINCREMENT,
	account TEXT NOT NULL,
	sender  TEXT NOT NULL,
	text    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS turns_account_seq ON turns(account, seq);
`

type Repository struct {
	db       *sql.DB
	maxTurns int
}

var _ ports.TranscriptRepository = (*Repository)(nil)

// Open creates the transcript database at path, creating parent directories
// and the schema if needed.
func Open(path string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create transcript directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=10000")
	if err != nil {
		return nil, fmt.Errorf("open transcript database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create transcript schema: %w", err)
	}

	return &Repository{db: db, maxTurns: domain.MaxTranscriptTurns}, nil
}

func (r *Repository) Append(ctx context.Context, id domain.AccountID, turn domain.Turn) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transcript transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO turns(account, sender, text) VALUES(?, ?, ?)`,
		string(id), string(turn.Sender), turn.Text)
	if err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}

	// Trim to the newest maxTurns turns for this account.
	_, err = tx.ExecContext(ctx,
		`DELETE FROM turns WHERE account = ? AND seq NOT IN (
			SELECT seq FROM turns WHERE account = ? ORDER BY seq DESC LIMIT ?
		)`,
		string(id), string(id), r.maxTurns)
	if err != nil {
		return fmt.Errorf("trim transcript: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transcript transaction: %w", err)
	}

	return nil
}

func (r *Repository) Load(ctx context.Context, id domain.AccountID) ([]domain.Turn, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT sender, text FROM turns WHERE account = ? ORDER BY seq ASC`,
		string(id))
	if err != nil {
		return nil, fmt.Errorf("query transcript: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var turns []domain.Turn
	for rows.Next() {
		var sender, text string
		if err := rows.Scan(&sender, &text); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, domain.Turn{Sender: domain.Sender(sender), Text: text})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcript: %w", err)
	}

	return turns, nil
}

func (r *Repository) Clear(ctx context.Context, id domain.AccountID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM turns WHERE account = ?`, string(id))
	if err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}

	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
