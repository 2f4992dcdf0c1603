package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"chat_widget/internal/models"
)

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	database.SetMaxOpenConns(1)
	database.SetConnMaxLifetime(0)

	store := &SQLiteStore{db: database}
	if err := store.migrate(context.Background()); err != nil {
		database.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	const schema = `
PRAGMA journal_mode=WAL;

CREATE TABLE IF NOT EXISTS messages (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  text TEXT NOT NULL,
  is_bot INTEGER NOT NULL DEFAULT 0,
  timestamp DATETIME NOT NULL
);
`
	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("migrate sqlite schema: %w", err)
	}
	return nil
}

// ListMessages returns the newest limit messages in insertion order.
func (s *SQLiteStore) ListMessages(ctx context.Context, limit int) ([]models.Message, error) {
	if limit < 1 {
		limit = 1000
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, text, is_bot, timestamp FROM (
  SELECT seq, id, text, is_bot, timestamp
  FROM messages
  ORDER BY seq DESC
  LIMIT ?
) ORDER BY seq ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0, 32)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.Text, &msg.IsBot, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.Timestamp = msg.Timestamp.UTC()
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (s *SQLiteStore) AppendMessage(ctx context.Context, message *models.Message) error {
	if err := Prepare(message, time.Now().UTC()); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO messages (id, text, is_bot, timestamp)
VALUES (?, ?, ?, ?)`, message.ID, message.Text, message.IsBot, message.Timestamp)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}
