package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"chat_widget/internal/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS messages (
  seq BIGSERIAL PRIMARY KEY,
  id TEXT NOT NULL UNIQUE,
  text TEXT NOT NULL,
  is_bot BOOLEAN NOT NULL DEFAULT FALSE,
  timestamp TIMESTAMPTZ NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("migrate postgres schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListMessages(ctx context.Context, limit int) ([]models.Message, error) {
	if limit < 1 {
		limit = 1000
	}
	rows, err := s.pool.Query(ctx, `
SELECT id, text, is_bot, timestamp FROM (
  SELECT seq, id, text, is_bot, timestamp
  FROM messages
  ORDER BY seq DESC
  LIMIT $1
) recent ORDER BY seq ASC`, limit)
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

func (s *PostgresStore) AppendMessage(ctx context.Context, message *models.Message) error {
	if err := Prepare(message, time.Now().UTC()); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
INSERT INTO messages (id, text, is_bot, timestamp)
VALUES ($1, $2, $3, $4)`, message.ID, message.Text, message.IsBot, message.Timestamp)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}
