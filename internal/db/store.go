package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"chat_widget/internal/models"
)

var ErrInvalidMessage = errors.New("invalid message")

// MessageStore is an append-only, ordered message log.
// SQLiteStore, PostgresStore and RedisStore implement it.
type MessageStore interface {
	Close() error
	Ping(ctx context.Context) error

	// ListMessages returns up to limit messages, oldest first.
	ListMessages(ctx context.Context, limit int) ([]models.Message, error)
	// AppendMessage fills in a missing id and timestamp before storing.
	AppendMessage(ctx context.Context, message *models.Message) error
}

// Prepare validates message and fills defaults. User messages need text.
func Prepare(message *models.Message, now time.Time) error {
	if message == nil {
		return ErrInvalidMessage
	}
	if !message.IsBot && strings.TrimSpace(message.Text) == "" {
		return ErrInvalidMessage
	}
	if message.ID == "" {
		message.ID = ulid.Make().String()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = now
	}
	message.Timestamp = message.Timestamp.UTC()
	return nil
}
