package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"chat_widget/internal/models"
)

const messagesKey = "chat_widget:messages"

// RedisStore keeps the log as a JSON-encoded redis list, oldest at the head.
type RedisStore struct {
	client *redis.Client
	key    string
}

func OpenRedis(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client), nil
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, key: messagesKey}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) ListMessages(ctx context.Context, limit int) ([]models.Message, error) {
	if limit < 1 {
		limit = 1000
	}
	results, err := s.client.LRange(ctx, s.key, int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return decodeMessages(results)
}

func decodeMessages(entries []string) ([]models.Message, error) {
	messages := make([]models.Message, 0, len(entries))
	for i, data := range entries {
		var msg models.Message
		if err := json.Unmarshal([]byte(data), &msg); err != nil {
			return nil, fmt.Errorf("decode message %d: %w", i, err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *RedisStore) AppendMessage(ctx context.Context, message *models.Message) error {
	if err := Prepare(message, time.Now().UTC()); err != nil {
		return err
	}
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	if err := s.client.RPush(ctx, s.key, string(data)).Err(); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}
