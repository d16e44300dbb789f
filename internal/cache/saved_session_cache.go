package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/redis/go-redis/v9"
)

const savedSessionKeyPrefix = "saved_sessions:"

// SavedSessionCache keeps one user's saved sessions in a redis hash keyed by
// exam id.
type SavedSessionCache struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

func NewSavedSessionCache(client *redis.Client, userID string, logger *slog.Logger) *SavedSessionCache {
	return &SavedSessionCache{
		client: client,
		key:    savedSessionKeyPrefix + userID,
		logger: logger,
	}
}

// LoadAll skips entries that no longer decode instead of failing the load.
func (c *SavedSessionCache) LoadAll(ctx context.Context) (map[string]models.SavedSession, error) {
	fields, err := c.client.HGetAll(ctx, c.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load saved sessions: %w", err)
	}

	sessions := make(map[string]models.SavedSession, len(fields))
	for examID, data := range fields {
		var snapshot models.SavedSession
		if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
			c.logger.Warn("Skipping unreadable saved session", "key", c.key, "exam_id", examID, "error", err)
			continue
		}
		sessions[examID] = snapshot
	}
	return sessions, nil
}

func (c *SavedSessionCache) Put(ctx context.Context, examID string, snapshot models.SavedSession) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode saved session: %w", err)
	}
	if err := c.client.HSet(ctx, c.key, examID, data).Err(); err != nil {
		return fmt.Errorf("failed to store saved session: %w", err)
	}
	return nil
}

func (c *SavedSessionCache) Delete(ctx context.Context, examID string) error {
	if err := c.client.HDel(ctx, c.key, examID).Err(); err != nil {
		return fmt.Errorf("failed to delete saved session: %w", err)
	}
	return nil
}
