package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/routinepro/routine-pro-api/internal/models"
	appErrors "github.com/routinepro/routine-pro-api/pkg/errors"
)

const sessionKeyPrefix = "session:"

// SessionRepository stores per-session selection state in Redis. A nil
// client degrades to cache misses so the service layer can fall back to
// its in-memory map.
type SessionRepository struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewSessionRepository constructs a session repository.
func NewSessionRepository(client *redis.Client, logger *zap.Logger, ttl time.Duration) *SessionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}
	return &SessionRepository{client: client, logger: logger, ttl: ttl}
}

// Get loads a session's selection state.
func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*models.SessionState, error) {
	if r.client == nil {
		return nil, appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get session %s: %w", sessionID, err)
	}

	var state models.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", sessionID, err)
	}
	return &state, nil
}

// Save stores a session's selection state with the configured TTL.
func (r *SessionRepository) Save(ctx context.Context, sessionID string, state *models.SessionState) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", sessionID, err)
	}

	if err := r.client.Set(ctx, sessionKeyPrefix+sessionID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session %s: %w", sessionID, err)
	}
	return nil
}

// Delete drops a session's selection state.
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	if r.client == nil {
		return nil
	}

	if err := r.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis delete session %s: %w", sessionID, err)
	}
	return nil
}
