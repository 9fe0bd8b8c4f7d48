package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vellalasercare/storefront-gateway/internal/app/model"
	"github.com/vellalasercare/storefront-gateway/pkg/logger"
	redisutil "github.com/vellalasercare/storefront-gateway/pkg/redis"
)

type redisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionRepository keeps each session as a JSON value whose
// expiry is refreshed on every save.
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) SessionRepository {
	return &redisSessionRepository{client: client, ttl: ttl}
}

func (r *redisSessionRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := r.client.Get(ctx, redisutil.SessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		logger.Error("Failed to load session from redis", err, logger.Fields{
			"session_id": id,
		})
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

func (r *redisSessionRepository) Save(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := r.client.Set(ctx, redisutil.SessionKey(session.ID), data, r.ttl).Err(); err != nil {
		logger.Error("Failed to save session to redis", err, logger.Fields{
			"session_id": session.ID,
		})
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, redisutil.SessionKey(id)).Err()
}

// Sweep is a no-op: redis expires idle sessions on its own.
func (r *redisSessionRepository) Sweep(ctx context.Context, ttl time.Duration) (int, error) {
	return 0, nil
}
