package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/qpaper-backend/internal/config"
	"github.com/stemsi/qpaper-backend/internal/model"
)

// ErrSessionNotFound is returned for unknown or expired paper sessions.
var ErrSessionNotFound = errors.New("paper session not found")

// SessionStore keeps paper sessions between requests.
type SessionStore interface {
	Get(ctx context.Context, id uuid.UUID) (*model.PaperSession, error)
	Save(ctx context.Context, s *model.PaperSession) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RedisSessionStore stores each session as one JSON value. Every Save
// restarts the TTL, so a session expires only after it is left alone.
type RedisSessionStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisSessionStore(rdb redis.Cmdable, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, id uuid.UUID) (*model.PaperSession, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.PaperSessionKey(id.String())).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load paper session: %w", err)
	}

	var session model.PaperSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("decode paper session: %w", err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session *model.PaperSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode paper session: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.PaperSessionKey(session.ID.String()), string(data), s.ttl).Err(); err != nil {
		return fmt.Errorf("save paper session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.rdb.Del(ctx, config.CacheKey.PaperSessionKey(id.String())).Result()
	if err != nil {
		return fmt.Errorf("delete paper session: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
