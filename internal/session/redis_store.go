package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis so they survive restarts and are
// shared across instances. Each token maps to a JSON Identity blob that
// Redis expires after the configured TTL.
type RedisStore struct {
	client *redis.Client
	creds  Credentials
	ttl    time.Duration
	prefix string
}

// NewRedisStore creates a Redis-backed session store on an existing client.
func NewRedisStore(client *redis.Client, creds Credentials, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		creds:  creds,
		ttl:    ttl,
		prefix: "session:",
	}
}

func (s *RedisStore) key(token string) string {
	return s.prefix + token
}

func (s *RedisStore) Login(ctx context.Context, username, password string) (string, error) {
	if err := checkCredentials(s.creds, username, password); err != nil {
		return "", err
	}
	token, err := newToken()
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(Identity{Username: username, IssuedAt: time.Now().UTC()})
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(token), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Validate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	data, err := s.client.Get(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	var identity Identity
	if err := json.Unmarshal([]byte(data), &identity); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &identity, nil
}

func (s *RedisStore) Logout(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
