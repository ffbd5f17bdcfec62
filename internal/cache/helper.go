package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	postKeyPrefix = "post:%s"

	// PostTTL bounds how stale a cached post detail may get.
	PostTTL = 30 * time.Minute
)

// PostKey returns the cache key for a post looked up by slug or id.
func PostKey(slugOrID string) string {
	return fmt.Sprintf(postKeyPrefix, slugOrID)
}

// Invalidate removes a key, if a client is configured.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePost removes the cache entries for a post under both of its
// lookup tokens.
func InvalidatePost(ctx context.Context, slug, id string) {
	Invalidate(ctx, PostKey(slug))
	Invalidate(ctx, PostKey(id))
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err != nil {
		// Treat any Redis failure as a miss; the DB remains the source of truth.
		return false, nil
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, nil
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first, on miss it calls fetch (which should populate dest),
// then stores the result in Redis with ttl. fetch must write into dest.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	// Fetch from source (DB)
	if err := fetch(); err != nil {
		return err
	}

	// Store into cache (best-effort)
	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}
