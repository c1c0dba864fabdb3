package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultViewTTL = 10 * time.Minute

// Store provides a Redis-backed key/value cache with per-entry expiration.
// It only ever holds derived views; every entry must be reconstructible from
// the persistent store, so losing it costs a recomputation and nothing else.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New constructs a cache store. ttl is the default expiration applied by Set.
func New(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultViewTTL
	}
	return &Store{client: client, ttl: ttl}
}

// TTL returns the default expiration applied to entries.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Get returns the payload stored under key, or ok=false on a miss.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Set stores payload under key with the given ttl; ttl <= 0 uses the default.
func (s *Store) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.ttl
	}
	return s.client.Set(ctx, key, payload, ttl).Err()
}
