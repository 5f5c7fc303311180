package oauthstate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed handshake store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "oauthstate:",
	}
}

func (r *RedisStore) key(state string) string {
	return r.prefix + state
}

func (r *RedisStore) Save(ctx context.Context, h Handshake) error {
	if h.State == "" || h.CodeVerifier == "" {
		return fmt.Errorf("oauthstate: missing state or verifier")
	}

	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("oauthstate: failed to marshal: %w", err)
	}

	return r.client.Set(ctx, r.key(h.State), data, TTL).Err()
}

// Consume atomically fetches and deletes the handshake, so replayed
// callbacks with the same state find nothing.
func (r *RedisStore) Consume(ctx context.Context, state string) (*Handshake, error) {
	val, err := r.client.GetDel(ctx, r.key(state)).Result()
	if err == redis.Nil {
		return nil, nil // unknown, expired, or already redeemed
	}
	if err != nil {
		return nil, err
	}

	var h Handshake
	if err := json.Unmarshal([]byte(val), &h); err != nil {
		return nil, fmt.Errorf("oauthstate: failed to unmarshal: %w", err)
	}

	return &h, nil
}
