package recipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSlot implements Slot on plain Redis string keys.
type RedisSlot struct {
	client redis.UniversalClient
}

// NewRedisSlot wraps an existing client.
func NewRedisSlot(client redis.UniversalClient) *RedisSlot {
	return &RedisSlot{client: client}
}

// DialRedisSlot connects to addr and verifies the connection with PING.
func DialRedisSlot(ctx context.Context, addr, password string, db int) (*RedisSlot, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisSlot{client: client}, nil
}

// Get retrieves the value stored under key.
func (s *RedisSlot) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read slot %q: %w", key, err)
	}
	return value, nil
}

// Put writes value under key without expiry.
func (s *RedisSlot) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	return nil
}

// Close releases the client.
func (s *RedisSlot) Close() error {
	return s.client.Close()
}
