package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/respiview/respiview/internal/domain/model"
)

// KVClient is the minimal key-value surface the redis store needs. It exists
// so tests can substitute an in-memory client.
type KVClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// goRedisClient adapts *redis.Client to KVClient.
type goRedisClient struct {
	client *redis.Client
}

// NewRedisKVClient wraps a go-redis client.
func NewRedisKVClient(client *redis.Client) KVClient {
	return &goRedisClient{client: client}
}

func (c *goRedisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (c *goRedisClient) Set(ctx context.Context, key, value string) error {
	if err := c.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *goRedisClient) Del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (c *goRedisClient) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// RedisStore keeps the whole game history as one JSON array under a single
// key. Reads load the full array; writes overwrite it, which is safe because
// all mutations funnel through one service instance.
type RedisStore struct {
	client KVClient
	key    string
	mem    *MemStore
}

// NewRedisStore loads the store held under key. A malformed value is treated
// as an empty store.
func NewRedisStore(ctx context.Context, client KVClient, key string) (*RedisStore, error) {
	s := &RedisStore{client: client, key: key, mem: NewMemStore()}
	data, err := client.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if data != "" {
		// Best effort; corrupt payloads start empty per the store contract.
		_, _ = s.mem.Import(ctx, data)
	}
	return s, nil
}

func (s *RedisStore) persist(ctx context.Context) error {
	data, err := s.mem.Export(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := s.client.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// All returns every stored record in insertion order.
func (s *RedisStore) All(ctx context.Context) ([]model.GameRecord, error) {
	return s.mem.All(ctx)
}

// Get returns the record with the given id.
func (s *RedisStore) Get(ctx context.Context, id string) (model.GameRecord, error) {
	return s.mem.Get(ctx, id)
}

// Save upserts a record and persists the full array.
func (s *RedisStore) Save(ctx context.Context, rec model.GameRecord) error {
	if err := s.mem.Save(ctx, rec); err != nil {
		return err
	}
	return s.persist(ctx)
}

// Delete removes a record and persists the full array.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.mem.Delete(ctx, id); err != nil {
		return err
	}
	return s.persist(ctx)
}

// Clear removes every record and deletes the key.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.mem.Clear(ctx); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.key); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// Export renders the full store as a JSON array string.
func (s *RedisStore) Export(ctx context.Context) (string, error) {
	return s.mem.Export(ctx)
}

// Import replaces the store contents and persists the full array.
func (s *RedisStore) Import(ctx context.Context, data string) (int, error) {
	n, err := s.mem.Import(ctx, data)
	if err != nil {
		return 0, err
	}
	if err := s.persist(ctx); err != nil {
		return 0, err
	}
	return n, nil
}

// Count returns the number of stored records.
func (s *RedisStore) Count(ctx context.Context) int {
	return s.mem.Count(ctx)
}
