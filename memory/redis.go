package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps all records of a colony in one hash, field per creep.
// Several sidecars can share a Redis instance by using distinct prefixes.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(addr, prefix string) (*RedisStore, error) {
	if addr == "" {
		return nil, fmt.Errorf("empty redis address")
	}
	if prefix == "" {
		prefix = "burrow"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisStore{client: client, key: prefix + ":creeps"}, nil
}

// Ping checks connectivity; used at startup so a bad address fails fast.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Get(ctx context.Context, name string) (Creep, bool, error) {
	raw, err := s.client.HGet(ctx, s.key, name).Result()
	if errors.Is(err, redis.Nil) {
		return Creep{}, false, nil
	}
	if err != nil {
		return Creep{}, false, fmt.Errorf("get %s: %w", name, err)
	}
	var rec Creep
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return Creep{}, false, fmt.Errorf("decode %s: %w", name, err)
	}
	return rec, true, nil
}

func (s *RedisStore) Put(ctx context.Context, name string, rec Creep) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := s.client.HSet(ctx, s.key, name, raw).Err(); err != nil {
		return fmt.Errorf("put %s: %w", name, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := s.client.HDel(ctx, s.key, name).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

func (s *RedisStore) Names(ctx context.Context) ([]string, error) {
	names, err := s.client.HKeys(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
