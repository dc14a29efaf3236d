package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MalithGihan/protocol-extract/pkg/types"
)

// Redis stores each extraction as JSON under {prefix}{id}. Entries carry a
// TTL so Redis expires them on its own; EvictOlderThan covers entries
// written with a longer TTL than the current setting.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type RedisOption func(*Redis)

func WithRedisPrefix(prefix string) RedisOption {
	return func(s *Redis) { s.prefix = prefix }
}

// WithTTL sets the key expiry; 0 keeps keys until evicted.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *Redis) { s.ttl = ttl }
}

func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	s := &Redis{client: client, prefix: "protocol-extract:"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Redis) key(id string) string { return s.prefix + id }

func (s *Redis) Put(ctx context.Context, ex types.Extraction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.client == nil {
		return errors.New("redis client is nil")
	}
	if ex.ID == "" {
		return errors.New("extraction id is empty")
	}
	b, err := json.Marshal(ex)
	if err != nil {
		return fmt.Errorf("encode extraction: %w", err)
	}
	return s.client.Set(ctx, s.key(ex.ID), b, s.ttl).Err()
}

func (s *Redis) Get(ctx context.Context, id string) (types.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return types.Extraction{}, err
	}
	if s.client == nil {
		return types.Extraction{}, errors.New("redis client is nil")
	}
	b, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.Extraction{}, notFound(id)
	}
	if err != nil {
		return types.Extraction{}, err
	}
	var ex types.Extraction
	if err := json.Unmarshal(b, &ex); err != nil {
		return types.Extraction{}, fmt.Errorf("decode %s: %w", id, err)
	}
	return ex, nil
}

func (s *Redis) EvictOlderThan(ctx context.Context, age time.Duration) (int, error) {
	if s.client == nil {
		return 0, errors.New("redis client is nil")
	}
	now := time.Now()
	n := 0
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		b, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		var ex types.Extraction
		if json.Unmarshal(b, &ex) != nil || !expired(ex, now, age) {
			continue
		}
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return n, err
		}
		n++
	}
	return n, iter.Err()
}
