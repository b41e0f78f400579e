package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nodewire/nodewire/pkg/document"
	"github.com/nodewire/nodewire/pkg/errors"
	"github.com/nodewire/nodewire/pkg/observability"
)

// RedisConfig configures the redis backend.
type RedisConfig struct {
	// Addr is the redis server address, host:port.
	Addr string

	// Password is optional.
	Password string

	// DB selects the redis database number.
	DB int

	// TTL is the entry lifetime. Zero means DefaultTTL; negative
	// disables expiry.
	TTL time.Duration

	// Prefix namespaces the keys. Defaults to "nodewire:doc:".
	Prefix string
}

// RedisStore shares documents across server instances through redis.
// Expiry rides on redis TTLs instead of entry timestamps.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if ttl < 0 {
		ttl = 0
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "nodewire:doc:"
	}
	return &RedisStore{client: client, ttl: ttl, prefix: prefix}, nil
}

func (s *RedisStore) redisKey(key string) string {
	return s.prefix + key
}

func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, error) {
	if err := errors.ValidateStoreKey(key); err != nil {
		return nil, err
	}

	data, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if err == redis.Nil {
		observability.Store().OnStoreGet(ctx, "redis", false)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parse document entry: %w", err)
	}
	observability.Store().OnStoreGet(ctx, "redis", true)
	return &e, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, doc document.Document) error {
	if err := errors.ValidateStoreKey(key); err != nil {
		return err
	}

	e := Entry{
		Key:       key,
		Document:  doc,
		UpdatedAt: time.Now(),
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal document entry: %w", err)
	}

	if err := s.client.Set(ctx, s.redisKey(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	observability.Store().OnStorePut(ctx, "redis", len(doc.Nodes))
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := errors.ValidateStoreKey(key); err != nil {
		return err
	}

	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	observability.Store().OnStoreDelete(ctx, "redis")
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
