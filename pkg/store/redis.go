package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyCommunity/pkg/logger"
	"github.com/PancyStudios/PancyCommunity/pkg/metrics"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of *redis.Client used by RedisStore
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore keeps each value under "<prefix>:<name>"
type RedisStore struct {
	client RedisClient
	prefix string
}

// NewRedisClient parses a redis:// URL into a client
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// NewRedisStore creates a store over client
func NewRedisStore(client RedisClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(name string) string {
	return s.prefix + ":" + name
}

// Load implements Store
func (s *RedisStore) Load(ctx context.Context, name string, v any) error {
	start := time.Now()
	defer metrics.ObserveStore(BackendRedis, "load", start)

	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		logger.Warn(fmt.Sprintf("Store load '%s' falló, se ignora: %v", name, err), "Store")
		metrics.StoreFailure(BackendRedis, "load")
		return nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn(fmt.Sprintf("Clave %s inválida, se usará el valor por defecto: %v", s.key(name), err), "Store")
	}
	return nil
}

// Save implements Store
func (s *RedisStore) Save(ctx context.Context, name string, v any) error {
	start := time.Now()
	defer metrics.ObserveStore(BackendRedis, "save", start)

	data, err := encode(name, v)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.key(name), data, 0).Err(); err != nil {
		logger.Warn(fmt.Sprintf("Store save '%s' falló, se ignora: %v", name, err), "Store")
		metrics.StoreFailure(BackendRedis, "save")
	}
	return nil
}
