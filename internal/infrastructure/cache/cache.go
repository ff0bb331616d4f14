// Package cache хранит результаты сканирования трендов между прогонами.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	jsoniter "github.com/json-iterator/go"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"storepilot/internal/domain/entity"
	"storepilot/pkg/contextx"
	"storepilot/pkg/logx"
)

var (
	logger = contextx.LoggerFromContextOrDefault         //nolint:gochecknoglobals
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals
)

const keyPrefix = "storepilot:"

// Memory это in-process кэш, по умолчанию.
type Memory struct {
	c *gocache.Cache
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{c: gocache.New(ttl, 2*ttl)}
}

func (m *Memory) Get(_ context.Context, key string) ([]entity.Product, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false
	}

	products, ok := v.([]entity.Product)

	return clone(products), ok
}

func (m *Memory) Set(_ context.Context, key string, products []entity.Product) {
	m.c.SetDefault(key, clone(products))
}

// clone keeps callers from mutating the cached slice.
func clone(products []entity.Product) []entity.Product {
	if products == nil {
		return nil
	}

	out := make([]entity.Product, len(products))
	copy(out, products)

	return out
}

// Redis shares the cache between the API, the worker and the watcher.
// Redis errors degrade to a miss.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) ([]entity.Product, bool) {
	b, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger(ctx).Warn("trend cache read failed", slog.String("key", key), logx.Error(err))
		}

		return nil, false
	}

	var products []entity.Product
	if err := json.Unmarshal(b, &products); err != nil {
		logger(ctx).Warn("trend cache entry unreadable", slog.String("key", key), logx.Error(err))
		return nil, false
	}

	return products, true
}

func (r *Redis) Set(ctx context.Context, key string, products []entity.Product) {
	b, err := json.Marshal(products)
	if err != nil {
		logger(ctx).Warn("trend cache encode failed", logx.Error(err))
		return
	}

	if err := r.client.Set(ctx, keyPrefix+key, b, r.ttl).Err(); err != nil {
		logger(ctx).Warn("trend cache write failed", slog.String("key", key), logx.Error(err))
	}
}
