package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"storepilot/internal/domain/entity"
	"storepilot/internal/infrastructure/cache"
)

func TestMemory(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	c := cache.NewMemory(time.Minute)

	_, ok := c.Get(ctx, "trends:pets")
	rq.False(ok)

	products := []entity.Product{entity.NewProduct("Lick Mat", "pets", 2, 10)}
	c.Set(ctx, "trends:pets", products)

	products[0].Name = "mutated"

	got, ok := c.Get(ctx, "trends:pets")
	rq.True(ok)
	rq.Equal("Lick Mat", got[0].Name)
}

func TestMemoryExpires(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	c := cache.NewMemory(20 * time.Millisecond)
	c.Set(ctx, "k", []entity.Product{{Name: "x"}})

	rq.Eventually(func() bool {
		_, ok := c.Get(ctx, "k")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestRedisUnavailableIsMiss(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := cache.NewRedis(client, time.Minute)
	c.Set(ctx, "trends:pets", []entity.Product{{Name: "x"}})

	_, ok := c.Get(ctx, "trends:pets")
	rq.False(ok)
}
