//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"tcubridge/internal/platform/config"
	platformredis "tcubridge/internal/platform/redis"
)

// RedisContainer is a throwaway Redis for stream sink tests, connected through
// the same platform client the CLI uses.
type RedisContainer struct {
	Container testcontainers.Container
	URL       string
	Client    *platformredis.Client
}

func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("redis connection string: %v", err)
	}

	cfg := config.Default().Redis
	cfg.URL = url
	client, err := platformredis.New(ctx, cfg)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return &RedisContainer{Container: container, URL: url, Client: client}
}

// Reset drops every key, including streams written by earlier tests.
func (r *RedisContainer) Reset(ctx context.Context) error {
	return r.Client.FlushAll(ctx).Err()
}

// StreamLen returns the number of entries in the stream at key.
func (r *RedisContainer) StreamLen(ctx context.Context, key string) (int64, error) {
	return r.Client.XLen(ctx, key).Result()
}
