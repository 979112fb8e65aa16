package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// RedisAddrEnv names an existing Redis (host:port) to test against. When
// unset, a container is started with testcontainers.
const RedisAddrEnv = "REDIS_TEST_ADDR"

var (
	redisOnce sync.Once
	redisOpts *redis.Options
	redisErr  error
)

// SetupTestRedis returns a client on a flushed Redis database. The test is
// skipped when no Redis is reachable.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	if os.Getenv(RedisAddrEnv) == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)
	}
	redisOnce.Do(func() {
		redisOpts, redisErr = testRedisOptions()
	})
	if redisErr != nil {
		t.Skipf("redis unavailable: %v", redisErr)
	}

	client := redis.NewClient(redisOpts)
	ctx, cancel := TestContext()
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func testRedisOptions() (opts *redis.Options, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if addr := os.Getenv(RedisAddrEnv); addr != "" {
		opts = &redis.Options{Addr: addr}
	} else {
		opts, err = startRedisContainer(ctx)
		if err != nil {
			return nil, err
		}
	}

	client := redis.NewClient(opts)
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return opts, nil
}

func startRedisContainer(ctx context.Context) (opts *redis.Options, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("start redis container: %v", r)
		}
	}()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		return nil, fmt.Errorf("start redis container: %w", err)
	}
	url, err := container.ConnectionString(ctx)
	if err != nil {
		return nil, err
	}
	return redis.ParseURL(url)
}
