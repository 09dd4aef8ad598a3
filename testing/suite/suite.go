package suite

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	containerLifetime = 2 * time.Minute
	startupTimeout    = 2 * time.Minute
)

const (
	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "7-alpine"
)

type Suite struct {
	*testing.T
	Logger *slog.Logger

	Redis *redis.Client
}

// NewLogger returns a logger for tests that do not need containers.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// New starts a throwaway Redis container. Tests are skipped when no docker
// daemon is reachable.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	t.Cleanup(cancel)

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker pool unavailable: %v", err)
	}

	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker daemon unreachable: %v", err)
	}

	pool.MaxWait = startupTimeout

	resource := startRedis(t, pool)
	client := connectRedis(ctx, t, pool, resource)

	t.Cleanup(func() {
		_ = client.Close()

		if err := pool.Purge(resource); err != nil {
			t.Errorf("failed to remove redis container: %v", err)
		}
	})

	return ctx, &Suite{
		T:      t,
		Logger: NewLogger(),
		Redis:  client,
	}
}

func startRedis(t *testing.T, pool *dockertest.Pool) *dockertest.Resource {
	t.Helper()

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}

	// A crashed test run must not leave the container behind.
	if err = resource.Expire(uint(containerLifetime.Seconds())); err != nil {
		t.Logf("failed to set container lifetime: %v", err)
	}

	return resource
}

// connectRedis waits until the container accepts commands and returns a
// client on an empty database.
func connectRedis(ctx context.Context, t *testing.T, pool *dockertest.Pool, resource *dockertest.Resource) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: resource.GetHostPort(redisPort),
	})

	if err := pool.Retry(func() error {
		return client.Ping(ctx).Err()
	}); err != nil {
		_ = client.Close()
		_ = pool.Purge(resource)
		t.Fatalf("redis never became ready: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("failed to flush redis: %v", err)
	}

	return client
}
