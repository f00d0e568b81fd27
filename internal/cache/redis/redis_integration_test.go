//go:build integration

package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var redisAddr string

// TestMain starts a disposable Redis unless RECIPE_SERVICE_REDIS_ADDR points at one.
func TestMain(m *testing.M) {
	ctx := context.Background()
	redisAddr = os.Getenv("RECIPE_SERVICE_REDIS_ADDR")

	var container testcontainers.Container
	if redisAddr == "" {
		c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7-alpine",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
			},
			Started: true,
		})
		if err != nil {
			fmt.Printf("Failed to start redis container: %v\n", err)
			os.Exit(1)
		}
		container = c
		endpoint, err := c.Endpoint(ctx, "")
		if err != nil {
			fmt.Printf("Failed to get redis endpoint: %v\n", err)
			os.Exit(1)
		}
		redisAddr = endpoint
	}

	code := m.Run()
	if container != nil {
		_ = container.Terminate(ctx)
	}
	os.Exit(code)
}

func TestRedisIntegration_InvalidateScansEveryPage(t *testing.T) {
	ctx := context.Background()
	c := New(Options{Addr: redisAddr})
	defer c.Close()
	require.NoError(t, c.Ping(ctx))

	for i := 0; i < 1000; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("recipes:list:v2:%04d", i), []byte("{}"), time.Minute))
	}
	require.NoError(t, c.Set(ctx, "session:keep", []byte("1"), time.Minute))

	require.NoError(t, c.Invalidate(ctx, "recipes:list:*"))

	for i := 0; i < 1000; i += 97 {
		_, ok, err := c.Get(ctx, fmt.Sprintf("recipes:list:v2:%04d", i))
		require.NoError(t, err)
		assert.False(t, ok)
	}
	_, ok, err := c.Get(ctx, "session:keep")
	require.NoError(t, err)
	assert.True(t, ok, "keys outside the pattern survive")
}
