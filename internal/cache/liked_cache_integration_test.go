//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) (*redisv9.Client, func()) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil || container == nil {
		t.Skipf("Docker not available, skipping integration test: %v", err)
		return nil, func() {}
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	client := redisv9.NewClient(&redisv9.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	return client, func() {
		_ = client.Close()
		_ = container.Terminate(ctx)
	}
}

func TestLikedCacheRoundTrip(t *testing.T) {
	client, cleanup := setupRedis(t)
	if client == nil {
		return
	}
	defer cleanup()

	ctx := context.Background()
	c := NewLikedCache(client, time.Minute, time.Second)

	if _, ok, err := c.GetLiked(ctx, 7); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := c.SetLiked(ctx, 7, []uint{3, 9}); err != nil {
		t.Fatal(err)
	}
	ids, ok, err := c.GetLiked(ctx, 7)
	if err != nil || !ok || len(ids) != 2 || ids[1] != 9 {
		t.Fatalf("unexpected cache read %v %v %v", ids, ok, err)
	}

	if err := c.Invalidate(ctx, 7); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.GetLiked(ctx, 7); ok {
		t.Fatal("invalidate left the set cached")
	}
	if dirty, err := c.IsDirty(ctx, 7); err != nil || !dirty {
		t.Fatalf("expected dirty marker, got %v %v", dirty, err)
	}
}
