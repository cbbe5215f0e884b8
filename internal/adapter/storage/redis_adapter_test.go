package storage

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/order-fulfillment/internal/core/domain"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedis_SetIdempotency(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	adapter := NewRedisAdapter(client)
	key := "order:request:redis-test"
	client.Del(ctx, key)
	defer client.Del(ctx, key)

	ok, err := adapter.SetIdempotency(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = adapter.SetIdempotency(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "second claim must fail")

	require.NoError(t, adapter.ReleaseIdempotency(ctx, key))
	ok, err = adapter.SetIdempotency(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok, "released key can be claimed again")
}

func TestRedis_FindBySKUCodes(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	adapter := NewRedisAdapter(client)
	client.Del(ctx, "stock:redis-test-a", "stock:redis-test-b", "stock:redis-test-missing")
	defer client.Del(ctx, "stock:redis-test-a", "stock:redis-test-b")

	require.NoError(t, adapter.SetStock(ctx, domain.InventoryRecord{SKUCode: "redis-test-a", Quantity: 5}))
	require.NoError(t, adapter.SetStock(ctx, domain.InventoryRecord{SKUCode: "redis-test-b", Quantity: 0}))

	records, err := adapter.FindBySKUCodes(ctx, []string{"redis-test-a", "redis-test-missing", "redis-test-b"})
	require.NoError(t, err)
	assert.Equal(t, []domain.InventoryRecord{
		{SKUCode: "redis-test-a", Quantity: 5},
		{SKUCode: "redis-test-b", Quantity: 0},
	}, records)

	stock, err := client.Get(ctx, "stock:redis-test-a").Int()
	require.NoError(t, err)
	assert.Equal(t, 5, stock, "reads must not change stock")
}
