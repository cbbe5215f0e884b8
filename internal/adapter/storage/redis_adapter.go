package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/order-fulfillment/internal/core/domain"
)

const (
	stockKeyPrefix    = "stock:"
	idempotencyKeyTTL = 24 * time.Hour
)

// RedisAdapter keeps idempotency keys for the order service and can serve as
// the inventory ledger, one string key per SKU.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (r *RedisAdapter) ReleaseIdempotency(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// FindBySKUCodes reads all requested keys with a single MGET.
func (r *RedisAdapter) FindBySKUCodes(ctx context.Context, skuCodes []string) ([]domain.InventoryRecord, error) {
	if len(skuCodes) == 0 {
		return nil, nil
	}

	keys := make([]string, len(skuCodes))
	for i, code := range skuCodes {
		keys[i] = stockKeyPrefix + code
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget stock: %w", err)
	}

	records := make([]domain.InventoryRecord, 0, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("stock %q: unexpected type %T", skuCodes[i], v)
		}
		qty, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("stock %q: %w", skuCodes[i], err)
		}
		records = append(records, domain.InventoryRecord{SKUCode: skuCodes[i], Quantity: qty})
	}
	return records, nil
}

func (r *RedisAdapter) SetStock(ctx context.Context, record domain.InventoryRecord) error {
	key := stockKeyPrefix + record.SKUCode
	return r.client.Set(ctx, key, record.Quantity, 0).Err()
}
