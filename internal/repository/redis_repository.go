package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nikolayk812/storefront-demo/internal/domain"
	"github.com/nikolayk812/storefront-demo/internal/port"
	"github.com/redis/go-redis/v9"
)

const defaultRedisNamespace = "storefront"

// RedisCmdable is the subset of *redis.Client used for slot storage.
type RedisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisCartSlotRepository struct {
	client    RedisCmdable
	namespace string
}

func NewRedisCartSlot(client RedisCmdable, namespace string) port.CartSlotRepository {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = defaultRedisNamespace
	}

	return &redisCartSlotRepository{
		client:    client,
		namespace: namespace,
	}
}

func (r *redisCartSlotRepository) GetSlot(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	payload, err := r.client.Get(ctx, r.slotKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("client.Get: %w", err)
	}

	return payload, nil
}

func (r *redisCartSlotRepository) PutSlot(ctx context.Context, key string, payload []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	// no expiration, slots live until erased
	if err := r.client.Set(ctx, r.slotKey(key), payload, 0).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}

func (r *redisCartSlotRepository) DeleteSlot(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, fmt.Errorf("key is empty")
	}

	deleted, err := r.client.Del(ctx, r.slotKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("client.Del: %w", err)
	}

	return deleted > 0, nil
}

func (r *redisCartSlotRepository) slotKey(key string) string {
	return strings.Join([]string{r.namespace, "cart_slot", key}, ":")
}
