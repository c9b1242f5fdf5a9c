package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Checkout lock: lock:checkout:{userId} -> 1 while a checkout runs.
	keyCheckoutLock = "lock:checkout:%s"

	// Idempotency record: checkout:order:{cartId} -> order id created from
	// that cart, so a retried commit of the same cart can return the
	// existing order instead of reporting an empty cart. Keying by cart id
	// keeps an unrelated empty-cart checkout from replaying an old order.
	keyCheckoutOrder = "checkout:order:%s"
)

var (
	TTLCheckoutLock  = 30 * time.Second
	TTLCheckoutOrder = 24 * time.Hour
)

func New(addr string) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr})
}

// AcquireCheckoutLock takes the per-user checkout lock. ok is false when a
// concurrent checkout already holds it. A nil client always grants the lock.
func AcquireCheckoutLock(ctx context.Context, rdb *redis.Client, userID string) (bool, error) {
	if rdb == nil {
		return true, nil
	}
	return rdb.SetNX(ctx, fmt.Sprintf(keyCheckoutLock, userID), 1, TTLCheckoutLock).Result()
}

// ReleaseCheckoutLock drops the per-user checkout lock.
func ReleaseCheckoutLock(ctx context.Context, rdb *redis.Client, userID string) {
	if rdb == nil {
		return
	}
	rdb.Del(ctx, fmt.Sprintf(keyCheckoutLock, userID))
}

// RecordCheckoutOrder remembers the order created from a committed cart.
func RecordCheckoutOrder(ctx context.Context, rdb *redis.Client, cartID, orderID string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Set(ctx, fmt.Sprintf(keyCheckoutOrder, cartID), orderID, TTLCheckoutOrder).Err()
}

// LookupCheckoutOrder returns the order id created from the given cart, or
// "" when none is recorded.
func LookupCheckoutOrder(ctx context.Context, rdb *redis.Client, cartID string) (string, error) {
	if rdb == nil {
		return "", nil
	}
	id, err := rdb.Get(ctx, fmt.Sprintf(keyCheckoutOrder, cartID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return id, err
}
