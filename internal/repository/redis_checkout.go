package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ecerdem/movie-ticket-booking/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCheckoutStore holds pending checkouts as expiring JSON values keyed by
// the owning user, so the payment gateway's return leg can resume a checkout
// without the caller re-supplying seat ids.
type RedisCheckoutStore struct {
	client redis.UniversalClient
}

func NewRedisCheckoutStore(client redis.UniversalClient) *RedisCheckoutStore {
	return &RedisCheckoutStore{
		client: client,
	}
}

func (r *RedisCheckoutStore) Put(ctx context.Context, checkout domain.PendingCheckout, ttl time.Duration) error {
	checkout.CreatedAt = time.Now()

	data, err := json.Marshal(checkout)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, pendingCheckoutKey(checkout.UserID), data, ttl).Err()
}

func (r *RedisCheckoutStore) Get(ctx context.Context, userID int) (*domain.PendingCheckout, error) {
	data, err := r.client.Get(ctx, pendingCheckoutKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNoPendingCheckout
		}
		return nil, err
	}

	var checkout domain.PendingCheckout

	err = json.Unmarshal(data, &checkout)
	if err != nil {
		return nil, err
	}

	return &checkout, nil
}

func (r *RedisCheckoutStore) Delete(ctx context.Context, userID int) error {
	return r.client.Del(ctx, pendingCheckoutKey(userID)).Err()
}

func pendingCheckoutKey(userID int) string {
	return fmt.Sprintf("pending_checkout:%d", userID)
}
