package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yunusemrekoyun/fast-food-app/internal/domain/cart"
	"github.com/yunusemrekoyun/fast-food-app/internal/domain/repository"
	"github.com/yunusemrekoyun/fast-food-app/pkg/helpers"
)

func cartKey(userID string) string {
	return helpers.RedisKey("cart", userID)
}

// CartStore keeps each cart as a JSON document that expires after ttl of
// inactivity. A ttl of 0 keeps carts until they are cleared.
type CartStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCartStore(rdb *redis.Client, ttl time.Duration) *CartStore {
	return &CartStore{rdb: rdb, ttl: ttl}
}

func (s *CartStore) Load(ctx context.Context, userID string) (*cart.Cart, error) {
	c := cart.New()
	found, err := helpers.GetJSON(ctx, s.rdb, cartKey(userID), c)
	if err != nil {
		return nil, err
	}
	if !found || c.Items == nil {
		return cart.New(), nil
	}
	return c, nil
}

func (s *CartStore) Save(ctx context.Context, userID string, c *cart.Cart) error {
	if len(c.Items) == 0 {
		return s.Delete(ctx, userID)
	}
	return helpers.SetJSON(ctx, s.rdb, cartKey(userID), c, s.ttl)
}

func (s *CartStore) Delete(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, cartKey(userID)).Err()
}

var _ repository.CartRepository = (*CartStore)(nil)
