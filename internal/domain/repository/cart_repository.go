package repository

import (
	"context"

	"github.com/yunusemrekoyun/fast-food-app/internal/domain/cart"
)

// CartRepository stores one cart per user. Load returns an empty cart when
// the user has none yet.
type CartRepository interface {
	Load(ctx context.Context, userID string) (*cart.Cart, error)
	Save(ctx context.Context, userID string, c *cart.Cart) error
	Delete(ctx context.Context, userID string) error
}
