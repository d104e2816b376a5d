package repository

import (
	"context"

	"github.com/yunusemrekoyun/fast-food-app/internal/domain/entity"
)

// AddressRepository is a per-document store for addresses. It offers no
// multi-document transaction, so callers enforcing cross-record invariants
// sequence their updates themselves.
type AddressRepository interface {
	Create(ctx context.Context, a *entity.Address) error
	GetByID(ctx context.Context, id string) (*entity.Address, error)
	// ListByUser returns the user's addresses, newest first, at most limit rows.
	ListByUser(ctx context.Context, userID string, limit int) ([]entity.Address, error)
	ListDefaults(ctx context.Context, userID string) ([]entity.Address, error)
	SetDefault(ctx context.Context, id string, isDefault bool) error
	Delete(ctx context.Context, id string) error
}
