package repository

import (
	"context"

	"github.com/yunusemrekoyun/fast-food-app/internal/domain/entity"
)

// MenuFilter narrows a menu listing. Empty strings mean "no filter".
type MenuFilter struct {
	CategoryID string
	Query      string
	Limit      int
}

type MenuRepository interface {
	List(ctx context.Context, f MenuFilter) ([]entity.MenuItem, error)
	GetByID(ctx context.Context, id string) (*entity.MenuItem, error)
	Upsert(ctx context.Context, item *entity.MenuItem) error
	ListCategories(ctx context.Context) ([]entity.Category, error)
	UpsertCategory(ctx context.Context, c *entity.Category) error
}

// MenuSearcher runs full-text menu queries against a search index.
type MenuSearcher interface {
	Search(ctx context.Context, f MenuFilter) ([]entity.MenuItem, error)
	Index(ctx context.Context, item entity.MenuItem) error
}
