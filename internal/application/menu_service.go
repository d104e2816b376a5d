package application

import (
	"context"
	"errors"
	"expvar"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yunusemrekoyun/fast-food-app/internal/domain/entity"
	repo "github.com/yunusemrekoyun/fast-food-app/internal/domain/repository"
)

const (
	// DefaultMenuLimit fills a two-column grid on a phone screen.
	DefaultMenuLimit = 6
	MaxMenuLimit     = 50
)

var (
	menuQueries         = expvar.NewInt("menu_queries")
	menuSearchFallbacks = expvar.NewInt("menu_search_fallbacks")
)

// MenuQuery is what a client asks for. Empty Category or Query means no filter.
type MenuQuery struct {
	Category string
	Query    string
	Limit    int
}

// Filter normalizes the query into repository terms.
func (q MenuQuery) Filter() repo.MenuFilter {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultMenuLimit
	}
	if limit > MaxMenuLimit {
		limit = MaxMenuLimit
	}
	return repo.MenuFilter{
		CategoryID: strings.TrimSpace(q.Category),
		Query:      strings.TrimSpace(q.Query),
		Limit:      limit,
	}
}

type MenuService struct {
	Repo     repo.MenuRepository
	Searcher repo.MenuSearcher // optional
	Logger   *logrus.Logger
}

func NewMenuService(r repo.MenuRepository, searcher repo.MenuSearcher, logger *logrus.Logger) *MenuService {
	return &MenuService{Repo: r, Searcher: searcher, Logger: logger}
}

// List runs text queries against the search index when one is configured and
// falls back to the database if the index fails.
func (s *MenuService) List(ctx context.Context, q MenuQuery) ([]entity.MenuItem, error) {
	menuQueries.Add(1)
	f := q.Filter()
	if f.Query != "" && s.Searcher != nil {
		items, err := s.Searcher.Search(ctx, f)
		if err == nil {
			return items, nil
		}
		menuSearchFallbacks.Add(1)
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("query", f.Query).Warn("menu search failed; falling back to database")
		}
	}
	return s.Repo.List(ctx, f)
}

// GetByID returns a catalogue entry or ErrMenuItemNotFound.
func (s *MenuService) GetByID(ctx context.Context, id string) (*entity.MenuItem, error) {
	item, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *MenuService) Categories(ctx context.Context) ([]entity.Category, error) {
	return s.Repo.ListCategories(ctx)
}

// Save upserts an item in the catalogue and mirrors it into the search index.
// An indexing failure is logged, not returned: the database is authoritative.
func (s *MenuService) Save(ctx context.Context, item *entity.MenuItem) error {
	if err := requireFields(map[string]string{"id": item.ID, "name": item.Name}); err != nil {
		return err
	}
	if item.Price < 0 {
		return &ValidationError{Fields: map[string]string{"price": "must not be negative"}}
	}
	if err := s.Repo.Upsert(ctx, item); err != nil {
		return err
	}
	if s.Searcher != nil {
		if err := s.Searcher.Index(ctx, *item); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("menu_item_id", item.ID).Warn("menu index failed")
		}
	}
	return nil
}

func (s *MenuService) SaveCategory(ctx context.Context, c *entity.Category) error {
	if err := requireFields(map[string]string{"id": c.ID, "name": c.Name}); err != nil {
		return err
	}
	return s.Repo.UpsertCategory(ctx, c)
}
