package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yunusemrekoyun/fast-food-app/internal/domain/cart"
	"github.com/yunusemrekoyun/fast-food-app/internal/domain/entity"
	repo "github.com/yunusemrekoyun/fast-food-app/internal/domain/repository"
	"github.com/yunusemrekoyun/fast-food-app/pkg/helpers"
)

// MenuLookup resolves catalogue entries for cart additions.
type MenuLookup interface {
	GetByID(ctx context.Context, id string) (*entity.MenuItem, error)
}

var _ MenuLookup = (*MenuService)(nil)

// CartSummary is a cart together with its derived totals.
type CartSummary struct {
	Items      []cart.LineItem `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice float64         `json:"total_price"`
}

func summarize(c *cart.Cart) CartSummary {
	items := c.Items
	if items == nil {
		items = []cart.LineItem{}
	}
	return CartSummary{Items: items, TotalItems: c.TotalItems(), TotalPrice: c.TotalPrice()}
}

// CartService owns one cart per user. Mutations for the same user are
// serialized so concurrent requests cannot lose updates.
type CartService struct {
	Carts  repo.CartRepository
	Menu   MenuLookup // optional; when set, name, price and image come from the catalogue
	Logger *logrus.Logger

	locks *helpers.KeyedMutex
}

func NewCartService(carts repo.CartRepository, menu MenuLookup, logger *logrus.Logger) *CartService {
	return &CartService{Carts: carts, Menu: menu, Logger: logger, locks: helpers.NewKeyedMutex()}
}

func (s *CartService) Summary(ctx context.Context, userID string) (CartSummary, error) {
	c, err := s.Carts.Load(ctx, userID)
	if err != nil {
		return CartSummary{}, err
	}
	return summarize(c), nil
}

// Add puts one unit of the configuration into the user's cart.
func (s *CartService) Add(ctx context.Context, userID string, item cart.Item) (CartSummary, error) {
	item.ID = strings.TrimSpace(item.ID)
	if item.ID == "" {
		return CartSummary{}, &ValidationError{Fields: map[string]string{"id": "is required"}}
	}
	if s.Menu != nil {
		m, err := s.Menu.GetByID(ctx, item.ID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) || errors.Is(err, ErrMenuItemNotFound) {
				return CartSummary{}, ErrMenuItemNotFound
			}
			return CartSummary{}, err
		}
		item.Name, item.Price, item.ImageURL = m.Name, m.Price, m.ImageURL
	}
	if item.Price < 0 {
		return CartSummary{}, &ValidationError{Fields: map[string]string{"price": "must not be negative"}}
	}
	for _, c := range item.Customizations {
		if strings.TrimSpace(c.ID) == "" {
			return CartSummary{}, &ValidationError{Fields: map[string]string{"customizations": "id is required"}}
		}
		if c.Price < 0 {
			return CartSummary{}, &ValidationError{Fields: map[string]string{"customizations": "price must not be negative"}}
		}
	}
	return s.mutate(ctx, userID, func(c *cart.Cart) { c.AddItem(item) })
}

func (s *CartService) Remove(ctx context.Context, userID, id string, cs []cart.Customization) (CartSummary, error) {
	return s.mutate(ctx, userID, func(c *cart.Cart) { c.RemoveItem(id, cs) })
}

func (s *CartService) Increase(ctx context.Context, userID, id string, cs []cart.Customization) (CartSummary, error) {
	return s.mutate(ctx, userID, func(c *cart.Cart) { c.IncreaseQty(id, cs) })
}

func (s *CartService) Decrease(ctx context.Context, userID, id string, cs []cart.Customization) (CartSummary, error) {
	return s.mutate(ctx, userID, func(c *cart.Cart) { c.DecreaseQty(id, cs) })
}

// Clear empties the cart, e.g. after checkout.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()
	return s.Carts.Delete(ctx, userID)
}

func (s *CartService) mutate(ctx context.Context, userID string, fn func(*cart.Cart)) (CartSummary, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	c, err := s.Carts.Load(ctx, userID)
	if err != nil {
		return CartSummary{}, err
	}
	fn(c)
	if err := s.Carts.Save(ctx, userID, c); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Error("save cart failed")
		}
		return CartSummary{}, err
	}
	return summarize(c), nil
}
