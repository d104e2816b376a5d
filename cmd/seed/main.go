package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"

	"github.com/yunusemrekoyun/fast-food-app/config"
	"github.com/yunusemrekoyun/fast-food-app/internal/application"
	"github.com/yunusemrekoyun/fast-food-app/internal/domain/entity"
	repo "github.com/yunusemrekoyun/fast-food-app/internal/domain/repository"
	pginfra "github.com/yunusemrekoyun/fast-food-app/internal/infrastructure/postgres"
	"github.com/yunusemrekoyun/fast-food-app/internal/infrastructure/search"
	"github.com/yunusemrekoyun/fast-food-app/pkg/helpers"
)

var categories = []entity.Category{
	{ID: "burgers", Name: "Burgers", Description: "Grilled to order"},
	{ID: "pizzas", Name: "Pizzas", Description: "Stone baked"},
	{ID: "wraps", Name: "Wraps", Description: "Rolled fresh"},
	{ID: "sides", Name: "Sides", Description: "Something on the side"},
	{ID: "drinks", Name: "Drinks", Description: "Cold and fizzy"},
}

var items = []entity.MenuItem{
	{ID: "classic-cheeseburger", Name: "Classic Cheeseburger", Price: 25.99, Description: "Beef patty, cheddar, lettuce and tomato", Calories: 550, Protein: 25, Rating: 4.5, Type: "non-veg", CategoryID: "burgers"},
	{ID: "bbq-bacon-burger", Name: "BBQ Bacon Burger", Price: 27.5, Description: "Smoky BBQ sauce, crispy bacon and onion rings", Calories: 720, Protein: 32, Rating: 4.7, Type: "non-veg", CategoryID: "burgers"},
	{ID: "veggie-burger", Name: "Veggie Burger", Price: 19.99, Description: "Chickpea patty with avocado", Calories: 430, Protein: 14, Rating: 4.2, Type: "veg", CategoryID: "burgers"},
	{ID: "pepperoni-pizza", Name: "Pepperoni Pizza", Price: 30.99, Description: "Loaded with pepperoni and mozzarella", Calories: 980, Protein: 40, Rating: 4.6, Type: "non-veg", CategoryID: "pizzas"},
	{ID: "margherita-pizza", Name: "Margherita Pizza", Price: 24.5, Description: "Tomato, mozzarella and basil", Calories: 850, Protein: 32, Rating: 4.4, Type: "veg", CategoryID: "pizzas"},
	{ID: "chicken-caesar-wrap", Name: "Chicken Caesar Wrap", Price: 21.5, Description: "Grilled chicken, romaine and caesar dressing", Calories: 490, Protein: 34, Rating: 4.3, Type: "non-veg", CategoryID: "wraps"},
	{ID: "falafel-wrap", Name: "Falafel Wrap", Price: 18.99, Description: "Falafel, hummus and pickled vegetables", Calories: 510, Protein: 17, Rating: 4.1, Type: "veg", CategoryID: "wraps"},
	{ID: "loaded-fries", Name: "Loaded Fries", Price: 9.99, Description: "Fries with cheese sauce and jalapenos", Calories: 610, Protein: 11, Rating: 4.0, Type: "veg", CategoryID: "sides"},
	{ID: "onion-rings", Name: "Onion Rings", Price: 7.5, Description: "Beer battered", Calories: 420, Protein: 6, Rating: 3.9, Type: "veg", CategoryID: "sides"},
	{ID: "cola", Name: "Cola", Price: 3.5, Description: "Ice cold", Calories: 140, Rating: 4.0, Type: "veg", CategoryID: "drinks"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	menu := application.NewMenuService(pginfra.NewMenuRepository(pool), nil, logger)
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err == nil {
			idx := search.NewMenuIndex(es, cfg.ESMenuIndex)
			if err = idx.EnsureIndex(ctx); err == nil {
				menu.Searcher = idx
			}
		}
		if err != nil {
			logger.WithError(err).Warn("Elasticsearch unavailable; seeding database only")
		}
	}

	for i := range categories {
		if err := menu.SaveCategory(ctx, &categories[i]); err != nil {
			log.Fatalf("failed to seed category %s: %v", categories[i].ID, err)
		}
	}
	for i := range items {
		if err := menu.Save(ctx, &items[i]); err != nil {
			log.Fatalf("failed to seed menu item %s: %v", items[i].ID, err)
		}
	}
	logger.Infof("seeded %d categories and %d menu items", len(categories), len(items))

	email := "demo@fastfood.local"
	password := "password123"
	name := "Demo User"

	users := pginfra.NewUserRepository(pool)
	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		logger.Infof("demo user already present: id=%s email=%s", existing.ID, email)
		return
	case !errors.Is(err, repo.ErrNotFound):
		log.Fatalf("failed to look up demo user: %v", err)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	u := &entity.User{
		Email:     email,
		Password:  hash,
		Name:      name,
		AvatarURL: helpers.InitialsAvatarURL(cfg.AvatarBaseURL, name),
	}
	if err := users.Create(ctx, u); err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	logger.Infof("seeded user: id=%s email=%s password=%s", u.ID, email, password)
}
