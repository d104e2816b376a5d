package router

import (
	"context"

	"github.com/yunusemrekoyun/fast-food-app/internal/application"
	"github.com/yunusemrekoyun/fast-food-app/internal/container"
	repo "github.com/yunusemrekoyun/fast-food-app/internal/domain/repository"
	"github.com/yunusemrekoyun/fast-food-app/internal/infrastructure/memory"
	pginfra "github.com/yunusemrekoyun/fast-food-app/internal/infrastructure/postgres"
	"github.com/yunusemrekoyun/fast-food-app/internal/infrastructure/redisstore"
	"github.com/yunusemrekoyun/fast-food-app/internal/infrastructure/search"
	handlers "github.com/yunusemrekoyun/fast-food-app/internal/interface/http"
	"github.com/yunusemrekoyun/fast-food-app/internal/interface/middleware"
	"github.com/yunusemrekoyun/fast-food-app/internal/router/modules"
	"github.com/yunusemrekoyun/fast-food-app/pkg/helpers"
	tpl "github.com/yunusemrekoyun/fast-food-app/pkg/mailer/templates"
)

// Services groups the application services built from the container.
type Services struct {
	Auth      *application.AuthService
	Menu      *application.MenuService
	Addresses *application.AddressService
	Cart      *application.CartService
	Sessions  repo.SessionRepository
}

// BuildMenuService wires the menu catalogue and, when Elasticsearch is
// configured, its search index.
func BuildMenuService() *application.MenuService {
	cfg := container.GetConfig()
	svc := application.NewMenuService(pginfra.NewMenuRepository(container.GetPGPool()), nil, container.GetLogger())
	if es := container.GetES(); es != nil {
		svc.Searcher = search.NewMenuIndex(es, cfg.ESMenuIndex)
	}
	return svc
}

func buildCartStore() repo.CartRepository {
	cfg := container.GetConfig()
	if cfg.CartBackend == "redis" && container.GetRedis() != nil {
		return redisstore.NewCartStore(container.GetRedis(), cfg.CartTTL)
	}
	return memory.NewCartStore()
}

// BuildServices constructs every application service from the container.
func BuildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	sessions := redisstore.NewSessionStore(container.GetRedis())

	auth := application.NewAuthService(pginfra.NewUserRepository(pool), sessions, container.GetJWT(), logger)
	auth.AvatarBaseURL = cfg.AvatarBaseURL
	auth.Branding = tpl.Branding{AppName: cfg.AppName, SupportURL: cfg.SupportURL, LogoURL: cfg.LogoURL}
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		auth.Uploader = helpers.NewGCSUploader(gcs, cfg.GCSBucket)
	}
	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled {
		auth.Mail = pub
	}

	menu := BuildMenuService()
	return Services{
		Auth:      auth,
		Menu:      menu,
		Addresses: application.NewAddressService(pginfra.NewAddressRepository(pool), logger),
		Cart:      application.NewCartService(buildCartStore(), menu, logger),
		Sessions:  sessions,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	svc := BuildServices()

	authMW := middleware.Auth(svc.Sessions, container.GetJWT())

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, logger, cfg.CookieDomain, cfg.CookieSecure), authMW, rdb))
	r.Add(modules.NewMenuModule(handlers.NewMenuHandler(svc.Menu, logger), rdb))
	r.Add(modules.NewAddressModule(handlers.NewAddressHandler(svc.Addresses, logger), authMW, rdb))
	r.Add(modules.NewCartModule(handlers.NewCartHandler(svc.Cart, logger), authMW, rdb))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}

	r.Logger = logger
	if pool := container.GetPGPool(); pool != nil {
		r.AddHealthCheck("postgres", pool.Ping)
	}
	if rdb != nil {
		r.AddHealthCheck("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}
	if es := container.GetES(); es != nil {
		r.AddHealthCheck("elasticsearch", func(ctx context.Context) error { return helpers.PingES(ctx, es) })
	}
}
