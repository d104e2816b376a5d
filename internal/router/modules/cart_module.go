package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/yunusemrekoyun/fast-food-app/internal/interface/http"
	"github.com/yunusemrekoyun/fast-food-app/internal/interface/middleware"
)

type CartModule struct {
	Handler *handlers.CartHandler
	Auth    gin.HandlerFunc
	Redis   *redis.Client
}

func NewCartModule(h *handlers.CartHandler, auth gin.HandlerFunc, rdb *redis.Client) *CartModule {
	return &CartModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *CartModule) Name() string { return "cart" }

func (m *CartModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/cart")
	g.Use(m.Auth, middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByUserID(), nil))
	{
		g.GET("", m.Handler.Get)
		g.DELETE("", m.Handler.Clear)
		g.POST("/items", m.Handler.Add)
		g.POST("/items/remove", m.Handler.Remove)
		g.POST("/items/increase", m.Handler.Increase)
		g.POST("/items/decrease", m.Handler.Decrease)
	}
}
