package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/yunusemrekoyun/fast-food-app/internal/interface/http"
	"github.com/yunusemrekoyun/fast-food-app/internal/interface/middleware"
)

type AddressModule struct {
	Handler *handlers.AddressHandler
	Auth    gin.HandlerFunc
	Redis   *redis.Client
}

func NewAddressModule(h *handlers.AddressHandler, auth gin.HandlerFunc, rdb *redis.Client) *AddressModule {
	return &AddressModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *AddressModule) Name() string { return "addresses" }

func (m *AddressModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/addresses")
	g.Use(m.Auth, middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		g.GET("", m.Handler.List)
		g.POST("", m.Handler.Create)
		g.GET("/default", m.Handler.Default)
		g.PUT("/:id/default", m.Handler.SetDefault)
		g.DELETE("/:id", m.Handler.Delete)
	}
}
