package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/yunusemrekoyun/fast-food-app/internal/interface/http"
	"github.com/yunusemrekoyun/fast-food-app/internal/interface/middleware"
)

// MenuModule is public: guests browse the menu too.
type MenuModule struct {
	Handler *handlers.MenuHandler
	Redis   *redis.Client
}

func NewMenuModule(h *handlers.MenuHandler, rdb *redis.Client) *MenuModule {
	return &MenuModule{Handler: h, Redis: rdb}
}

func (m *MenuModule) Name() string { return "menu" }

func (m *MenuModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIPAndPath(), nil)
	rg.GET("/menu", rl, m.Handler.List)
	rg.GET("/menu/:id", rl, m.Handler.Get)
	rg.GET("/categories", rl, m.Handler.Categories)
}
