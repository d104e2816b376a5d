package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/yunusemrekoyun/fast-food-app/internal/interface/http"
	"github.com/yunusemrekoyun/fast-food-app/internal/interface/middleware"
)

// AuthModule serves sign-up/sign-in/refresh and the signed-in account.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Auth    gin.HandlerFunc
	Redis   *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, auth gin.HandlerFunc, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *AuthModule) Name() string { return "auth" }

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	signUpLimiter := middleware.RateLimit(m.Redis, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	signInLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/sign-up", signUpLimiter, m.Handler.SignUp)
	rg.POST("/auth/sign-in", signInLimiter, m.Handler.SignIn)
	rg.POST("/auth/refresh", refreshLimiter, m.Handler.Refresh)

	account := rg.Group("/account")
	account.Use(m.Auth, middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		account.GET("", m.Handler.Account)
		account.DELETE("/session", m.Handler.SignOut)
		account.POST("/avatar", middleware.RateLimit(m.Redis, 10, time.Hour, middleware.KeyByUserID(), nil), m.Handler.UploadAvatar)
	}
}
