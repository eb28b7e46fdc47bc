package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-user-identity/internal/container"
	handlers "github.com/oksasatya/go-user-identity/internal/interface/http"
	"github.com/oksasatya/go-user-identity/internal/interface/middleware"
	"github.com/oksasatya/go-user-identity/pkg/helpers"
)

// UserModule wires user HTTP handlers into routes.
// Public: registration, login, refresh.
// Protected: own profile, user lookup, search.
// Admin: listing, deactivate/activate, role changes.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	registerLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/users", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
		auth.GET("/users/search", m.Handler.Search)
		auth.GET("/users/:id", m.Handler.GetUser)
		auth.PUT("/users/:id", m.Handler.UpdateUser)
		auth.PUT("/users/:id/password", m.Handler.ChangePassword)
		auth.POST("/users/:id/avatar", m.Handler.UploadAvatar)
	}

	admin := auth.Group("/")
	admin.Use(middleware.RequireRole("admin"))
	{
		admin.GET("/users", m.Handler.GetUsers)
		admin.DELETE("/users/:id", m.Handler.DeleteUser)
		admin.POST("/users/:id/activate", m.Handler.ActivateUser)
		admin.PUT("/users/:id/role", m.Handler.ChangeRole)
	}
}
