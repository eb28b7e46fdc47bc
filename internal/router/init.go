package router

import (
	userapp "github.com/oksasatya/go-user-identity/internal/application"
	"github.com/oksasatya/go-user-identity/internal/container"
	domainsvc "github.com/oksasatya/go-user-identity/internal/domain/service"
	pginfra "github.com/oksasatya/go-user-identity/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/go-user-identity/internal/interface/http"
	"github.com/oksasatya/go-user-identity/internal/router/modules"
)

// InitModules wires the application modules from the container singletons
// and registers them with the router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	repo := pginfra.NewUserRepository(container.GetPGPool())
	domain := domainsvc.NewUserDomainService(repo)

	service := userapp.NewService(
		repo,
		domain,
		container.GetJWT(),
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetRedis(),
		container.GetLogger(),
		container.GetES(),
		cfg.ESUsersIndex,
		container.GetEventsPub(),
		container.GetMailPub(),
	)

	userHandler := handlers.NewUserHandler(service, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	authHandler := handlers.NewAuthHandler(service, container.GetLogger())

	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
