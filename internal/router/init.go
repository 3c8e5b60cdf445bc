package router

import (
	"github.com/oksasatya/go-account-service/internal/container"
	handlers "github.com/oksasatya/go-account-service/internal/interface/http"
	"github.com/oksasatya/go-account-service/internal/router/modules"
)

// InitModules registers every feature module enabled by the container.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config

	userHandler := handlers.NewUserHandler(c.UserService, c.Logger)
	r.Add(modules.NewUserModule(userHandler, c.JWT, cfg.TokenHeader))

	if c.Assets != nil {
		r.Add(modules.NewAssetModule(handlers.NewAssetHandler(c.Assets, c.Logger), c.JWT, cfg.TokenQueryParam))
	}
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
