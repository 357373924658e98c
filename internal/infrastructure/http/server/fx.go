package server

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/SaveVideoBot/config"
)

// Module provides the HTTP server for fx dependency injection
var Module = fx.Module("http-server",
	fx.Provide(provideServer),
	fx.Provide(NewHealthHandler),
	fx.Invoke(registerLifecycle),
)

func provideServer(cfg *config.ServiceConfig, logger zerolog.Logger) *Server {
	return NewServer(cfg.Name, cfg.Port, logger.With().Str("component", "http").Logger())
}

// registerLifecycle registers routes and server lifecycle hooks
func registerLifecycle(lc fx.Lifecycle, srv *Server, health *HealthHandler) {
	srv.RegisterMetrics()
	srv.RegisterHealth(health)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
