// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/Conte777/SaveVideoBot/config"
	"github.com/Conte777/SaveVideoBot/internal/domain"
	"github.com/Conte777/SaveVideoBot/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, metrics, telegram bot, http server)
		infrastructure.Module,

		// Domain (download pipeline)
		domain.Module,
	)
}
