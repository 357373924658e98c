package logger

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/SaveVideoBot/config"
)

// Module provides logger for fx dependency injection
var Module = fx.Module("logger",
	fx.Provide(provideLogger),
)

// provideLogger creates logger from config and tags it with the service name
func provideLogger(logging *config.LoggingConfig, service *config.ServiceConfig) zerolog.Logger {
	return New(logging.Level).With().Str("service", service.Name).Logger()
}
