// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/Conte777/SaveVideoBot/internal/infrastructure/http/server"
	"github.com/Conte777/SaveVideoBot/internal/infrastructure/logger"
	"github.com/Conte777/SaveVideoBot/internal/infrastructure/metrics"
	"github.com/Conte777/SaveVideoBot/internal/infrastructure/telegram"
)

// Module provides all infrastructure components for fx dependency injection
var Module = fx.Module("infrastructure",
	logger.Module,
	metrics.Module,
	telegram.Module,
	server.Module,
)
