// Package download contains the download domain module
package download

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/SaveVideoBot/config"
	"github.com/Conte777/SaveVideoBot/internal/domain/download/artifacts"
	telegramDelivery "github.com/Conte777/SaveVideoBot/internal/domain/download/delivery/telegram"
	"github.com/Conte777/SaveVideoBot/internal/domain/download/deps"
	instagramRepo "github.com/Conte777/SaveVideoBot/internal/domain/download/repository/instagram"
	kafkaRepo "github.com/Conte777/SaveVideoBot/internal/domain/download/repository/kafka"
	youtubeRepo "github.com/Conte777/SaveVideoBot/internal/domain/download/repository/youtube"
	"github.com/Conte777/SaveVideoBot/internal/domain/download/usecase/business"
	"github.com/Conte777/SaveVideoBot/internal/infrastructure/telegram"
)

// Module provides download domain components for fx dependency injection
var Module = fx.Module("download",
	// Repository
	fx.Provide(provideYouTubeDownloader),
	fx.Provide(provideInstagramScraper),
	fx.Provide(kafkaRepo.NewPublisher),
	fx.Provide(provideWorkspace),

	// UseCase
	fx.Provide(business.NewUseCase),

	// Delivery - Telegram (needs raw bot from infrastructure)
	fx.Provide(telegramDelivery.NewChatLimiter),
	fx.Provide(provideTelegramHandlers),
	fx.Provide(telegramDelivery.NewRouter),

	// Wire cyclic dependency and register routes
	fx.Invoke(wireAndRegister),
)

func provideYouTubeDownloader(logger zerolog.Logger) deps.YouTubeDownloader {
	return youtubeRepo.NewDownloader(logger)
}

func provideInstagramScraper(cfg *config.DownloadConfig, logger zerolog.Logger) deps.InstagramScraper {
	return instagramRepo.NewScraper(cfg, logger)
}

// provideWorkspace creates the downloads root; startup fails if it cannot be created
func provideWorkspace(cfg *config.DownloadConfig, logger zerolog.Logger) (*artifacts.Workspace, error) {
	ws := artifacts.NewWorkspace(cfg.Dir)
	if err := ws.EnsureRoot(); err != nil {
		return nil, err
	}

	logger.Info().Str("dir", cfg.Dir).Int64("max_file_size", cfg.MaxFileSize).Msg("Downloads directory ready")
	return ws, nil
}

// provideTelegramHandlers creates Telegram handlers with raw bot
func provideTelegramHandlers(
	uc *business.UseCase,
	bot *telegram.Bot,
	limiter *telegramDelivery.ChatLimiter,
	cfg *config.TelegramConfig,
	logger zerolog.Logger,
) *telegramDelivery.Handlers {
	return telegramDelivery.NewHandlers(uc, bot.Raw(), limiter, cfg, logger)
}

// wireAndRegister resolves cyclic dependency and registers routes
func wireAndRegister(
	lc fx.Lifecycle,
	uc *business.UseCase,
	handlers *telegramDelivery.Handlers,
	router *telegramDelivery.Router,
	bot *telegram.Bot,
	publisher deps.EventPublisher,
	logger zerolog.Logger,
) {
	// Handlers implements deps.TelegramSender interface
	// This resolves the cyclic dependency: UseCase -> TelegramSender <- Handlers -> UseCase
	uc.SetSender(handlers)

	router.RegisterRoutes(bot.Raw())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := router.RegisterCommands(ctx, bot.Raw()); err != nil {
				logger.Warn().Err(err).Msg("Failed to register bot command menu")
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Stop polling first so in-flight downloads see a canceled context
			_ = bot.Stop()
			if err := handlers.Wait(ctx); err != nil {
				logger.Warn().Err(err).Msg("Shutdown timed out with downloads still running")
			}
			return publisher.Close()
		},
	})
}
