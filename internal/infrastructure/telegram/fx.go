package telegram

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/SaveVideoBot/config"
)

// Module provides Telegram bot for fx dependency injection
var Module = fx.Module("telegram",
	fx.Provide(provideBot),
	fx.Invoke(registerLifecycle),
)

// provideBot creates Telegram bot from config
func provideBot(cfg *config.TelegramConfig, logger zerolog.Logger) (*Bot, error) {
	return NewBot(cfg.BotToken, logger.With().Str("component", "telegram").Logger())
}

// registerLifecycle registers bot lifecycle hooks
func registerLifecycle(lc fx.Lifecycle, bot *Bot) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// Start bot in a goroutine since it's a blocking call
			go func() {
				_ = bot.Start(context.Background())
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			return bot.Stop()
		},
	})
}
