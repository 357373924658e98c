package telegram

import (
	"context"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/Conte777/SaveVideoBot/internal/domain/download/consts"
)

// Router registers Telegram bot handlers
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers all command handlers on the bot
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, consts.CommandStart.Path(), tgbot.MatchTypeExact, r.handlers.HandleStart)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, consts.CommandHelp.Path(), tgbot.MatchTypeExact, r.handlers.HandleHelp)

	// Everything that is not a command goes to the link pipeline
	bot.RegisterHandlerMatchFunc(IsLinkCandidate, r.handlers.HandleText)

	r.logger.Info().Msg("All Telegram command handlers registered successfully")
}

// RegisterCommands publishes the command menu to Telegram
func (r *Router) RegisterCommands(ctx context.Context, bot *tgbot.Bot) error {
	commands := make([]models.BotCommand, 0, len(consts.AllCommands))
	for _, c := range consts.AllCommands {
		commands = append(commands, models.BotCommand{Command: c.Name, Description: c.Description})
	}

	_, err := bot.SetMyCommands(ctx, &tgbot.SetMyCommandsParams{Commands: commands})
	return err
}

// IsLinkCandidate matches plain text messages that are not bot commands
func IsLinkCandidate(update *models.Update) bool {
	if update.Message == nil || update.Message.Text == "" {
		return false
	}
	return !strings.HasPrefix(strings.TrimSpace(update.Message.Text), "/")
}
