// Package telegram contains Telegram delivery handlers
package telegram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/Conte777/SaveVideoBot/config"
	"github.com/Conte777/SaveVideoBot/internal/domain/download/consts"
	"github.com/Conte777/SaveVideoBot/internal/domain/download/dto"
	"github.com/Conte777/SaveVideoBot/internal/domain/download/usecase/business"
)

// Constants for Telegram API
const (
	MaxMessageLength = 4096
	RequestTimeout   = 30 * time.Second
)

const msgCommandFailed = "❌ Произошла ошибка при обработке команды"

// Handlers contains Telegram command handlers
// Implements deps.TelegramSender interface
type Handlers struct {
	uc          *business.UseCase
	bot         *tgbot.Bot
	limiter     *ChatLimiter
	sendTimeout time.Duration
	logger      zerolog.Logger

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// NewHandlers creates new Telegram handlers
func NewHandlers(
	uc *business.UseCase,
	bot *tgbot.Bot,
	limiter *ChatLimiter,
	cfg *config.TelegramConfig,
	logger zerolog.Logger,
) *Handlers {
	sendTimeout := cfg.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = RequestTimeout
	}

	return &Handlers{
		uc:          uc,
		bot:         bot,
		limiter:     limiter,
		sendTimeout: sendTimeout,
		logger:      logger,
	}
}

// SendMessage implements deps.TelegramSender interface
func (h *Handlers) SendMessage(ctx context.Context, chatID int64, text string) error {
	if text == "" {
		h.logger.Warn().Int64("chat_id", chatID).Msg("Attempt to send empty message")
		return fmt.Errorf("message text cannot be empty")
	}
	if len(text) > MaxMessageLength {
		return fmt.Errorf("message text exceeds %d bytes", MaxMessageLength)
	}

	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.SendMessage(msgCtx, &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return h.handleSendError(chatID, err)
	}

	h.logger.Debug().Int64("chat_id", chatID).Int("text_length", len(text)).Msg("Message sent")
	return nil
}

// SendVideo implements deps.TelegramSender interface.
// The file is streamed as a multipart upload and marked as streamable.
func (h *Handlers) SendVideo(ctx context.Context, chatID int64, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open video: %w", err)
	}
	defer file.Close()

	sendCtx, cancel := context.WithTimeout(ctx, h.sendTimeout)
	defer cancel()

	started := time.Now()
	_, err = h.bot.SendVideo(sendCtx, &tgbot.SendVideoParams{
		ChatID: chatID,
		Video: &models.InputFileUpload{
			Filename: filepath.Base(path),
			Data:     file,
		},
		SupportsStreaming: true,
	})
	if err != nil {
		return h.handleSendError(chatID, err)
	}

	h.logger.Info().
		Int64("chat_id", chatID).
		Str("file", filepath.Base(path)).
		Dur("upload_time", time.Since(started)).
		Msg("Video uploaded")
	return nil
}

// HandleStart handles /start command
func (h *Handlers) HandleStart(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	userID, username := sender(update.Message)
	chatID := update.Message.Chat.ID

	h.logCommand(userID, consts.CommandStart.Path(), "processing")

	resp, err := h.uc.HandleStart(ctx, &dto.StartCommandRequest{
		UserID:   userID,
		Username: username,
	})
	if err != nil {
		h.logError(userID, consts.CommandStart.Path(), err)
		h.sendResponse(ctx, chatID, msgCommandFailed)
		return
	}

	h.sendResponse(ctx, chatID, resp.Message)
	h.logCommand(userID, consts.CommandStart.Path(), "success")
}

// HandleHelp handles /help command
func (h *Handlers) HandleHelp(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	userID, _ := sender(update.Message)
	chatID := update.Message.Chat.ID

	h.logCommand(userID, consts.CommandHelp.Path(), "processing")

	resp, err := h.uc.HandleHelp(ctx)
	if err != nil {
		h.logError(userID, consts.CommandHelp.Path(), err)
		h.sendResponse(ctx, chatID, msgCommandFailed)
		return
	}

	h.sendResponse(ctx, chatID, resp.Message)
	h.logCommand(userID, consts.CommandHelp.Path(), "success")
}

// HandleText handles any non-command text message.
// The download runs in its own goroutine, tracked by Wait.
func (h *Handlers) HandleText(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	userID, username := sender(msg)

	req := &dto.LinkRequest{
		ChatID:   msg.Chat.ID,
		UserID:   userID,
		Username: username,
		Text:     msg.Text,
	}

	if !h.track() {
		h.logger.Warn().Int64("chat_id", req.ChatID).Msg("Shutting down, link request dropped")
		return
	}

	if !h.limiter.Allow(req.ChatID) {
		defer h.inflight.Done()
		h.logger.Info().Int64("chat_id", req.ChatID).Msg("Chat exceeded request rate")
		h.uc.RejectRateLimited(ctx, req)
		return
	}

	go func() {
		defer h.inflight.Done()
		outcome := h.uc.HandleLink(ctx, req)
		h.logCommand(userID, "link", string(outcome))
	}()
}

// track registers a link request unless Wait has already been called
func (h *Handlers) track() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.inflight.Add(1)
	return true
}

// Wait stops accepting link requests and blocks until every in-flight one
// has finished or ctx is done
func (h *Handlers) Wait(ctx context.Context) error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for in-flight downloads: %w", ctx.Err())
	}
}

func (h *Handlers) sendResponse(ctx context.Context, chatID int64, text string) {
	if err := h.SendMessage(ctx, chatID, text); err != nil {
		h.logger.Error().Int64("chat_id", chatID).Err(err).Msg("Failed to send Telegram response")
	}
}

func (h *Handlers) handleSendError(chatID int64, err error) error {
	errorMsg := err.Error()

	switch {
	case strings.Contains(errorMsg, "Forbidden"):
		h.logger.Warn().Int64("chat_id", chatID).Msg("User blocked the bot or chat not found")
		return fmt.Errorf("user blocked the bot or chat not found: %w", err)

	case strings.Contains(errorMsg, "Request Entity Too Large"), strings.Contains(errorMsg, "file is too big"):
		h.logger.Warn().Int64("chat_id", chatID).Msg("Telegram rejected file size")
		return fmt.Errorf("file rejected by telegram: %w", err)

	case strings.Contains(errorMsg, "Too Many Requests"):
		h.logger.Warn().Int64("chat_id", chatID).Msg("Rate limit exceeded")
		return fmt.Errorf("rate limit exceeded: %w", err)

	case strings.Contains(errorMsg, "context deadline exceeded"), strings.Contains(errorMsg, "timeout"):
		h.logger.Warn().Int64("chat_id", chatID).Msg("Timed out talking to Telegram")
		return fmt.Errorf("telegram request timed out: %w", err)

	default:
		h.logger.Error().Int64("chat_id", chatID).Err(err).Msg("Unknown error while talking to Telegram")
		return fmt.Errorf("failed to send to telegram: %w", err)
	}
}

func (h *Handlers) logCommand(userID int64, command, result string) {
	h.logger.Info().Int64("user_id", userID).Str("command", command).Str("result", result).Msg("Telegram command processed")
}

func (h *Handlers) logError(userID int64, command string, err error) {
	h.logger.Error().Int64("user_id", userID).Str("command", command).Err(err).Msg("Telegram command failed")
}

func sender(msg *models.Message) (int64, string) {
	if msg.From == nil {
		return 0, ""
	}
	return msg.From.ID, msg.From.Username
}
