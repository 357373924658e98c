// Package business contains business logic for the download domain
package business

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/Conte777/SaveVideoBot/config"
	"github.com/Conte777/SaveVideoBot/internal/domain/download/artifacts"
	"github.com/Conte777/SaveVideoBot/internal/domain/download/deps"
	"github.com/Conte777/SaveVideoBot/internal/domain/download/dto"
	"github.com/Conte777/SaveVideoBot/internal/domain/download/entities"
	downloaderrors "github.com/Conte777/SaveVideoBot/internal/domain/download/errors"
	"github.com/Conte777/SaveVideoBot/internal/domain/download/links"
	pkgerrors "github.com/Conte777/SaveVideoBot/pkg/errors"
)

// replyTimeout bounds a reply sent after the request context is gone
const replyTimeout = 10 * time.Second

// UseCase runs the download-dispatch-and-delivery pipeline
type UseCase struct {
	youtube      deps.YouTubeDownloader
	instagram    deps.InstagramScraper
	publisher    deps.EventPublisher
	metrics      deps.MetricsRecorder
	sender       deps.TelegramSender
	workspace    *artifacts.Workspace
	gate         artifacts.SizeGate
	slots        *semaphore.Weighted
	fetchTimeout time.Duration
	logger       zerolog.Logger
}

// result is what a single platform flow reports back to HandleLink
type result struct {
	outcome entities.Outcome
	size    int64
}

// NewUseCase creates a new UseCase instance
// Note: sender is not passed here to break cyclic dependency
// Use SetSender after creating TelegramHandlers
func NewUseCase(
	youtube deps.YouTubeDownloader,
	instagram deps.InstagramScraper,
	publisher deps.EventPublisher,
	metrics deps.MetricsRecorder,
	workspace *artifacts.Workspace,
	cfg *config.DownloadConfig,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		youtube:      youtube,
		instagram:    instagram,
		publisher:    publisher,
		metrics:      metrics,
		workspace:    workspace,
		gate:         artifacts.SizeGate{Limit: cfg.MaxFileSize},
		slots:        semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		fetchTimeout: cfg.FetchTimeout,
		logger:       logger,
	}
}

// SetSender sets the TelegramSender after construction
// This is called by fx.Invoke to resolve cyclic dependency
func (uc *UseCase) SetSender(sender deps.TelegramSender) {
	uc.sender = sender
}

// HandleStart handles /start command
func (uc *UseCase) HandleStart(ctx context.Context, req *dto.StartCommandRequest) (*dto.CommandResponse, error) {
	uc.logger.Info().
		Int64("user_id", req.UserID).
		Str("username", req.Username).
		Msg("User started bot")

	return &dto.CommandResponse{Message: startMessage(uc.limitMB())}, nil
}

// HandleHelp handles /help command
func (uc *UseCase) HandleHelp(ctx context.Context) (*dto.CommandResponse, error) {
	return &dto.CommandResponse{Message: helpMessage(uc.limitMB())}, nil
}

// RejectRateLimited answers a link the chat sent too often, without fetching anything
func (uc *UseCase) RejectRateLimited(ctx context.Context, req *dto.LinkRequest) {
	request := uc.newRequest(req)
	uc.reply(ctx, request.ChatID, msgRateLimited)
	uc.finish(ctx, request, result{outcome: entities.OutcomeRateLimited}, time.Now())
}

// HandleLink classifies the inbound text and runs the matching download flow.
// Every path ends with exactly one outcome, and the request scratch space is
// gone by the time HandleLink returns.
func (uc *UseCase) HandleLink(ctx context.Context, req *dto.LinkRequest) (outcome entities.Outcome) {
	started := time.Now()
	request := uc.newRequest(req)
	log := uc.logger.With().
		Str("request_id", request.ID).
		Int64("chat_id", request.ChatID).
		Str("platform", string(request.Platform)).
		Logger()

	res := result{outcome: entities.OutcomeInternalError}
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("Unexpected panic while handling link")
			uc.reply(ctx, request.ChatID, msgTryLater)
			res = result{outcome: entities.OutcomeInternalError}
		}
		uc.finish(ctx, request, res, started)
		outcome = res.outcome
	}()

	if uc.sender == nil {
		log.Error().Msg("TelegramSender is not set")
		return res.outcome
	}

	res = uc.route(ctx, request, log)
	return res.outcome
}

func (uc *UseCase) route(ctx context.Context, req *entities.DownloadRequest, log zerolog.Logger) result {
	if !links.IsHTTPLink(req.SourceURL) {
		logFailure(log, downloaderrors.ErrNotALink, "Ignoring non-link message")
		uc.reply(ctx, req.ChatID, msgNotALink)
		return result{outcome: entities.OutcomeNotALink}
	}

	switch req.Platform {
	case entities.PlatformYouTube:
		return uc.downloadYouTube(ctx, req, log)
	case entities.PlatformInstagram:
		return uc.downloadInstagram(ctx, req, log)
	default:
		logFailure(log.With().Str("url", req.SourceURL).Logger(), downloaderrors.ErrUnsupportedPlatform, "Unsupported link")
		uc.reply(ctx, req.ChatID, msgUnsupported)
		return result{outcome: entities.OutcomeUnsupported}
	}
}

func (uc *UseCase) downloadYouTube(ctx context.Context, req *entities.DownloadRequest, log zerolog.Logger) result {
	uc.reply(ctx, req.ChatID, msgYouTubeStarted)

	scratch, err := uc.workspace.Acquire(req.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to prepare scratch directory")
		uc.reply(ctx, req.ChatID, msgYouTubeFailed)
		return result{outcome: entities.OutcomeInternalError}
	}
	defer uc.release(scratch, log)

	var path string
	err = uc.fetch(ctx, req.Platform, func(fetchCtx context.Context) error {
		var fetchErr error
		path, fetchErr = uc.youtube.Download(fetchCtx, req.SourceURL, scratch.Dir, uc.gate.Limit)
		return fetchErr
	})
	if err != nil {
		var tooLarge *downloaderrors.TooLargeError
		switch {
		case errors.As(err, &tooLarge):
			verdict := uc.gate.CheckSize(tooLarge.Size)
			log.Info().Int64("size", tooLarge.Size).Msg("YouTube stream exceeds size limit")
			uc.reply(ctx, req.ChatID, oversizeMessage(verdict))
			return result{outcome: entities.OutcomeOversize, size: tooLarge.Size}
		case pkgerrors.IsUpstreamError(err):
			logFailure(log.With().Str("url", req.SourceURL).Logger(), err, "YouTube download failed")
			uc.reply(ctx, req.ChatID, msgYouTubeFetch)
			return result{outcome: entities.OutcomeFetchFailed}
		default:
			logFailure(log.With().Str("url", req.SourceURL).Logger(), err, "YouTube download did not complete")
			uc.reply(ctx, req.ChatID, msgYouTubeFailed)
			return result{outcome: entities.OutcomeInternalError}
		}
	}

	log.Info().Str("path", path).Msg("YouTube download finished")

	artifact, found, err := artifacts.Stat(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to stat downloaded file")
		uc.reply(ctx, req.ChatID, msgYouTubeFailed)
		return result{outcome: entities.OutcomeInternalError}
	}
	if !found {
		logFailure(log.With().Str("path", path).Logger(), downloaderrors.ErrArtifactMissing, "Downloader reported success but file is absent")
		uc.reply(ctx, req.ChatID, msgArtifactNotFound)
		return result{outcome: entities.OutcomeArtifactMissing}
	}

	return uc.deliver(ctx, req, artifact, log)
}

func (uc *UseCase) downloadInstagram(ctx context.Context, req *entities.DownloadRequest, log zerolog.Logger) result {
	shortcode, ok := links.ExtractShortcode(req.SourceURL)
	if !ok {
		logFailure(log.With().Str("url", req.SourceURL).Logger(), downloaderrors.ErrInvalidInstagramLink, "Invalid Instagram link")
		uc.reply(ctx, req.ChatID, msgInstagramInvalid)
		return result{outcome: entities.OutcomeInvalidLink}
	}

	log = log.With().Str("shortcode", shortcode).Logger()
	uc.reply(ctx, req.ChatID, msgInstagramStarted)

	scratch, err := uc.workspace.Acquire(req.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to prepare scratch directory")
		uc.reply(ctx, req.ChatID, msgInstagramFailed)
		return result{outcome: entities.OutcomeInternalError}
	}
	defer uc.release(scratch, log)

	target := scratch.Path(shortcode)
	log.Info().Str("target_dir", target).Msg("Downloading Instagram post")

	err = uc.fetch(ctx, req.Platform, func(fetchCtx context.Context) error {
		return uc.instagram.Download(fetchCtx, shortcode, target)
	})
	if err != nil {
		if pkgerrors.IsUpstreamError(err) {
			logFailure(log, err, "Instagram download failed")
			uc.reply(ctx, req.ChatID, msgInstagramFetch)
			return result{outcome: entities.OutcomeFetchFailed}
		}
		logFailure(log, err, "Instagram download did not complete")
		uc.reply(ctx, req.ChatID, msgInstagramFailed)
		return result{outcome: entities.OutcomeInternalError}
	}

	artifact, found, err := artifacts.LocateVideo(target)
	if err != nil {
		log.Error().Err(err).Msg("Failed to search downloaded post")
		uc.reply(ctx, req.ChatID, msgInstagramFailed)
		return result{outcome: entities.OutcomeInternalError}
	}
	if !found {
		log.Info().Msg("No video found in Instagram post")
		uc.reply(ctx, req.ChatID, msgNoVideo)
		return result{outcome: entities.OutcomeNoVideo}
	}

	log.Info().Str("path", artifact.Path).Int64("size", artifact.Size).Msg("Found video file")

	return uc.deliver(ctx, req, artifact, log)
}

// fetch runs one external download under a concurrency slot and the fetch timeout
func (uc *UseCase) fetch(ctx context.Context, platform entities.Platform, do func(ctx context.Context) error) error {
	if err := uc.slots.Acquire(ctx, 1); err != nil {
		return err
	}
	defer uc.slots.Release(1)

	fetchCtx, cancel := context.WithTimeout(ctx, uc.fetchTimeout)
	defer cancel()

	uc.metrics.IncActiveDownloads()
	started := time.Now()
	defer func() {
		uc.metrics.DecActiveDownloads()
		uc.metrics.RecordDownload(platform, time.Since(started))
	}()

	return do(fetchCtx)
}

// deliver applies the size gate and uploads the artifact
func (uc *UseCase) deliver(ctx context.Context, req *entities.DownloadRequest, artifact entities.LocalArtifact, log zerolog.Logger) result {
	verdict := uc.gate.Check(artifact)
	if !verdict.Allowed {
		log.Info().
			Int64("size", artifact.Size).
			Int64("limit", verdict.Limit).
			Msg("Video rejected by size limit")
		uc.reply(ctx, req.ChatID, oversizeMessage(verdict))
		return result{outcome: entities.OutcomeOversize, size: artifact.Size}
	}

	if err := uc.sender.SendVideo(ctx, req.ChatID, artifact.Path); err != nil {
		err = fmt.Errorf("%w: %v", downloaderrors.ErrDeliveryFailed, err)
		logFailure(log.With().Str("path", artifact.Path).Logger(), err, "Failed to send video")
		uc.reply(ctx, req.ChatID, msgSendFailed)
		return result{outcome: entities.OutcomeSendFailed, size: artifact.Size}
	}

	uc.metrics.RecordDelivered(req.Platform, artifact.Size)
	uc.reply(ctx, req.ChatID, msgDelivered)

	log.Info().Int64("size", artifact.Size).Msg("Video delivered")
	return result{outcome: entities.OutcomeDelivered, size: artifact.Size}
}

// release removes the request scratch space. Failures are logged, never returned.
func (uc *UseCase) release(scratch *artifacts.Scratch, log zerolog.Logger) {
	if err := scratch.Release(); err != nil {
		log.Warn().Err(err).Msg("Failed to clean up scratch directory")
		return
	}
	log.Debug().Str("dir", scratch.Dir).Msg("Scratch directory removed")
}

func (uc *UseCase) finish(ctx context.Context, req *entities.DownloadRequest, res result, started time.Time) {
	uc.metrics.RecordRequest(req.Platform, res.outcome)

	event := &entities.DownloadEvent{
		RequestID:  req.ID,
		ChatID:     req.ChatID,
		Platform:   req.Platform,
		Outcome:    res.outcome,
		SizeBytes:  res.size,
		DurationMs: time.Since(started).Milliseconds(),
		OccurredAt: time.Now().UTC(),
	}

	// the request may have been interrupted by shutdown; its event is still owed
	if err := uc.publisher.PublishDownload(context.WithoutCancel(ctx), event); err != nil {
		uc.logger.Warn().Err(err).Str("request_id", req.ID).Msg("Failed to publish download event")
	}
}

func (uc *UseCase) reply(ctx context.Context, chatID int64, text string) {
	if uc.sender == nil {
		return
	}
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.WithoutCancel(ctx), replyTimeout)
		defer cancel()
	}
	if err := uc.sender.SendMessage(ctx, chatID, text); err != nil {
		uc.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send reply")
	}
}

// logFailure logs a failed request at a level matching the error kind
func logFailure(log zerolog.Logger, err error, msg string) {
	var event *zerolog.Event
	kind := "unexpected"
	switch {
	case pkgerrors.IsValidationError(err):
		event, kind = log.Info(), "validation"
	case pkgerrors.IsUpstreamError(err):
		event, kind = log.Warn(), "upstream"
	case pkgerrors.IsInternalError(err):
		event, kind = log.Error(), "internal"
	default:
		event = log.Error()
	}
	event.Err(err).Str("kind", kind).Msg(msg)
}

func (uc *UseCase) newRequest(req *dto.LinkRequest) *entities.DownloadRequest {
	text := strings.TrimSpace(req.Text)
	return &entities.DownloadRequest{
		ID:        uuid.NewString(),
		SourceURL: text,
		Platform:  links.Classify(text),
		ChatID:    req.ChatID,
	}
}

func (uc *UseCase) limitMB() float64 {
	return uc.gate.CheckSize(0).LimitMB()
}
