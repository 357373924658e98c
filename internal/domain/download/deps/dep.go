// Package deps contains interface definitions for the download domain dependencies
package deps

import (
	"context"
	"time"

	"github.com/Conte777/SaveVideoBot/internal/domain/download/entities"
)

// TelegramSender defines interface for replying to a chat via Telegram.
// It breaks the cyclic dependency between UseCase and the Telegram handlers.
type TelegramSender interface {
	// SendMessage sends a text message to the chat
	SendMessage(ctx context.Context, chatID int64, text string) error

	// SendVideo uploads a local file to the chat as a streamable video
	SendVideo(ctx context.Context, chatID int64, path string) error
}

// YouTubeDownloader fetches a YouTube video into dir and returns the exact file path.
// Extraction and network failures wrap errors.ErrYouTubeFetch; a stream that
// outgrows maxBytes yields *errors.TooLargeError.
type YouTubeDownloader interface {
	Download(ctx context.Context, url, dir string, maxBytes int64) (string, error)
}

// InstagramScraper fetches the video media of a post into dir.
// Private, deleted or unreachable posts wrap errors.ErrInstagramFetch.
type InstagramScraper interface {
	Download(ctx context.Context, shortcode, dir string) error
}

// EventPublisher publishes download events to external consumers
type EventPublisher interface {
	PublishDownload(ctx context.Context, event *entities.DownloadEvent) error

	// Close closes the publisher
	Close() error
}

// MetricsRecorder records pipeline metrics
type MetricsRecorder interface {
	RecordRequest(platform entities.Platform, outcome entities.Outcome)
	RecordDownload(platform entities.Platform, duration time.Duration)
	RecordDelivered(platform entities.Platform, bytes int64)
	IncActiveDownloads()
	DecActiveDownloads()
}
