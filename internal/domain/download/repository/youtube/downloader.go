// Package youtube fetches YouTube videos into a local directory
package youtube

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/kkdai/youtube/v2"
	"github.com/rs/zerolog"

	downloaderrors "github.com/Conte777/SaveVideoBot/internal/domain/download/errors"
)

const maxTitleRunes = 100

// videoSource is the part of youtube.Client the downloader uses
type videoSource interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error)
}

// Downloader implements deps.YouTubeDownloader on top of kkdai/youtube
type Downloader struct {
	client videoSource
	logger zerolog.Logger
}

// NewDownloader creates a new YouTube downloader
func NewDownloader(logger zerolog.Logger) *Downloader {
	return &Downloader{
		client: &youtube.Client{},
		logger: logger.With().Str("component", "youtube").Logger(),
	}
}

// Download resolves the video, picks a progressive format with audio and
// streams it into dir. The stream is never written past maxBytes+1 bytes.
func (d *Downloader) Download(ctx context.Context, url, dir string, maxBytes int64) (string, error) {
	video, err := d.client.GetVideoContext(ctx, url)
	if err != nil {
		return "", fmt.Errorf("%w: %v", downloaderrors.ErrYouTubeFetch, err)
	}

	format := pickFormat(video.Formats.WithAudioChannels(), maxBytes)
	if format == nil {
		return "", fmt.Errorf("%w: no video format with audio for video %s", downloaderrors.ErrYouTubeFetch, video.ID)
	}

	d.logger.Debug().
		Str("video_id", video.ID).
		Int("itag", format.ItagNo).
		Str("mime_type", format.MimeType).
		Str("quality", format.QualityLabel).
		Int64("content_length", format.ContentLength).
		Msg("Selected YouTube format")

	if maxBytes > 0 && format.ContentLength > maxBytes {
		return "", &downloaderrors.TooLargeError{Size: format.ContentLength, Limit: maxBytes}
	}

	stream, size, err := d.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return "", fmt.Errorf("%w: %v", downloaderrors.ErrYouTubeFetch, err)
	}
	defer stream.Close()

	path := filepath.Join(dir, sanitizeFilename(video.Title, video.ID)+extension(format.MimeType))
	written, err := writeCapped(path, stream, maxBytes)
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}

	if maxBytes > 0 && written > maxBytes {
		_ = os.Remove(path)
		if size < written {
			size = written
		}
		return "", &downloaderrors.TooLargeError{Size: size, Limit: maxBytes}
	}

	d.logger.Info().
		Str("video_id", video.ID).
		Str("path", path).
		Int64("size", written).
		Msg("YouTube video saved")

	return path, nil
}

// writeCapped copies at most limit+1 bytes so an oversized stream can be detected
func writeCapped(path string, r io.Reader, limit int64) (int64, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}

	written, copyErr := io.Copy(file, src)
	closeErr := file.Close()

	if copyErr != nil {
		return written, fmt.Errorf("%w: stream interrupted: %v", downloaderrors.ErrYouTubeFetch, copyErr)
	}
	if closeErr != nil {
		return written, fmt.Errorf("failed to close file: %w", closeErr)
	}

	return written, nil
}

// pickFormat prefers mp4 that fits the limit, then anything that fits,
// then the best bitrate overall. Audio-only formats are never picked.
// Unknown content length counts as fitting.
func pickFormat(formats youtube.FormatList, maxBytes int64) *youtube.Format {
	candidates := make([]youtube.Format, 0, len(formats))
	for _, f := range formats {
		if hasVideo(f) {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Bitrate > candidates[j].Bitrate
	})

	fits := func(f youtube.Format) bool {
		return maxBytes <= 0 || f.ContentLength == 0 || f.ContentLength <= maxBytes
	}

	for i := range candidates {
		if fits(candidates[i]) && strings.HasPrefix(candidates[i].MimeType, "video/mp4") {
			return &candidates[i]
		}
	}
	for i := range candidates {
		if fits(candidates[i]) {
			return &candidates[i]
		}
	}
	return &candidates[0]
}

func hasVideo(f youtube.Format) bool {
	return strings.HasPrefix(f.MimeType, "video/")
}

func sanitizeFilename(title, fallback string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, title)

	if runes := []rune(cleaned); len(runes) > maxTitleRunes {
		cleaned = string(runes[:maxTitleRunes])
	}
	cleaned = strings.Trim(cleaned, " .")

	if cleaned == "" {
		cleaned = strings.Trim(fallback, " .")
	}
	if cleaned == "" {
		cleaned = "video"
	}
	return cleaned
}

func extension(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	switch strings.TrimSpace(base) {
	case "video/webm":
		return ".webm"
	case "video/3gpp":
		return ".3gp"
	default:
		return ".mp4"
	}
}
