// Package instagram fetches Instagram post media through yt-dlp
package instagram

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/lrstanley/go-ytdlp"
	"github.com/rs/zerolog"

	"github.com/Conte777/SaveVideoBot/config"
	downloaderrors "github.com/Conte777/SaveVideoBot/internal/domain/download/errors"
)

const (
	postURLFormat = "https://www.instagram.com/p/%s/"
	videoFormat   = "best[ext=mp4]/best"
	outputPattern = "%(id)s.%(ext)s"
)

// runner is the part of ytdlp.Command the scraper uses
type runner interface {
	Run(ctx context.Context, args ...string) (*ytdlp.Result, error)
}

// Scraper implements deps.InstagramScraper
type Scraper struct {
	executable string
	lookPath   func(file string) (string, error)
	newCommand func(dir string) runner
	logger     zerolog.Logger
}

// NewScraper creates a scraper that shells out to the configured yt-dlp binary
func NewScraper(cfg *config.DownloadConfig, logger zerolog.Logger) *Scraper {
	executable := cfg.YtDlpPath
	cookies := cfg.InstagramCookies

	return &Scraper{
		executable: executable,
		lookPath:   exec.LookPath,
		newCommand: func(dir string) runner {
			cmd := ytdlp.New().
				SetExecutable(executable).
				Format(videoFormat).
				NoPlaylist().
				RestrictFilenames().
				Output(filepath.Join(dir, outputPattern))
			if cookies != "" {
				cmd = cmd.Cookies(cookies)
			}
			return cmd
		},
		logger: logger.With().Str("component", "instagram").Logger(),
	}
}

// PostURL returns the canonical post URL for a shortcode
func PostURL(shortcode string) string {
	return fmt.Sprintf(postURLFormat, shortcode)
}

// Download fetches the post media into dir. Posts without video still
// succeed here; the caller decides by looking at what landed in dir.
func (s *Scraper) Download(ctx context.Context, shortcode, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create target directory: %w", err)
	}

	if err := s.checkExecutable(); err != nil {
		return err
	}

	url := PostURL(shortcode)
	s.logger.Debug().Str("url", url).Str("dir", dir).Msg("Running yt-dlp")

	result, err := s.newCommand(dir).Run(ctx, url)
	if err != nil {
		if isMissingExecutable(err) {
			return fmt.Errorf("%w: %v", downloaderrors.ErrYtDlpUnavailable, err)
		}
		if hasNoVideo(err, result) {
			s.logger.Info().Str("shortcode", shortcode).Msg("Post has no video")
			return nil
		}
		return fmt.Errorf("%w: %v", downloaderrors.ErrInstagramFetch, err)
	}

	if result != nil {
		s.logger.Debug().Int("exit_code", result.ExitCode).Str("shortcode", shortcode).Msg("yt-dlp finished")
	}

	return nil
}

// checkExecutable resolves the configured yt-dlp binary before every run
func (s *Scraper) checkExecutable() error {
	if s.executable == "" || s.lookPath == nil {
		return nil
	}
	if _, err := s.lookPath(s.executable); err != nil {
		s.logger.Error().Err(err).Str("executable", s.executable).Msg("yt-dlp executable is not available")
		return fmt.Errorf("%w: %v", downloaderrors.ErrYtDlpUnavailable, err)
	}
	return nil
}

func isMissingExecutable(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission)
}

// hasNoVideo reports whether yt-dlp failed only because the post is not a video
func hasNoVideo(err error, result *ytdlp.Result) bool {
	text := err.Error()
	if result != nil {
		text += " " + result.Stderr
	}
	return strings.Contains(strings.ToLower(text), "no video")
}
