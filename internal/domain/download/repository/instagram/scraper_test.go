package instagram

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/lrstanley/go-ytdlp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/SaveVideoBot/config"
	downloaderrors "github.com/Conte777/SaveVideoBot/internal/domain/download/errors"
)

type fakeRunner struct {
	dir    string
	args   []string
	result *ytdlp.Result
	err    error
}

func (r *fakeRunner) Run(_ context.Context, args ...string) (*ytdlp.Result, error) {
	r.args = args
	return r.result, r.err
}

func newTestScraper(r *fakeRunner) *Scraper {
	return &Scraper{
		newCommand: func(dir string) runner {
			r.dir = dir
			return r
		},
		logger: zerolog.Nop(),
	}
}

func TestPostURL(t *testing.T) {
	assert.Equal(t, "https://www.instagram.com/p/ABC123/", PostURL("ABC123"))
}

func TestDownload_RunsPostURLInTargetDir(t *testing.T) {
	r := &fakeRunner{result: &ytdlp.Result{}}
	dir := filepath.Join(t.TempDir(), "ABC123")

	err := newTestScraper(r).Download(context.Background(), "ABC123", dir)

	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, dir, r.dir)
	assert.Equal(t, []string{"https://www.instagram.com/p/ABC123/"}, r.args)
}

func TestDownload_Errors(t *testing.T) {
	tests := []struct {
		name            string
		runner          *fakeRunner
		wantErr         bool
		wantUpstream    bool
		wantUnavailable bool
	}{
		{
			name:         "private post",
			runner:       &fakeRunner{err: errors.New("exit status 1"), result: &ytdlp.Result{Stderr: "ERROR: login required"}},
			wantErr:      true,
			wantUpstream: true,
		},
		{
			name:            "missing executable",
			runner:          &fakeRunner{err: fmt.Errorf("start yt-dlp: %w", exec.ErrNotFound)},
			wantErr:         true,
			wantUnavailable: true,
		},
		{
			name: "executable path does not exist",
			runner: &fakeRunner{
				err:    fmt.Errorf("exit code -1: %w", &fs.PathError{Op: "fork/exec", Path: "/nonexistent/yt-dlp", Err: syscall.ENOENT}),
				result: &ytdlp.Result{ExitCode: -1},
			},
			wantErr:         true,
			wantUnavailable: true,
		},
		{
			name:   "photo post",
			runner: &fakeRunner{err: errors.New("exit status 1"), result: &ytdlp.Result{Stderr: "ERROR: [Instagram] ABC123: There is no video in this post"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestScraper(tt.runner).Download(context.Background(), "ABC123", t.TempDir())

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantUpstream, errors.Is(err, downloaderrors.ErrInstagramFetch))
			assert.Equal(t, tt.wantUnavailable, errors.Is(err, downloaderrors.ErrYtDlpUnavailable))
		})
	}
}

func TestNewScraper_BuildsCommand(t *testing.T) {
	s := NewScraper(&config.DownloadConfig{YtDlpPath: "/usr/local/bin/yt-dlp", InstagramCookies: "cookies.txt"}, zerolog.Nop())

	assert.NotNil(t, s.newCommand(t.TempDir()))
}

func TestDownload_ConfiguredExecutableMissing(t *testing.T) {
	s := NewScraper(&config.DownloadConfig{YtDlpPath: "/nonexistent/yt-dlp-missing"}, zerolog.Nop())

	err := s.Download(context.Background(), "ABC123", t.TempDir())

	require.Error(t, err)
	assert.ErrorIs(t, err, downloaderrors.ErrYtDlpUnavailable)
	assert.NotErrorIs(t, err, downloaderrors.ErrInstagramFetch)
}

func TestDownload_ResolvesExecutableBeforeRun(t *testing.T) {
	r := &fakeRunner{result: &ytdlp.Result{}}
	s := newTestScraper(r)
	s.executable = "yt-dlp"
	s.lookPath = func(file string) (string, error) {
		return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
	}

	err := s.Download(context.Background(), "ABC123", t.TempDir())

	assert.ErrorIs(t, err, downloaderrors.ErrYtDlpUnavailable)
	assert.Nil(t, r.args)
}
