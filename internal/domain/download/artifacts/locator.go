package artifacts

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Conte777/SaveVideoBot/internal/domain/download/entities"
)

// VideoExtensions lists the file extensions treated as playable video
var VideoExtensions = map[string]struct{}{
	".mp4":  {},
	".mov":  {},
	".m4v":  {},
	".webm": {},
	".mkv":  {},
}

// LocateVideo walks dir recursively and returns the largest video file.
// A missing directory or a directory without videos is reported as not found.
func LocateVideo(dir string) (entities.LocalArtifact, bool, error) {
	var best entities.LocalArtifact
	found := false

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}

		if d.IsDir() || !IsVideoFile(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		if !found || info.Size() > best.Size {
			best = entities.LocalArtifact{Path: path, Size: info.Size()}
			found = true
		}
		return nil
	})
	if err != nil {
		return entities.LocalArtifact{}, false, err
	}

	return best, found, nil
}

// IsVideoFile reports whether name has a recognised video extension
func IsVideoFile(name string) bool {
	_, ok := VideoExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Stat materializes a LocalArtifact for path. A missing file is reported as not found.
func Stat(path string) (entities.LocalArtifact, bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return entities.LocalArtifact{}, false, nil
	}
	if err != nil {
		return entities.LocalArtifact{}, false, err
	}
	if info.IsDir() {
		return entities.LocalArtifact{}, false, nil
	}

	return entities.LocalArtifact{Path: path, Size: info.Size()}, true, nil
}
