// Package artifacts manages request scratch space and the local video files inside it
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is the shared downloads root. Each request gets its own subdirectory.
type Workspace struct {
	Root string
}

// NewWorkspace creates a workspace rooted at dir
func NewWorkspace(dir string) *Workspace {
	return &Workspace{Root: dir}
}

// EnsureRoot creates the downloads root if absent
func (w *Workspace) EnsureRoot() error {
	if err := os.MkdirAll(w.Root, 0o755); err != nil {
		return fmt.Errorf("failed to create downloads directory %s: %w", w.Root, err)
	}
	return nil
}

// Acquire creates the scratch directory for one request. id must be unique per request.
func (w *Workspace) Acquire(id string) (*Scratch, error) {
	if id == "" || id == "." || id == ".." || filepath.Base(id) != id {
		return nil, fmt.Errorf("invalid scratch id %q", id)
	}
	dir := filepath.Join(w.Root, id)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory %s: %w", dir, err)
	}

	return &Scratch{ID: id, Dir: dir}, nil
}

// Scratch is the scratch directory owned by one request
type Scratch struct {
	ID  string
	Dir string
}

// Path joins name onto the scratch directory
func (s *Scratch) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Release removes the scratch directory and everything below it
func (s *Scratch) Release() error {
	if err := os.RemoveAll(s.Dir); err != nil {
		return fmt.Errorf("failed to remove scratch directory %s: %w", s.Dir, err)
	}
	return nil
}
