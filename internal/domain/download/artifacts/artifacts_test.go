package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/SaveVideoBot/internal/domain/download/entities"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func TestLocateVideo_PicksLargest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "preview.mp4"), 1024)
	writeFile(t, filepath.Join(dir, "post.mp4"), 5*1024*1024)
	writeFile(t, filepath.Join(dir, "cover.jpg"), 10*1024*1024)

	artifact, found, err := LocateVideo(dir)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, filepath.Join(dir, "post.mp4"), artifact.Path)
	assert.Equal(t, int64(5*1024*1024), artifact.Size)
}

func TestLocateVideo_Recursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "b", "clip.MOV"), 2048)
	writeFile(t, filepath.Join(dir, "thumb.mp4"), 16)

	artifact, found, err := LocateVideo(dir)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, filepath.Join(dir, "a", "b", "clip.MOV"), artifact.Path)
}

func TestLocateVideo_EmptyDirectory(t *testing.T) {
	_, found, err := LocateVideo(t.TempDir())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLocateVideo_MissingDirectory(t *testing.T) {
	_, found, err := LocateVideo(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "video.mp4")
	writeFile(t, path, 300)

	artifact, found, err := Stat(path)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(300), artifact.Size)

	_, found, err = Stat(filepath.Join(dir, "missing.mp4"))
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = Stat(dir)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSizeGate(t *testing.T) {
	const limit = 50 * 1024 * 1024
	gate := SizeGate{Limit: limit}

	exact := gate.Check(entities.LocalArtifact{Size: limit})
	assert.True(t, exact.Allowed)

	over := gate.Check(entities.LocalArtifact{Size: limit + 1})
	assert.False(t, over.Allowed)
	assert.InDelta(t, 50.0, over.SizeMB(), 0.001)
	assert.InDelta(t, 50.0, over.LimitMB(), 0.001)

	small := gate.CheckSize(1024)
	assert.True(t, small.Allowed)
}

func TestWorkspace_AcquireRelease(t *testing.T) {
	root := filepath.Join(t.TempDir(), "downloads")
	ws := NewWorkspace(root)
	require.NoError(t, ws.EnsureRoot())
	require.DirExists(t, root)

	first, err := ws.Acquire("req-1")
	require.NoError(t, err)
	second, err := ws.Acquire("req-2")
	require.NoError(t, err)
	assert.NotEqual(t, first.Dir, second.Dir)

	writeFile(t, first.Path(filepath.Join("nested", "video.mp4")), 10)

	require.NoError(t, first.Release())
	assert.NoDirExists(t, first.Dir)
	assert.DirExists(t, second.Dir)

	// releasing twice is harmless
	require.NoError(t, first.Release())
}

func TestWorkspace_AcquireRejectsPathLikeIDs(t *testing.T) {
	ws := NewWorkspace(t.TempDir())

	for _, id := range []string{"", "../escape", "a/b", ".", ".."} {
		_, err := ws.Acquire(id)
		assert.Error(t, err, id)
	}
}
