package policy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/saferm/internal/git"
)

// fakeSource serves canned statuses keyed by absolute path. Unknown paths
// are NotInRepo, which is deletable.
type fakeSource struct {
	statuses map[string]git.FileStatus
	ignored  map[string]bool
}

func (f *fakeSource) Status(_ context.Context, absPath string) git.FileStatus {
	if s, ok := f.statuses[absPath]; ok {
		return s
	}
	return git.StatusNotInRepo
}

func (f *fakeSource) IsIgnored(_ context.Context, absPath string) bool {
	return f.ignored[absPath]
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
}

func TestCheckTreeNilSourceAdmitsEverything(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "anything.txt"))
	assert.NoError(t, CheckTree(context.Background(), nil, dir))
}

func TestCheckTreeSingleFile(t *testing.T) {
	dir := t.TempDir()
	clean := filepath.Join(dir, "clean.txt")
	dirty := filepath.Join(dir, "dirty.txt")
	writeFile(t, clean)
	writeFile(t, dirty)

	src := &fakeSource{statuses: map[string]git.FileStatus{
		clean: git.StatusClean,
		dirty: git.StatusModified,
	}}

	assert.NoError(t, CheckTree(context.Background(), src, clean))

	err := CheckTree(context.Background(), src, dirty)
	var dirtyErr *DirtyFileError
	require.True(t, errors.As(err, &dirtyErr))
	assert.Equal(t, dirty, dirtyErr.Path)
	assert.Equal(t, git.StatusModified, dirtyErr.Status)
}

func TestCheckTreeDirectoryAllDeletable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"))
	writeFile(t, filepath.Join(dir, "sub", "b.txt"))

	src := &fakeSource{statuses: map[string]git.FileStatus{
		filepath.Join(dir, "a.txt"):        git.StatusClean,
		filepath.Join(dir, "sub", "b.txt"): git.StatusIgnored,
	}}

	assert.NoError(t, CheckTree(context.Background(), src, dir))
}

func TestCheckTreeDirectoryWithDirtyFileDeep(t *testing.T) {
	dir := t.TempDir()
	dirty := filepath.Join(dir, "a", "b", "dirty.txt")
	writeFile(t, filepath.Join(dir, "top.txt"))
	writeFile(t, dirty)

	src := &fakeSource{statuses: map[string]git.FileStatus{
		dirty: git.StatusUntracked,
	}}

	err := CheckTree(context.Background(), src, dir)
	var dirtyErr *DirtyFileError
	require.True(t, errors.As(err, &dirtyErr))
	assert.Equal(t, dirty, dirtyErr.Path)
	assert.Equal(t, git.StatusUntracked, dirtyErr.Status)
}

func TestCheckTreeIgnoredDirectoryAdmitsWithoutReading(t *testing.T) {
	dir := t.TempDir()
	build := filepath.Join(dir, "build")
	dirty := filepath.Join(build, "dirty.txt")
	writeFile(t, dirty)

	// The dirty file would deny if the contents were read; the ignored
	// directory must early-exit before that.
	src := &fakeSource{
		statuses: map[string]git.FileStatus{dirty: git.StatusModified},
		ignored:  map[string]bool{build: true},
	}

	assert.NoError(t, CheckTree(context.Background(), src, build))
}

func TestCheckTreeUnreadableDirectoryFailsClosed(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits do not apply to root")
	}

	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	writeFile(t, filepath.Join(locked, "f.txt"))
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	src := &fakeSource{}
	err := CheckTree(context.Background(), src, dir)
	var readErr *DirectoryReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, locked, readErr.Path)
}

func TestCheckTreeMissingPathAdmits(t *testing.T) {
	src := &fakeSource{}
	assert.NoError(t, CheckTree(context.Background(), src, filepath.Join(t.TempDir(), "gone")))
}
