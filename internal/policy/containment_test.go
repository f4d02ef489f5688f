package policy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/saferm/internal/pathutil"
)

func TestVerifyContainment(t *testing.T) {
	root := pathutil.TryCanonicalize(t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(root, "test.txt"), []byte("x"), 0o600))

	t.Run("relative path inside", func(t *testing.T) {
		resolved, err := VerifyContainment(root, root, "test.txt")
		require.NoError(t, err)
		assert.True(t, pathutil.IsWithin(root, resolved))
	})

	t.Run("absolute path inside", func(t *testing.T) {
		_, err := VerifyContainment(root, root, filepath.Join(root, "test.txt"))
		assert.NoError(t, err)
	})

	t.Run("dot dot staying inside", func(t *testing.T) {
		_, err := VerifyContainment(root, root, "src/../test.txt")
		assert.NoError(t, err)
	})

	t.Run("nonexistent path inside is fine", func(t *testing.T) {
		_, err := VerifyContainment(root, root, "nonexistent.txt")
		assert.NoError(t, err)
	})

	t.Run("relative path resolves against cwd not boundary", func(t *testing.T) {
		sub := filepath.Join(root, "sub")
		require.NoError(t, os.MkdirAll(sub, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(sub, "inner.txt"), []byte("x"), 0o600))

		resolved, err := VerifyContainment(root, sub, "inner.txt")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(pathutil.TryCanonicalize(sub), "inner.txt"), resolved)
	})

	t.Run("absolute path outside", func(t *testing.T) {
		_, err := VerifyContainment(root, root, "/etc/passwd")
		var outside *OutsideProjectError
		require.True(t, errors.As(err, &outside))
		assert.Equal(t, "/etc/passwd", outside.Path)
		assert.Equal(t, root, outside.Boundary)
	})

	t.Run("traversal attack", func(t *testing.T) {
		_, err := VerifyContainment(root, root, "../../../etc/passwd")
		var outside *OutsideProjectError
		assert.True(t, errors.As(err, &outside))
	})

	t.Run("deep traversal from a nested argument", func(t *testing.T) {
		_, err := VerifyContainment(root, root, "a/b/c/d/e/../../../../../..")
		assert.Error(t, err)
	})

	t.Run("parent directory", func(t *testing.T) {
		_, err := VerifyContainment(root, root, "..")
		assert.Error(t, err)
	})

	t.Run("symlink pointing inside", func(t *testing.T) {
		link := filepath.Join(root, "link.txt")
		require.NoError(t, os.Symlink(filepath.Join(root, "test.txt"), link))

		_, err := VerifyContainment(root, root, link)
		assert.NoError(t, err)
	})

	t.Run("symlink escaping the project", func(t *testing.T) {
		outsideDir := t.TempDir()
		target := filepath.Join(outsideDir, "outside.txt")
		require.NoError(t, os.WriteFile(target, []byte("x"), 0o600))
		link := filepath.Join(root, "evil_link.txt")
		require.NoError(t, os.Symlink(target, link))

		_, err := VerifyContainment(root, root, link)
		var outside *OutsideProjectError
		assert.True(t, errors.As(err, &outside))
	})
}
