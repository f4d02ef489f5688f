package policy

import (
	"context"
	"os"
	"path/filepath"

	"github.com/chmouel/saferm/internal/git"
)

// StatusSource answers the repository queries the evaluator needs. The nil
// source (no repository discovered) treats every path as NotInRepo.
type StatusSource interface {
	// Status classifies a single absolute path.
	Status(ctx context.Context, absPath string) git.FileStatus
	// IsIgnored reports whether the absolute path matches an ignore
	// pattern, including directories matched as a whole.
	IsIgnored(ctx context.Context, absPath string) bool
}

// RepoStatusSource binds a repository handle to its prebuilt status index.
type RepoStatusSource struct {
	Repo  *git.Repo
	Index git.StatusIndex
}

// Status implements StatusSource via the read-through cache.
func (s *RepoStatusSource) Status(ctx context.Context, absPath string) git.FileStatus {
	return s.Repo.Lookup(ctx, s.Index, absPath)
}

// IsIgnored implements StatusSource.
func (s *RepoStatusSource) IsIgnored(ctx context.Context, absPath string) bool {
	return s.Repo.IsIgnored(ctx, absPath)
}

// CheckTree decides whether path and everything beneath it may be
// destroyed. A regular file is deletable iff its status is. A directory
// that matches an ignore pattern is deletable outright, without reading
// its contents; otherwise every contained file must be deletable, checked
// depth-first with the first disqualifying entry reported. An unreadable
// directory always blocks its whole subtree.
func CheckTree(ctx context.Context, src StatusSource, absPath string) error {
	if src == nil {
		return nil
	}

	info, err := os.Lstat(absPath)
	if err != nil {
		// The engine verified existence already; a race here means the
		// path is gone, which cannot lose data.
		return nil
	}
	if info.IsDir() {
		return checkDirectory(ctx, src, absPath)
	}
	return checkFile(ctx, src, absPath)
}

func checkFile(ctx context.Context, src StatusSource, absPath string) error {
	status := src.Status(ctx, absPath)
	if !status.Deletable() {
		return &DirtyFileError{Path: absPath, Status: status}
	}
	return nil
}

func checkDirectory(ctx context.Context, src StatusSource, dir string) error {
	// An ignored directory is disposable as a whole, contents unseen.
	if src.IsIgnored(ctx, dir) {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return &DirectoryReadError{Path: dir, Err: err}
	}

	for _, entry := range entries {
		child := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := checkDirectory(ctx, src, child); err != nil {
				return err
			}
		} else if err := checkFile(ctx, src, child); err != nil {
			return err
		}
	}
	return nil
}
