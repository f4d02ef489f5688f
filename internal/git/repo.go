// Package git discovers the enclosing repository and answers status queries
// for the deletion gate. All interaction goes through the git binary; the
// full-tree scan is done once and point lookups fall back to targeted
// queries for paths the scan did not enumerate.
package git

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/chmouel/saferm/internal/log"
	"github.com/chmouel/saferm/internal/pathutil"
)

// LookupPath is used to locate the git executable. Exposed as a package
// variable so tests can mock a missing binary.
var LookupPath = exec.LookPath

// Repo is a handle to a discovered repository working directory.
type Repo struct {
	dir string
}

// Discover walks up from startDir looking for a repository. The second
// return value is false when startDir is not inside one; the gate fully
// supports that state (every path behaves as NotInRepo).
func Discover(ctx context.Context, startDir string) (*Repo, bool) {
	if _, err := LookupPath("git"); err != nil {
		log.Printf("git not found in PATH, status checks disabled")
		return nil, false
	}

	out, code, err := runGit(ctx, startDir, "rev-parse", "--show-toplevel")
	if err != nil || code != 0 {
		return nil, false
	}
	top := strings.TrimSpace(out)
	if top == "" {
		return nil, false
	}
	return &Repo{dir: pathutil.TryCanonicalize(top)}, true
}

// Dir returns the canonicalized working directory of the repository.
func (r *Repo) Dir() string {
	return r.dir
}

// runGit executes git in dir and returns stdout plus the exit code. A
// non-zero exit is not an error here; callers decide which codes are
// expected for the query at hand.
func runGit(ctx context.Context, dir string, args ...string) (string, int, error) {
	log.Printf("run: git %s (cwd=%s)", strings.Join(args, " "), dir)

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr := strings.TrimSpace(string(exitErr.Stderr))
			if stderr != "" {
				log.Printf("git %s: exit %d: %s", args[0], exitErr.ExitCode(), stderr)
			}
			return string(output), exitErr.ExitCode(), nil
		}
		log.Printf("git %s: %v", args[0], err)
		return "", -1, err
	}
	return string(output), 0, nil
}

// BuildStatusIndex scans the whole repository in one pass: tracked entries
// with pending changes, untracked files (recursing into untracked
// directories), and matching ignored entries. One scan amortizes the cost
// across every requested path. A failed scan degrades to an empty index;
// lookups then fall back to targeted queries per path.
func (r *Repo) BuildStatusIndex(ctx context.Context) StatusIndex {
	out, code, err := runGit(ctx, r.dir,
		"status", "--porcelain=v2", "-z", "--ignored=matching", "--untracked-files=all")
	if err != nil || code != 0 {
		log.Printf("status scan failed (exit %d), falling back to per-path queries", code)
		return StatusIndex{}
	}

	index := StatusIndex{}
	for _, entry := range parseStatusRecords(out) {
		index[entry.path] = entry.status
	}
	log.Printf("status index: %d entries", len(index))
	return index
}

// relPath converts an absolute path to its repository-relative form. The
// second return value is false for paths outside the working directory.
func (r *Repo) relPath(absPath string) (string, bool) {
	rel, err := filepath.Rel(r.dir, absPath)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// Lookup resolves the status of a single absolute path, consulting the
// prebuilt index first. Index misses mean the scan had nothing to report
// for the path: an ignore-pattern check and then a targeted status query
// settle whether it is Ignored, tracked-and-clean, or unknown to git.
func (r *Repo) Lookup(ctx context.Context, index StatusIndex, absPath string) FileStatus {
	rel, ok := r.relPath(absPath)
	if !ok {
		return StatusNotInRepo
	}

	if status, ok := index[filepath.ToSlash(rel)]; ok {
		return status
	}

	if r.isIgnoredRel(ctx, rel) {
		return StatusIgnored
	}

	out, code, err := runGit(ctx, r.dir,
		"status", "--porcelain=v2", "-z", "--ignored=matching", "--", rel)
	if err == nil && code == 0 {
		if entries := parseStatusRecords(out); len(entries) > 0 {
			return entries[0].status
		}
	}

	// Nothing reported: either tracked with no changes, or git has never
	// heard of the path.
	if r.isTracked(ctx, rel) {
		return StatusClean
	}
	return StatusNotInRepo
}

// IsIgnored reports whether the absolute path matches an ignore pattern.
// Directories match as a whole, which lets the policy layer admit an
// ignored subtree without enumerating it.
func (r *Repo) IsIgnored(ctx context.Context, absPath string) bool {
	rel, ok := r.relPath(absPath)
	if !ok || rel == "." {
		return false
	}
	return r.isIgnoredRel(ctx, rel)
}

func (r *Repo) isIgnoredRel(ctx context.Context, rel string) bool {
	// check-ignore exits 0 when the path is ignored, 1 when it is not.
	_, code, err := runGit(ctx, r.dir, "check-ignore", "-q", "--", rel)
	return err == nil && code == 0
}

func (r *Repo) isTracked(ctx context.Context, rel string) bool {
	_, code, err := runGit(ctx, r.dir, "ls-files", "--error-unmatch", "--", rel)
	return err == nil && code == 0
}
