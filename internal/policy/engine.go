package policy

import (
	"context"
	"os"
	"strings"

	"github.com/chmouel/saferm/internal/log"
	"github.com/chmouel/saferm/internal/pathutil"
)

// Remover performs the actual removal of an admitted path.
type Remover interface {
	Remove(path string, recursive bool) error
}

// Options carries the per-invocation flags plus the blanket in-project
// allowance from configuration.
type Options struct {
	Recursive bool
	Force     bool
	DryRun    bool
	// AllowProjectDeletion skips the git status check for contained
	// paths. Containment itself is still enforced.
	AllowProjectDeletion bool
}

// Result is the verdict for one requested path.
type Result struct {
	// Path as requested on the command line.
	Path string
	// Resolved absolute path after normalization, empty when the denial
	// happened before resolution.
	Resolved string
	// Bypassed marks admission through the allow-list rather than the
	// standard checks.
	Bypassed bool
	// Removed reports that the path was deleted (or would be, in dry-run).
	// False with a nil Err means --force skipped a missing path.
	Removed bool
	Err     error
}

// Engine evaluates requested paths against the project boundary, the
// allow-list, and repository status, then hands admitted paths to the
// remover. One Engine serves one invocation; all fields are read-only
// during Run.
type Engine struct {
	// Boundary is the project root: the repository working directory when
	// one was discovered, the invocation directory otherwise.
	Boundary string
	// Cwd resolves relative arguments the way the invoking shell would.
	Cwd string
	// Source is nil when no repository was discovered; every status check
	// is then vacuous.
	Source  StatusSource
	Allow   *AllowList
	Opts    Options
	Remover Remover
	// OnResult receives each verdict as it is produced.
	OnResult func(Result)
}

// Run processes every requested path independently, in order, without
// short-circuiting on failure, then reduces the verdicts: a policy block
// dominates the outcome, otherwise failures mixed with successes become a
// partial-failure summary.
func (e *Engine) Run(ctx context.Context, paths []string) error {
	var success, failed int
	var dominant error

	for _, path := range paths {
		res := e.process(ctx, path)
		if e.OnResult != nil {
			e.OnResult(res)
		}
		if res.Err != nil {
			failed++
			if dominant == nil || ExitCode(res.Err) > ExitCode(dominant) {
				dominant = res.Err
			}
			continue
		}
		if res.Removed {
			success++
		}
	}

	if failed == 0 {
		return nil
	}
	if ExitCode(dominant) == ExitPolicyBlock {
		return dominant
	}
	return &PartialFailureError{Success: success, Failed: failed}
}

// process runs the per-path pipeline: shell-syntax vetting, allow-list
// bypass, containment, existence, the directory flag, and the status
// check. The allow-list is an administrator-declared exception and wins
// over containment outright.
func (e *Engine) process(ctx context.Context, path string) Result {
	res := Result{Path: path}

	if strings.HasPrefix(path, "~") {
		res.Err = &ShellExpansionError{Path: path, Pattern: "~"}
		return res
	}

	abs := pathutil.ToAbsolute(e.Cwd, path)

	if e.Allow != nil && e.Allow.Allows(e.Cwd, path) {
		log.Printf("allow-list bypass: %s", path)
		res.Bypassed = true
		res.Resolved = pathutil.TryCanonicalize(abs)
		e.admit(ctx, &res, abs, true)
		return res
	}

	// Containment runs before the existence check so the denial for an
	// out-of-project path never reveals whether it exists.
	resolved, err := VerifyContainment(e.Boundary, e.Cwd, path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Resolved = resolved
	e.admit(ctx, &res, abs, false)
	return res
}

// admit finishes the pipeline for a path that passed (or bypassed) the
// containment check. abs is the uncanonicalized absolute path; removal
// targets it so that deleting through a symlink removes the link, while
// status checks use the canonical form.
func (e *Engine) admit(ctx context.Context, res *Result, abs string, bypassed bool) {
	info, err := os.Stat(abs)
	if err != nil {
		if e.Opts.Force {
			// --force: a missing path is not an error, and nothing is
			// removed.
			log.Printf("force: skipping missing path %s", abs)
			return
		}
		res.Err = &NotFoundError{Path: abs}
		return
	}

	if info.IsDir() && !e.Opts.Recursive {
		res.Err = &IsDirectoryError{Path: abs}
		return
	}

	if !bypassed && !e.Opts.AllowProjectDeletion {
		if err := CheckTree(ctx, e.Source, res.Resolved); err != nil {
			res.Err = err
			return
		}
	}

	if e.Opts.DryRun {
		res.Removed = true
		return
	}
	if err := e.Remover.Remove(abs, e.Opts.Recursive); err != nil {
		res.Err = err
		return
	}
	log.Printf("removed: %s", abs)
	res.Removed = true
}

// dangerousOptions are rm spellings the gate refuses outright: they widen
// the blast radius beyond explicitly named paths.
var dangerousOptions = map[string]struct{}{
	"--no-preserve-root": {},
	"--files0-from":      {},
}

// VetArgs scans raw command-line arguments for dangerous option spellings
// before normal flag parsing. Everything after "--" is a path and exempt.
func VetArgs(args []string) error {
	for _, arg := range args {
		if arg == "--" {
			return nil
		}
		name, _, _ := strings.Cut(arg, "=")
		if _, bad := dangerousOptions[name]; bad {
			return &DangerousOptionError{Option: name}
		}
	}
	return nil
}
