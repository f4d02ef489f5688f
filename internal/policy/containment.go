// Package policy implements the deletion gate: boundary containment, the
// allow-list bypass, git-status evaluation of files and subtrees, and the
// engine that combines them into one verdict per requested path.
package policy

import (
	"github.com/chmouel/saferm/internal/pathutil"
)

// VerifyContainment resolves target to an absolute path and checks that it
// stays inside boundary. Relative targets resolve against cwd, the way the
// invoking shell would read them, not against the boundary. Symlinks are
// resolved once, so a link pointing outside the project is caught here.
//
// This runs before any existence check: the error for an out-of-project
// path must not reveal whether that path exists.
func VerifyContainment(boundary, cwd, target string) (string, error) {
	resolved := pathutil.TryCanonicalize(pathutil.ToAbsolute(cwd, target))
	root := pathutil.TryCanonicalize(boundary)

	if !pathutil.IsWithin(root, resolved) {
		return "", &OutsideProjectError{Path: target, Boundary: boundary}
	}
	return resolved, nil
}
