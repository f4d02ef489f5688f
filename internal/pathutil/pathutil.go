// Package pathutil provides path normalization helpers shared by the
// containment and allow-list checks.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// ToAbsolute resolves path against base when it is relative. Absolute paths
// are returned unchanged apart from lexical cleaning.
func ToAbsolute(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(base, path))
}

// TryCanonicalize resolves symlinks and returns the real absolute path.
// Canonicalization is best effort: for paths that do not exist or cannot be
// resolved it returns the cleaned input instead of an error. Containment is
// always rechecked by the caller, so a failed resolution never widens what
// is admitted.
func TryCanonicalize(path string) string {
	cleaned := filepath.Clean(path)
	resolved, err := filepath.EvalSymlinks(cleaned)
	if err != nil {
		return cleaned
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return cleaned
	}
	return abs
}

// ExpandHome expands a leading tilde to the user's home directory and
// expands environment variable references.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~"+string(os.PathSeparator)) {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return os.ExpandEnv(path)
}

// IsWithin reports whether target equals base or is a descendant of it.
// Both paths must already be absolute. The comparison is segment-aware so
// /foo does not contain /foobar.
func IsWithin(base, target string) bool {
	base = filepath.Clean(base)
	target = filepath.Clean(target)

	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}

// IsDirectChild reports whether target's immediate parent directory is base.
func IsDirectChild(base, target string) bool {
	return filepath.Dir(filepath.Clean(target)) == filepath.Clean(base)
}
