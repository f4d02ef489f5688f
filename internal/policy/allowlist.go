package policy

import (
	"github.com/chmouel/saferm/internal/pathutil"
)

// AllowEntry is a raw allow-list entry as configured: a directory where
// deletion is always permitted, bypassing containment and status checks.
type AllowEntry struct {
	Path      string
	Recursive bool
}

// resolvedEntry is an AllowEntry after home expansion and one-time
// canonicalization. Canonicalization failure (entry does not exist yet)
// falls back to the expanded path rather than dropping the entry.
type resolvedEntry struct {
	path      string
	recursive bool
}

// AllowList holds entries resolved once at configuration-load time and is
// immutable afterwards.
type AllowList struct {
	entries []resolvedEntry
}

// ResolveAllowList expands and canonicalizes each configured entry.
func ResolveAllowList(entries []AllowEntry) *AllowList {
	resolved := make([]resolvedEntry, 0, len(entries))
	for _, entry := range entries {
		expanded := pathutil.ExpandHome(entry.Path)
		resolved = append(resolved, resolvedEntry{
			path:      pathutil.TryCanonicalize(expanded),
			recursive: entry.Recursive,
		})
	}
	return &AllowList{entries: resolved}
}

// Len returns the number of resolved entries.
func (a *AllowList) Len() int {
	return len(a.entries)
}

// Allows reports whether target is covered by any entry. Recursive entries
// cover the entry directory and everything below it; non-recursive entries
// cover direct children only, not the directory itself and not
// grandchildren. First match wins; admission is an OR across entries.
func (a *AllowList) Allows(cwd, target string) bool {
	if len(a.entries) == 0 {
		return false
	}

	resolved := pathutil.TryCanonicalize(pathutil.ToAbsolute(cwd, target))

	for _, entry := range a.entries {
		if entry.recursive {
			if pathutil.IsWithin(entry.path, resolved) {
				return true
			}
		} else if pathutil.IsDirectChild(entry.path, resolved) {
			return true
		}
	}
	return false
}
