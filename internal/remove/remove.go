// Package remove performs the actual filesystem removal for admitted
// paths. It holds no decision logic; everything reaching it has already
// been cleared by the policy engine.
package remove

import (
	"fmt"
	"os"
)

// Executor deletes files and directories.
type Executor struct{}

// Remove deletes path. Directories require recursive; a non-recursive
// directory removal only succeeds when the directory is empty, matching
// rmdir semantics.
func (Executor) Remove(path string, recursive bool) error {
	info, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("cannot remove '%s': %w", path, err)
	}

	if info.IsDir() {
		if recursive {
			err = os.RemoveAll(path)
		} else {
			err = os.Remove(path)
		}
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		return fmt.Errorf("cannot remove '%s': %w", path, err)
	}
	return nil
}
