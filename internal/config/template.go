package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Template is the commented config written by `saferm init`.
const Template = `# saferm configuration
#
# Directories listed under allowed_paths are always deletable, bypassing
# project containment and git status checks. Tilde (~) expands to the home
# directory.

# Allow deletion of any file inside the current project without requiring
# it to be committed or ignored. Containment is still enforced.
allow_project_deletion: true

allowed_paths:
  # Recursive: everything under the directory is deletable.
  - path: ~/.claude/skills
    recursive: true
  # Non-recursive: only direct children are deletable.
  # - path: /tmp/logs
  #   recursive: false
`

// WriteTemplate creates the config directory and writes the default
// template. It refuses to overwrite an existing file; created reports
// whether a new file was written.
func WriteTemplate() (path string, created bool, err error) {
	path = Path()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return path, false, fmt.Errorf("cannot create directory %s: %w", dir, err)
	}

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	if err := os.WriteFile(path, []byte(Template), 0o600); err != nil {
		return path, false, fmt.Errorf("cannot write config file: %w", err)
	}
	return path, true, nil
}
