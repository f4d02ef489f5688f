package policy

import (
	"errors"
	"fmt"

	"github.com/chmouel/saferm/internal/git"
)

// Exit severities for the process-level outcome. Policy blocks always
// dominate plain file-operation failures in the aggregate.
const (
	ExitOK          = 0
	ExitFileError   = 1
	ExitPolicyBlock = 2
)

// exitCoder is implemented by denials that carry their own severity.
type exitCoder interface {
	ExitCode() int
}

// ExitCode returns the severity for an error. Untyped errors (I/O, git
// backend failures) count as file-operation failures.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var coder exitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return ExitFileError
}

// NotFoundError reports a path that does not exist (severity 1).
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("cannot remove '%s': No such file or directory", e.Path)
}

// ExitCode implements exitCoder.
func (e *NotFoundError) ExitCode() int { return ExitFileError }

// IsDirectoryError reports a directory requested without --recursive
// (severity 1).
type IsDirectoryError struct {
	Path string
}

func (e *IsDirectoryError) Error() string {
	return fmt.Sprintf("cannot remove '%s': Is a directory (use -r for recursive)", e.Path)
}

// ExitCode implements exitCoder.
func (e *IsDirectoryError) ExitCode() int { return ExitFileError }

// PartialFailureError aggregates a multi-path run where some paths were
// removed and others failed with severity-1 errors.
type PartialFailureError struct {
	Success int
	Failed  int
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%d file(s) removed, %d failed", e.Success, e.Failed)
}

// ExitCode implements exitCoder.
func (e *PartialFailureError) ExitCode() int { return ExitFileError }

// OutsideProjectError blocks a path that escapes the project boundary
// (severity 2).
type OutsideProjectError struct {
	Path     string
	Boundary string
}

func (e *OutsideProjectError) Error() string {
	return fmt.Sprintf("refusing to touch paths outside the project\nPath: %s\nProject: %s", e.Path, e.Boundary)
}

// ExitCode implements exitCoder.
func (e *OutsideProjectError) ExitCode() int { return ExitPolicyBlock }

// DirtyFileError blocks a file whose git status makes it irrecoverable if
// deleted (severity 2).
type DirtyFileError struct {
	Path   string
	Status git.FileStatus
}

func (e *DirtyFileError) Error() string {
	return fmt.Sprintf("refusing to remove a file with uncommitted changes\nPath: %s\nStatus: %s\nCommit the change first.", e.Path, e.Status)
}

// ExitCode implements exitCoder.
func (e *DirtyFileError) ExitCode() int { return ExitPolicyBlock }

// DirectoryReadError blocks a subtree whose contents could not be
// enumerated. Fail-closed: an unreadable directory is never "empty"
// (severity 2).
type DirectoryReadError struct {
	Path string
	Err  error
}

func (e *DirectoryReadError) Error() string {
	return fmt.Sprintf("cannot read directory (deletion blocked for safety)\nPath: %s", e.Path)
}

// ExitCode implements exitCoder.
func (e *DirectoryReadError) ExitCode() int { return ExitPolicyBlock }

// Unwrap exposes the underlying read failure.
func (e *DirectoryReadError) Unwrap() error { return e.Err }

// DangerousOptionError blocks rm option spellings the gate refuses to
// honor (severity 2).
type DangerousOptionError struct {
	Option string
}

func (e *DangerousOptionError) Error() string {
	return fmt.Sprintf("dangerous option not permitted: %s\nName the files directly instead.", e.Option)
}

// ExitCode implements exitCoder.
func (e *DangerousOptionError) ExitCode() int { return ExitPolicyBlock }

// ShellExpansionError blocks a path carrying unexpanded shell syntax
// (severity 2). A literal tilde reaching argv means no shell interpreted
// it, so the intended target is ambiguous.
type ShellExpansionError struct {
	Path    string
	Pattern string
}

func (e *ShellExpansionError) Error() string {
	return fmt.Sprintf("paths with unexpanded shell syntax are not permitted\nPath: %s\nPattern: %s\nUse an absolute path instead.", e.Path, e.Pattern)
}

// ExitCode implements exitCoder.
func (e *ShellExpansionError) ExitCode() int { return ExitPolicyBlock }
