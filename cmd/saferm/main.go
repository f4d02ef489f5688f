// Package main is the entry point for saferm, a git-aware deletion gate:
// it only removes paths that are inside the project boundary and carry no
// uncommitted work, unless an allow-list entry says otherwise.
package main

import (
	"fmt"
	"os"

	urfavecli "github.com/urfave/cli/v2"

	"github.com/chmouel/saferm/internal/config"
	"github.com/chmouel/saferm/internal/git"
	"github.com/chmouel/saferm/internal/log"
	"github.com/chmouel/saferm/internal/pathutil"
	"github.com/chmouel/saferm/internal/policy"
	"github.com/chmouel/saferm/internal/remove"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Dangerous spellings are refused before flag parsing so they block
	// with policy severity instead of a generic usage error.
	if err := policy.VetArgs(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "saferm: %v\n", err)
		os.Exit(policy.ExitCode(err))
	}

	cliApp := &urfavecli.App{
		Name:                 "saferm",
		Usage:                "Safe file deletion gate for agents and scripts",
		Description:          "Removes only files that are inside the project boundary and\neither committed clean, ignored, or untracked by any repository.\nAllow-list entries in the configuration bypass all checks.",
		Version:              version,
		ArgsUsage:            "PATH...",
		EnableBashCompletion: true,

		Flags: globalFlags(),

		Commands: []*urfavecli.Command{
			initCommand(),
		},

		Action: run,
	}

	err := cliApp.Run(os.Args)
	_ = log.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "saferm: %v\n", err)
		os.Exit(policy.ExitCode(err))
	}
}

func run(c *urfavecli.Context) error {
	if debugLog := c.String("debug-log"); debugLog != "" {
		if err := log.SetFile(pathutil.ExpandHome(debugLog)); err != nil {
			fmt.Fprintf(os.Stderr, "saferm: warning: cannot open debug log %q: %v\n", debugLog, err)
		}
	}

	cfg := config.Load(c.String("config-file"))

	if c.String("debug-log") == "" {
		if cfg.DebugLog != "" {
			if err := log.SetFile(pathutil.ExpandHome(cfg.DebugLog)); err != nil {
				fmt.Fprintf(os.Stderr, "saferm: warning: cannot open debug log %q: %v\n", cfg.DebugLog, err)
			}
		} else {
			_ = log.SetFile("")
		}
	}

	paths := c.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("missing operand")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("cannot determine working directory: %w", err)
	}

	ctx := c.Context

	// The boundary is the repository toplevel when one encloses cwd, so
	// absolute paths elsewhere in the same repo work; otherwise cwd.
	boundary := cwd
	var source policy.StatusSource
	if repo, ok := git.Discover(ctx, cwd); ok {
		boundary = repo.Dir()
		source = &policy.RepoStatusSource{Repo: repo, Index: repo.BuildStatusIndex(ctx)}
	}

	allowEntries := make([]policy.AllowEntry, 0, len(cfg.AllowedPaths))
	for _, entry := range cfg.AllowedPaths {
		allowEntries = append(allowEntries, policy.AllowEntry{Path: entry.Path, Recursive: entry.Recursive})
	}

	dryRun := c.Bool("dry-run")
	engine := &policy.Engine{
		Boundary: boundary,
		Cwd:      cwd,
		Source:   source,
		Allow:    policy.ResolveAllowList(allowEntries),
		Opts: policy.Options{
			Recursive:            c.Bool("recursive"),
			Force:                c.Bool("force"),
			DryRun:               dryRun,
			AllowProjectDeletion: cfg.AllowProjectDeletion,
		},
		Remover: remove.Executor{},
		OnResult: func(res policy.Result) {
			switch {
			case res.Err != nil:
				fmt.Fprintf(os.Stderr, "saferm: %s: %v\n", res.Path, res.Err)
			case res.Removed && dryRun:
				fmt.Printf("would remove: %s\n", res.Path)
			case res.Removed:
				fmt.Printf("removed: %s\n", res.Path)
			}
		},
	}

	return engine.Run(ctx, paths)
}
