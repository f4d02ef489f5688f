package main

import (
	"fmt"

	urfavecli "github.com/urfave/cli/v2"

	"github.com/chmouel/saferm/internal/config"
)

// initCommand generates the default configuration file.
func initCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "init",
		Usage: "Create the default configuration file",
		Action: func(c *urfavecli.Context) error {
			path, created, err := config.WriteTemplate()
			if err != nil {
				return err
			}
			if !created {
				fmt.Printf("Config file already exists: %s\n", path)
				fmt.Println("To regenerate, delete the file first and run `saferm init` again.")
				return nil
			}
			fmt.Printf("Created config file: %s\n", path)
			fmt.Println()
			fmt.Println("Default: ~/.claude/skills is allowed (recursive).")
			fmt.Println("Edit the file to add more allowed paths.")
			return nil
		},
	}
}
