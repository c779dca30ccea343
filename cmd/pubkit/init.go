package main

import (
	"fmt"
	"os"

	"github.com/bulbulia/pubkit/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a pubkit repository in the current directory",
	Long: `Create the .pubkit directory and a default config.yml.

Run this once at the root of the website repository, then adjust the
configuration with 'pubkit config'.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	if config.IsRepository(cwd) {
		exitWithError(ExitError, "already a pubkit repository: %s", config.PubkitPath(cwd))
	}

	if err := os.MkdirAll(config.CachePath(cwd), 0755); err != nil {
		exitWithError(ExitError, "creating %s: %v", config.PubkitPath(cwd), err)
	}

	if err := config.Default().Save(cwd); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Initialized pubkit repository at %s\n", config.PubkitPath(cwd))
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: config.PubkitPath(cwd)})
	}

	return nil
}
