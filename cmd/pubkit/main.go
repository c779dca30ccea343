// Package main provides the pubkit CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/bulbulia/pubkit/internal/config"
	"github.com/bulbulia/pubkit/internal/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pubkit",
	Short: "Bibliography maintenance for a personal academic website",
	Long: `pubkit maintains the canonical bibliography behind the website's CV page.

It cleans raw citation exports into a deduplicated, uniquely-keyed
publications file, merges PDF links from the legacy LaTeX CV, attaches
DOI-matched local PDFs, and audits the collection against the CV.

The .bib file is the single source of truth; an ephemeral SQLite index
backs the list and search commands. All commands output JSON by default.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env if present (for PUBKIT_ROOT overrides in scripts)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// getStartingDirectory returns the directory to start searching for a
// repository. PUBKIT_ROOT takes precedence over the working directory.
func getStartingDirectory() (string, int) {
	if root := os.Getenv("PUBKIT_ROOT"); root != "" {
		return root, 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}
	return cwd, 0
}

// mustFindRepository finds and validates the repository, exits on error.
func mustFindRepository() string {
	start, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	repoRoot, err := config.FindRepository(start)
	if err != nil {
		exitWithError(ExitConfigError, "%v\n\nRun 'pubkit init' at the website root first.", err)
	}
	return repoRoot
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustOpenDatabase opens the SQLite query database, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(repoRoot string) *storage.DB {
	db, err := storage.OpenDB(config.DBPath(repoRoot))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}
