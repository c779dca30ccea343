package main

import (
	"fmt"
	"os"

	"github.com/bulbulia/pubkit/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query index from the canonical bibliography",
	Long: `Rebuild the SQLite query database from the canonical .bib file.

Run this after clean or merge-pdf to refresh list and search results.`,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status  string `json:"status"`
	Entries int    `json:"entries"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	if err := os.MkdirAll(config.CachePath(repoRoot), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	count, err := db.RebuildFromBib(config.Resolve(repoRoot, cfg.Bib))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding index: %v", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt query index with %d entries\n", count)
	} else {
		outputJSON(RebuildResult{Status: "rebuilt", Entries: count})
	}

	return nil
}
