package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bulbulia/pubkit/internal/author"
	"github.com/bulbulia/pubkit/internal/bibtex"
	"github.com/bulbulia/pubkit/internal/cleaner"
	"github.com/bulbulia/pubkit/internal/config"
	"github.com/spf13/cobra"
)

var (
	cleanInput  string
	cleanOutput string
	cleanMerge  bool
	cleanDryRun bool
)

func init() {
	cleanCmd.Flags().StringVar(&cleanInput, "input", "", "Raw export to clean (default: configured raw path)")
	cleanCmd.Flags().StringVar(&cleanOutput, "output", "", "Canonical output file (default: configured bib path)")
	cleanCmd.Flags().BoolVar(&cleanMerge, "merge-existing", false, "Merge into the existing output instead of replacing it")
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "Report what would be written without writing")
	rootCmd.AddCommand(cleanCmd)
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean and deduplicate a raw citation export",
	Long: `Clean a raw citation export into the canonical bibliography.

Strips HTML artifacts, keeps only entries authored by the configured
target, deduplicates by DOI (falling back to normalized title), assigns
stable citation keys, and writes the result sorted by year then key.

Examples:
  pubkit clean
  pubkit clean --input cv/publications_orcid_backup.bib
  pubkit clean --merge-existing
  pubkit clean --dry-run`,
	RunE: runClean,
}

// CleanResult is the response for the clean command.
type CleanResult struct {
	Input      string   `json:"input"`
	Output     string   `json:"output"`
	Parsed     int      `json:"parsed"`
	Filtered   int      `json:"filtered"`
	Duplicates int      `json:"duplicates"`
	Written    int      `json:"written"`
	DryRun     bool     `json:"dry_run,omitempty"`
	Warnings   []string `json:"warnings"`
}

func runClean(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	input := cleanInput
	if input == "" {
		input = config.Resolve(repoRoot, cfg.Raw)
	}
	output := cleanOutput
	if output == "" {
		output = config.Resolve(repoRoot, cfg.Bib)
	}

	raw, err := os.ReadFile(input)
	if err != nil {
		exitWithError(ExitError, "reading raw export: %v", err)
	}

	opts := cleaner.Options{Target: author.NewMatcher(cfg.Author)}

	if cleanMerge {
		// Absent output is fine in merge mode: there is nothing to merge
		// into yet.
		existing, _, err := bibtex.ReadFile(output)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			exitWithError(ExitDataError, "%v", err)
		}
		opts.Existing = existing
	}

	res := cleaner.Clean(raw, opts)
	if res.Parsed == 0 {
		exitWithError(ExitDataError, "no entries parsed from %s", input)
	}

	if !cleanDryRun {
		mustWriteCanonical(output, res.Entries, cfg.Author)
	}

	if humanOutput {
		verb := "Wrote"
		if cleanDryRun {
			verb = "Would write"
		}
		fmt.Printf("Cleaning %s...\n", input)
		fmt.Printf("  Parsed:     %d entries\n", res.Parsed)
		fmt.Printf("  Filtered:   %d (author mismatch)\n", res.Filtered)
		fmt.Printf("  Duplicates: %d removed\n", res.Duplicates)
		fmt.Printf("  %s:      %d entries to %s\n", verb, len(res.Entries), output)
		printWarnings(res.Warnings)
	} else {
		if res.Warnings == nil {
			res.Warnings = []string{}
		}
		outputJSON(CleanResult{
			Input:      input,
			Output:     output,
			Parsed:     res.Parsed,
			Filtered:   res.Filtered,
			Duplicates: res.Duplicates,
			Written:    len(res.Entries),
			DryRun:     cleanDryRun,
			Warnings:   res.Warnings,
		})
	}

	return nil
}
