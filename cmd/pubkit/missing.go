package main

import (
	"fmt"
	"os"

	"github.com/bulbulia/pubkit/internal/audit"
	"github.com/bulbulia/pubkit/internal/config"
	"github.com/bulbulia/pubkit/internal/latex"
	"github.com/spf13/cobra"
)

var missingCV string

func init() {
	missingCmd.Flags().StringVar(&missingCV, "cv", "", "Authoritative LaTeX CV (default: configured cv_tex path)")
	rootCmd.AddCommand(missingCmd)
}

var missingCmd = &cobra.Command{
	Use:   "missing",
	Short: "List CV publications absent from the bibliography",
	Long: `Cross-check the authoritative LaTeX CV against the canonical
bibliography and report CV items that match no entry by DOI or title.`,
	RunE: runMissing,
}

// MissingResult is the response for the missing command.
type MissingResult struct {
	CVItems int           `json:"cv_items"`
	Entries int           `json:"entries"`
	Missing []audit.Issue `json:"missing"`
}

func runMissing(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	cvPath := missingCV
	if cvPath == "" {
		cvPath = config.Resolve(repoRoot, cfg.CVTex)
	}

	tex, err := os.ReadFile(cvPath)
	if err != nil {
		exitWithError(ExitError, "reading CV: %v", err)
	}
	items := latex.Items(string(tex))

	bibPath := config.Resolve(repoRoot, cfg.Bib)
	entries, warnings := mustReadCanonical(bibPath)

	missing := audit.MissingFromBib(entries, items, cfg.TitleThreshold)
	if missing == nil {
		missing = []audit.Issue{}
	}

	if humanOutput {
		if len(missing) == 0 {
			fmt.Printf("All %d CV items are present in the bibliography\n", len(items))
		} else {
			fmt.Printf("%d CV items missing from the bibliography:\n\n", len(missing))
			for _, m := range missing {
				fmt.Printf("  %s\n    %s\n", m.Key, truncateString(m.Detail, TitleTruncateLen))
			}
		}
		printWarnings(warnings)
	} else {
		outputJSON(MissingResult{
			CVItems: len(items),
			Entries: len(entries),
			Missing: missing,
		})
	}

	return nil
}
