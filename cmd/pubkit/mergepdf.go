package main

import (
	"fmt"
	"os"

	"github.com/bulbulia/pubkit/internal/config"
	"github.com/bulbulia/pubkit/internal/latex"
	"github.com/bulbulia/pubkit/internal/linker"
	"github.com/spf13/cobra"
)

var (
	mergeInput  string
	mergeOutput string
)

func init() {
	mergePDFCmd.Flags().StringVar(&mergeInput, "input", "", "Legacy LaTeX CV to read links from (default: configured cv_tex path)")
	mergePDFCmd.Flags().StringVar(&mergeOutput, "output", "", "Canonical bibliography to update (default: configured bib path)")
	rootCmd.AddCommand(mergePDFCmd)
}

var mergePDFCmd = &cobra.Command{
	Use:   "merge-pdf",
	Short: "Merge PDF links from the legacy CV into the bibliography",
	Long: `Extract \href{...}{PDF} links from the legacy LaTeX CV and attach
them as file fields on matching canonical entries.

Matching tries DOI containment first, then normalized-title similarity
above the configured threshold. Extractions with several equally similar
candidates are skipped and reported, never guessed at. Every match
decision is included in the output.

Examples:
  pubkit merge-pdf
  pubkit merge-pdf --input cv/bulbulia-j-a-cv.tex`,
	RunE: runMergePDF,
}

// MergeResult is the response for the merge-pdf command.
type MergeResult struct {
	Input       string            `json:"input"`
	Output      string            `json:"output"`
	Extractions int               `json:"extractions"`
	Linked      int               `json:"linked"`
	Unchanged   int               `json:"unchanged"`
	Ambiguous   int               `json:"ambiguous"`
	Unmatched   int               `json:"unmatched"`
	Rewritten   bool              `json:"rewritten"`
	Decisions   []linker.Decision `json:"decisions"`
}

func runMergePDF(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	input := mergeInput
	if input == "" {
		input = config.Resolve(repoRoot, cfg.CVTex)
	}
	output := mergeOutput
	if output == "" {
		output = config.Resolve(repoRoot, cfg.Bib)
	}

	// A missing CV is fatal: there is nothing to merge.
	tex, err := os.ReadFile(input)
	if err != nil {
		exitWithError(ExitError, "reading CV: %v", err)
	}
	items := latex.LinkedItems(string(tex))

	entries, warnings := mustReadCanonical(output)

	decisions, changed := linker.Merge(entries, items, cfg.TitleThreshold)

	// Rewrite only when a file field actually changed; a second run on the
	// same inputs leaves the canonical file untouched.
	if changed > 0 {
		mustWriteCanonical(output, entries, cfg.Author)
	}

	res := MergeResult{
		Input:       input,
		Output:      output,
		Extractions: len(items),
		Rewritten:   changed > 0,
		Decisions:   decisions,
	}
	for _, d := range decisions {
		switch d.Action {
		case linker.ActionLinked:
			res.Linked++
		case linker.ActionUnchanged:
			res.Unchanged++
		case linker.ActionAmbiguous:
			res.Ambiguous++
		case linker.ActionUnmatched:
			res.Unmatched++
		}
	}

	if humanOutput {
		fmt.Printf("Merging PDF links from %s...\n", input)
		fmt.Printf("  Extractions: %d\n", res.Extractions)
		fmt.Printf("  Linked:      %d\n", res.Linked)
		fmt.Printf("  Unchanged:   %d\n", res.Unchanged)
		fmt.Printf("  Ambiguous:   %d (skipped)\n", res.Ambiguous)
		fmt.Printf("  Unmatched:   %d\n", res.Unmatched)
		if len(decisions) > 0 {
			fmt.Println("\nDecisions:")
			for _, d := range decisions {
				switch d.Action {
				case linker.ActionLinked, linker.ActionUnchanged:
					if d.Method == "title" {
						fmt.Printf("  %-10s %s <- %s (title, %.2f)\n", d.Action, d.Entry, d.Item, d.Score)
					} else {
						fmt.Printf("  %-10s %s <- %s (doi)\n", d.Action, d.Entry, d.Item)
					}
				default:
					fmt.Printf("  %-10s %s\n", d.Action, d.Item)
				}
			}
		}
		if res.Linked == 0 && res.Extractions > 0 {
			fmt.Println("\nwarning: no links merged")
		}
		printWarnings(warnings)
	} else {
		if res.Decisions == nil {
			res.Decisions = []linker.Decision{}
		}
		outputJSON(res)
	}

	return nil
}
