package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/bulbulia/pubkit/internal/config"
	"github.com/bulbulia/pubkit/internal/latex"
	"github.com/spf13/cobra"
)

var (
	tagCVInput  string
	tagCVOutput string
	tagCVDryRun bool
)

func init() {
	tagCVCmd.Flags().StringVar(&tagCVInput, "input", "", "LaTeX CV to tag (default: configured cv_tex path)")
	tagCVCmd.Flags().StringVar(&tagCVOutput, "output", "", "Where to write the tagged CV (default: in place)")
	tagCVCmd.Flags().BoolVar(&tagCVDryRun, "dry-run", false, "Report classifications without writing")
	rootCmd.AddCommand(tagCVCmd)
}

var tagCVCmd = &cobra.Command{
	Use:   "tag-cv",
	Short: "Classify CV entries and insert % @type{...} tags",
	Long: `Classify every \bibitem in the LaTeX CV by section context and
content heuristics (article, chapter, edited-book, proceeding, preprint,
software, dissertation, review) and insert a % @type{...} comment line
before each. Existing tags are replaced, so retagging is idempotent.

Examples:
  pubkit tag-cv --dry-run
  pubkit tag-cv --output cv/tagged.tex`,
	RunE: runTagCV,
}

// TagCVResult is the response for the tag-cv command.
type TagCVResult struct {
	Input           string                 `json:"input"`
	Output          string                 `json:"output"`
	Tagged          int                    `json:"tagged"`
	Counts          map[string]int         `json:"counts"`
	DryRun          bool                   `json:"dry_run,omitempty"`
	Classifications []latex.Classification `json:"classifications"`
}

func runTagCV(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	input := tagCVInput
	if input == "" {
		input = config.Resolve(repoRoot, cfg.CVTex)
	}
	output := tagCVOutput
	if output == "" {
		output = input
	} else {
		output = config.Resolve(repoRoot, output)
	}

	tex, err := os.ReadFile(input)
	if err != nil {
		exitWithError(ExitError, "reading CV: %v", err)
	}

	tagged, classified := latex.TagCV(string(tex))
	counts := make(map[string]int)
	for _, c := range classified {
		counts[c.Type]++
	}

	if !tagCVDryRun {
		if err := os.WriteFile(output, []byte(tagged), 0644); err != nil {
			exitWithError(ExitError, "writing %s: %v", output, err)
		}
	}

	if humanOutput {
		fmt.Printf("Tagging %s...\n\n", input)
		types := make([]string, 0, len(counts))
		for t := range counts {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Printf("  %-14s %d\n", t, counts[t])
		}
		fmt.Printf("  %-14s %d\n\n", "total", len(classified))
		for _, c := range classified {
			fmt.Printf("  [%-12s] %s\n", c.Type, c.Key)
		}
		if tagCVDryRun {
			fmt.Println("\nDry run: nothing written")
		} else {
			fmt.Printf("\nTagged CV written to %s\n", output)
		}
	} else {
		if classified == nil {
			classified = []latex.Classification{}
		}
		outputJSON(TagCVResult{
			Input:           input,
			Output:          output,
			Tagged:          len(classified),
			Counts:          counts,
			DryRun:          tagCVDryRun,
			Classifications: classified,
		})
	}

	return nil
}
