package main

import (
	"fmt"
	"os"

	"github.com/bulbulia/pubkit/internal/bibtex"
	"github.com/bulbulia/pubkit/internal/config"
	"github.com/bulbulia/pubkit/internal/latex"
	"github.com/spf13/cobra"
)

var (
	convertInput  string
	convertOutput string
)

func init() {
	convertCmd.Flags().StringVar(&convertInput, "input", "", "LaTeX CV to convert (default: configured cv_tex path)")
	convertCmd.Flags().StringVar(&convertOutput, "output", "cv/publications_from_cv.bib", "Output file for the converted entries")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert CV entries into rough bibliography records",
	Long: `Convert every \bibitem in the LaTeX CV into a rough @misc record:
the cleaned block text becomes the note field, and the DOI and PDF link
are preserved when present.

The output is scaffolding for hand curation, not a finished bibliography;
it never touches the canonical file.

Examples:
  pubkit convert
  pubkit convert --output cv/from_cv.bib`,
	RunE: runConvert,
}

// ConvertResult is the response for the convert command.
type ConvertResult struct {
	Input     string `json:"input"`
	Output    string `json:"output"`
	Converted int    `json:"converted"`
	WithDOI   int    `json:"with_doi"`
	WithPDF   int    `json:"with_pdf"`
}

func runConvert(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	input := convertInput
	if input == "" {
		input = config.Resolve(repoRoot, cfg.CVTex)
	}
	output := config.Resolve(repoRoot, convertOutput)

	tex, err := os.ReadFile(input)
	if err != nil {
		exitWithError(ExitError, "reading CV: %v", err)
	}

	entries := latex.Convert(string(tex))
	if len(entries) == 0 {
		exitWithError(ExitDataError, "no \\bibitem blocks found in %s", input)
	}

	res := ConvertResult{Input: input, Output: output, Converted: len(entries)}
	for _, e := range entries {
		if e.Fields["doi"] != "" {
			res.WithDOI++
		}
		if e.Fields["url"] != "" {
			res.WithPDF++
		}
	}

	headers := []string{
		"Rough conversion from the LaTeX CV; hand curation needed",
		fmt.Sprintf("Total entries: %d", len(entries)),
	}
	if err := bibtex.WriteFile(output, entries, headers); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Converting %s...\n", input)
		fmt.Printf("  Converted: %d entries\n", res.Converted)
		fmt.Printf("  With DOI:  %d\n", res.WithDOI)
		fmt.Printf("  With PDF:  %d\n", res.WithPDF)
		fmt.Printf("  Written to %s\n", output)
	} else {
		outputJSON(res)
	}

	return nil
}
