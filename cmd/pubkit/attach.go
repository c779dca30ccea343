package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bulbulia/pubkit/internal/bibtex"
	"github.com/bulbulia/pubkit/internal/config"
	"github.com/bulbulia/pubkit/internal/pdfscan"
	"github.com/spf13/cobra"
)

var (
	attachPDFRoot string
	attachDryRun  bool
)

func init() {
	attachCmd.Flags().StringVar(&attachPDFRoot, "pdf-root", "", "Folder of local PDFs to scan (default: configured pdf_root)")
	attachCmd.Flags().BoolVar(&attachDryRun, "dry-run", false, "Report matches without writing")
	rootCmd.AddCommand(attachCmd)
}

var attachCmd = &cobra.Command{
	Use:   "attach",
	Short: "Attach DOI-matched local PDFs to bibliography entries",
	Long: `Scan a folder of PDF files, extract a DOI from the first pages of
each, and set the file field of matching canonical entries that lack one.

Examples:
  pubkit attach
  pubkit attach --pdf-root ~/papers --dry-run`,
	RunE: runAttach,
}

// AttachResult is the response for the attach command.
type AttachResult struct {
	PDFRoot  string   `json:"pdf_root"`
	Scanned  int      `json:"scanned"`
	WithDOI  int      `json:"with_doi"`
	Attached int      `json:"attached"`
	DryRun   bool     `json:"dry_run,omitempty"`
	Warnings []string `json:"warnings"`
}

func runAttach(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	pdfRoot := attachPDFRoot
	if pdfRoot == "" {
		pdfRoot = config.Resolve(repoRoot, cfg.PDFRoot)
	}
	if pdfRoot == "" {
		exitWithError(ExitConfigError, "no pdf_root configured; pass --pdf-root or set it with 'pubkit config pdf-root <path>'")
	}

	bibPath := config.Resolve(repoRoot, cfg.Bib)
	entries, warnings := mustReadCanonical(bibPath)

	res := AttachResult{PDFRoot: pdfRoot, DryRun: attachDryRun}

	// DOI -> PDF path for every scannable PDF under the root.
	byDOI := make(map[string]string)
	err := filepath.WalkDir(pdfRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil
		}
		res.Scanned++

		doi, err := pdfscan.ExtractDOI(path)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", path, err))
			return nil
		}
		if doi == "" {
			return nil
		}
		res.WithDOI++
		byDOI[doi] = path
		return nil
	})
	if err != nil {
		exitWithError(ExitError, "scanning %s: %v", pdfRoot, err)
	}

	for i := range entries {
		if entries[i].Fields["file"] != "" {
			continue
		}
		doi := bibtex.NormalizeDOI(entries[i].Fields["doi"])
		if doi == "" {
			continue
		}
		if path, ok := byDOI[doi]; ok {
			entries[i].Fields["file"] = path
			res.Attached++
		}
	}

	if res.Attached > 0 && !attachDryRun {
		mustWriteCanonical(bibPath, entries, cfg.Author)
	}

	if humanOutput {
		fmt.Printf("Scanning %s...\n", pdfRoot)
		fmt.Printf("  PDFs scanned: %d\n", res.Scanned)
		fmt.Printf("  With DOI:     %d\n", res.WithDOI)
		fmt.Printf("  Attached:     %d\n", res.Attached)
		printWarnings(warnings)
	} else {
		if warnings == nil {
			warnings = []string{}
		}
		res.Warnings = warnings
		outputJSON(res)
	}

	return nil
}
