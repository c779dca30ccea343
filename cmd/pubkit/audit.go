package main

import (
	"fmt"
	"sort"

	"github.com/bulbulia/pubkit/internal/audit"
	"github.com/bulbulia/pubkit/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(auditCmd)
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit the bibliography for duplicates and incomplete entries",
	Long: `Audit the canonical bibliography: duplicate DOIs, near-duplicate
titles (e.g. preprint/published pairs), entries missing fields the CV
page needs, and a tally of entries by type.`,
	RunE: runAudit,
}

// AuditResult is the response for the audit command.
type AuditResult struct {
	Status  string         `json:"status"`
	Entries int            `json:"entries"`
	Counts  map[string]int `json:"counts"`
	Issues  []audit.Issue  `json:"issues"`
}

func runAudit(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	bibPath := config.Resolve(repoRoot, cfg.Bib)
	entries, warnings := mustReadCanonical(bibPath)

	issues := audit.Duplicates(entries)
	issues = append(issues, audit.Incomplete(entries)...)

	status := "ok"
	if len(issues) > 0 {
		status = "issues"
	}
	if issues == nil {
		issues = []audit.Issue{}
	}

	counts := audit.CountByType(entries)

	if humanOutput {
		if len(issues) == 0 {
			fmt.Printf("Bibliography audit: OK\n\n%d entries checked\n", len(entries))
		} else {
			fmt.Printf("Bibliography audit: %d issues found\n\n", len(issues))
			for _, issue := range issues {
				switch issue.Type {
				case "duplicate_doi":
					fmt.Printf("  [WARN] Duplicate DOI %s\n", issue.DOI)
					fmt.Printf("         Found in: %v\n\n", issue.Keys)
				case "similar_title":
					fmt.Printf("  [WARN] Near-duplicate titles: %v\n\n", issue.Keys)
				case "incomplete":
					fmt.Printf("  [WARN] Incomplete entry %s (%s)\n\n", issue.Key, issue.Detail)
				}
			}
			fmt.Printf("%d entries checked\n", len(entries))
		}
		types := make([]string, 0, len(counts))
		for t := range counts {
			types = append(types, t)
		}
		sort.Strings(types)
		fmt.Println("\nBy type:")
		for _, t := range types {
			fmt.Printf("  %-16s %d\n", t, counts[t])
		}
		printWarnings(warnings)
	} else {
		outputJSON(AuditResult{
			Status:  status,
			Entries: len(entries),
			Counts:  counts,
			Issues:  issues,
		})
	}

	return nil
}
