package main

import (
	"fmt"

	"github.com/bulbulia/pubkit/internal/bibtex"
	"github.com/spf13/cobra"
)

var listLimit int

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum results to return (0 = all)")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List bibliography entries",
	Long: `List entries from the query index, newest first.

Examples:
  pubkit list
  pubkit list --limit 20`,
	RunE: runList,
}

// ListEntry is one row of list/search output.
type ListEntry struct {
	Key    string `json:"key"`
	Type   string `json:"type"`
	Year   string `json:"year,omitempty"`
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
	DOI    string `json:"doi,omitempty"`
	File   string `json:"file,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	entries, err := db.ListAll(listLimit)
	if err != nil {
		exitWithError(ExitError, "listing entries: %v", err)
	}

	total, _ := db.Count()
	printEntries(entries, total)
	return nil
}

func printEntries(entries []bibtex.Entry, total int) {
	if humanOutput {
		if len(entries) == 0 {
			fmt.Println("No entries in index (run 'pubkit rebuild' first)")
			return
		}
		if total > len(entries) {
			fmt.Printf("%d entries (showing first %d):\n\n", total, len(entries))
		} else {
			fmt.Printf("%d entries:\n\n", len(entries))
		}
		for _, e := range entries {
			fmt.Printf("  %-32s %s\n", e.Key, truncateString(e.Fields["title"], TitleTruncateLen))
		}
		return
	}

	rows := make([]ListEntry, len(entries))
	for i, e := range entries {
		rows[i] = ListEntry{
			Key:    e.Key,
			Type:   e.Type,
			Year:   e.Fields["year"],
			Title:  e.Fields["title"],
			Author: e.Fields["author"],
			DOI:    e.Fields["doi"],
			File:   e.Fields["file"],
		}
	}
	outputJSON(rows)
}
