package main

import (
	"strings"

	"github.com/spf13/cobra"
)

// DefaultSearchLimit caps search results unless --limit is given.
const DefaultSearchLimit = 50

var searchLimit int

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over the bibliography",
	Long: `Search titles, authors, keys, and years in the query index.

Examples:
  pubkit search ritual
  pubkit search "religion cooperation" --limit 10`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	query := strings.Join(args, " ")
	entries, err := db.Search(query, searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	printEntries(entries, len(entries))
	return nil
}
