package main

import (
	"strconv"

	"github.com/bulbulia/pubkit/internal/bibtex"
)

// canonicalHeaders returns the comment headers written at the top of the
// canonical file. Deliberately free of timestamps: rerunning a transform on
// unchanged input must produce identical bytes.
func canonicalHeaders(author string, total int) []string {
	return []string{
		"Publications for " + author,
		"Total entries: " + strconv.Itoa(total),
	}
}

// mustReadCanonical loads the canonical bibliography, exiting on a
// structural failure. Per-entry parse problems come back as warnings.
func mustReadCanonical(path string) ([]bibtex.Entry, []string) {
	entries, errs, err := bibtex.ReadFile(path)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	warnings := make([]string, 0, len(errs))
	for _, e := range errs {
		warnings = append(warnings, e.Error())
	}
	return entries, warnings
}

// mustWriteCanonical rewrites the canonical bibliography atomically,
// exiting on failure.
func mustWriteCanonical(path string, entries []bibtex.Entry, author string) {
	if err := bibtex.WriteFile(path, entries, canonicalHeaders(author, len(entries))); err != nil {
		exitWithError(ExitError, "%v", err)
	}
}
