// Package audit checks the canonical bibliography for duplicates, incomplete
// entries, and items present in the authoritative CV but missing from the
// bibliography.
package audit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bulbulia/pubkit/internal/bibtex"
	"github.com/bulbulia/pubkit/internal/latex"
	"github.com/bulbulia/pubkit/internal/linker"
)

// Issue is a single finding. Type is one of duplicate_doi, similar_title,
// incomplete, missing_from_bib.
type Issue struct {
	Type   string   `json:"type"`
	Key    string   `json:"key,omitempty"`
	Keys   []string `json:"keys,omitempty"`
	DOI    string   `json:"doi,omitempty"`
	Detail string   `json:"detail,omitempty"`
}

// nearDuplicateThreshold is the title similarity above which two distinct
// entries are flagged as probable duplicates (e.g. preprint/published pairs).
const nearDuplicateThreshold = 0.85

// Duplicates flags entries sharing a normalized DOI and pairs of entries
// whose titles are nearly identical.
func Duplicates(entries []bibtex.Entry) []Issue {
	var issues []Issue

	byDOI := make(map[string][]string)
	for _, e := range entries {
		if doi := bibtex.NormalizeDOI(e.Fields["doi"]); doi != "" {
			byDOI[doi] = append(byDOI[doi], e.Key)
		}
	}
	var dois []string
	for doi := range byDOI {
		dois = append(dois, doi)
	}
	sort.Strings(dois)
	for _, doi := range dois {
		if keys := byDOI[doi]; len(keys) > 1 {
			issues = append(issues, Issue{Type: "duplicate_doi", Keys: keys, DOI: doi})
		}
	}

	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			ti, tj := entries[i].Fields["title"], entries[j].Fields["title"]
			if ti == "" || tj == "" {
				continue
			}
			if bibtex.TitleKey(ti) == bibtex.TitleKey(tj) || linker.Similarity(ti, tj) >= nearDuplicateThreshold {
				issues = append(issues, Issue{
					Type: "similar_title",
					Keys: []string{entries[i].Key, entries[j].Key},
				})
			}
		}
	}

	return issues
}

// requiredFields must be present on every entry; journal or booktitle is
// additionally expected on articles and chapters.
var requiredFields = []string{"author", "title", "year"}

// Incomplete flags entries missing fields the CV page needs to render them.
func Incomplete(entries []bibtex.Entry) []Issue {
	var issues []Issue
	for _, e := range entries {
		var missing []string
		for _, f := range requiredFields {
			if strings.TrimSpace(e.Fields[f]) == "" {
				missing = append(missing, f)
			}
		}
		switch e.Type {
		case "article":
			if e.Fields["journal"] == "" {
				missing = append(missing, "journal")
			}
		case "incollection", "inbook", "inproceedings":
			if e.Fields["booktitle"] == "" {
				missing = append(missing, "booktitle")
			}
		}
		if len(missing) > 0 {
			issues = append(issues, Issue{
				Type:   "incomplete",
				Key:    e.Key,
				Detail: fmt.Sprintf("missing %s", strings.Join(missing, ", ")),
			})
		}
	}
	return issues
}

// CountByType tallies entries per entry type.
func CountByType(entries []bibtex.Entry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.Type]++
	}
	return counts
}

// MissingFromBib reports CV items that match no bibliography entry by DOI
// containment or title similarity.
func MissingFromBib(entries []bibtex.Entry, items []latex.Item, threshold float64) []Issue {
	var issues []Issue
	for _, it := range items {
		if it.DOI == "" && it.Title == "" {
			continue // nothing to match on
		}
		if matchesAny(entries, it, threshold) {
			continue
		}
		detail := it.Title
		if detail == "" {
			detail = "doi " + it.DOI
		}
		issues = append(issues, Issue{Type: "missing_from_bib", Key: it.Key, Detail: detail})
	}
	return issues
}

func matchesAny(entries []bibtex.Entry, it latex.Item, threshold float64) bool {
	itemDOI := bibtex.NormalizeDOI(it.DOI)
	for _, e := range entries {
		if itemDOI != "" {
			entryDOI := bibtex.NormalizeDOI(e.Fields["doi"])
			if entryDOI != "" && (strings.Contains(entryDOI, itemDOI) || strings.Contains(itemDOI, entryDOI)) {
				return true
			}
		}
		if it.Title != "" && linker.Similarity(it.Title, e.Fields["title"]) >= threshold {
			return true
		}
	}
	return false
}
