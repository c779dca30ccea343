// Package linker attaches PDF links extracted from the legacy CV to matching
// entries in the canonical bibliography.
package linker

import (
	"strings"

	"github.com/bulbulia/pubkit/internal/bibtex"
	"github.com/bulbulia/pubkit/internal/latex"
)

// Decision records the outcome of one link extraction, for auditability:
// every match (or failure to match) is reported, never silently applied.
type Decision struct {
	Item   string  `json:"item"`
	URL    string  `json:"url"`
	Entry  string  `json:"entry,omitempty"`
	Method string  `json:"method,omitempty"` // doi or title
	Score  float64 `json:"score,omitempty"`  // title similarity, when method is title
	Action string  `json:"action"`           // linked, unchanged, ambiguous, unmatched
}

// Link actions.
const (
	ActionLinked    = "linked"    // file field set or replaced
	ActionUnchanged = "unchanged" // matched, file already carries this URL
	ActionAmbiguous = "ambiguous" // multiple entries equally plausible, skipped
	ActionUnmatched = "unmatched" // no entry matched
)

// Merge attaches each extraction's URL to the best-matching entry, mutating
// entries in place. DOI containment is tried first, then normalized-title
// similarity at or above threshold. An extraction with several equally
// similar candidates is skipped rather than guessed at. Returns the decision
// log and the number of entries whose file field changed.
func Merge(entries []bibtex.Entry, items []latex.Item, threshold float64) ([]Decision, int) {
	decisions := make([]Decision, 0, len(items))
	changed := 0

	for _, it := range items {
		d := Decision{Item: it.Key, URL: it.PDFURL}

		idxs, method, score := match(entries, it, threshold)
		switch len(idxs) {
		case 0:
			d.Action = ActionUnmatched
		case 1:
			e := &entries[idxs[0]]
			d.Entry = e.Key
			d.Method = method
			d.Score = score
			if e.Fields["file"] == it.PDFURL {
				d.Action = ActionUnchanged
			} else {
				e.Fields["file"] = it.PDFURL
				d.Action = ActionLinked
				changed++
			}
		default:
			d.Method = method
			d.Score = score
			d.Action = ActionAmbiguous
		}

		decisions = append(decisions, d)
	}

	return decisions, changed
}

// match returns the candidate entry indexes for an extraction, together with
// the method that produced them. More than one index means the extraction is
// ambiguous.
func match(entries []bibtex.Entry, it latex.Item, threshold float64) ([]int, string, float64) {
	// DOI containment first: CV blocks often carry a truncated or
	// URL-encoded form of the entry's DOI.
	if it.DOI != "" {
		itemDOI := bibtex.NormalizeDOI(it.DOI)
		var idxs []int
		for i := range entries {
			entryDOI := bibtex.NormalizeDOI(entries[i].Fields["doi"])
			if entryDOI == "" {
				continue
			}
			if strings.Contains(entryDOI, itemDOI) || strings.Contains(itemDOI, entryDOI) {
				idxs = append(idxs, i)
			}
		}
		if len(idxs) > 0 {
			return idxs, "doi", 0
		}
	}

	if it.Title == "" {
		return nil, "", 0
	}

	// Title similarity: keep every entry tied for the best score at or above
	// the threshold, so that ties surface as ambiguity.
	best := 0.0
	var idxs []int
	for i := range entries {
		s := Similarity(it.Title, entries[i].Fields["title"])
		if s < threshold {
			continue
		}
		switch {
		case s > best:
			best = s
			idxs = []int{i}
		case s == best:
			idxs = append(idxs, i)
		}
	}
	return idxs, "title", best
}
