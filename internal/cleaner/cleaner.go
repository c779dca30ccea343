// Package cleaner turns a raw citation export into the deduplicated,
// filtered, uniquely-keyed collection stored in the canonical bibliography.
package cleaner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bulbulia/pubkit/internal/author"
	"github.com/bulbulia/pubkit/internal/bibtex"
)

// verboseFields are dropped from cleaned entries; they bloat the canonical
// file without being rendered anywhere.
var verboseFields = map[string]bool{
	"keywords":  true,
	"copyright": true,
	"language":  true,
}

var scpTag = regexp.MustCompile(`</?scp>`)

// Options configures a cleaning run.
type Options struct {
	// Target selects which entries to keep: only records whose author field
	// matches survive.
	Target author.Matcher

	// Existing holds entries from a previously written canonical file when
	// merge mode is requested. They are treated as already-survived records:
	// an incoming duplicate replaces one only with strictly more populated
	// fields.
	Existing []bibtex.Entry
}

// Result summarizes a cleaning run.
type Result struct {
	Entries    []bibtex.Entry
	Parsed     int
	Filtered   int // dropped by the author filter
	Duplicates int
	Warnings   []string
}

// Clean runs the full import pipeline on a raw export: parse, scrub, filter,
// deduplicate, assign keys, and order. Per-record problems become warnings;
// only an empty or unparsable export is the caller's concern.
func Clean(raw []byte, opts Options) Result {
	var res Result

	parsed, errs := bibtex.Parse(raw)
	res.Parsed = len(parsed)
	for _, err := range errs {
		res.Warnings = append(res.Warnings, err.Error())
	}

	var kept []bibtex.Entry
	for _, e := range parsed {
		scrub(e)
		if !opts.Target.MatchesField(e.Fields["author"]) {
			res.Filtered++
			continue
		}
		kept = append(kept, e)
	}

	// In merge mode the existing canonical entries go first so that they win
	// ties against incoming records.
	pool := make([]bibtex.Entry, 0, len(opts.Existing)+len(kept))
	pool = append(pool, opts.Existing...)
	pool = append(pool, kept...)

	unique, dups := deduplicate(pool)
	res.Duplicates = dups

	for i := range unique {
		for name := range unique[i].Fields {
			if verboseFields[name] {
				delete(unique[i].Fields, name)
			}
		}
	}

	assignKeys(unique)
	bibtex.SortEntries(unique)
	res.Entries = unique
	return res
}

// scrub removes residual HTML from field values.
func scrub(e bibtex.Entry) {
	for name, v := range e.Fields {
		v = strings.ReplaceAll(v, "&amp;", "&")
		v = scpTag.ReplaceAllString(v, "")
		e.Fields[name] = strings.TrimSpace(v)
	}
}

// deduplicate collapses duplicate records. A normalized DOI match is the
// primary signal; entries whose DOI is absent or differs are still judged
// duplicates when their normalized titles coincide. The entry with more
// populated fields wins; ties keep the first-seen. First-seen positions are
// preserved.
func deduplicate(entries []bibtex.Entry) ([]bibtex.Entry, int) {
	var unique []bibtex.Entry
	byDOI := make(map[string]int)   // normalized DOI -> index in unique
	byTitle := make(map[string]int) // title key -> index in unique
	dups := 0

	for _, e := range entries {
		doi := bibtex.NormalizeDOI(e.Fields["doi"])
		title := bibtex.TitleKey(e.Fields["title"])

		existingIdx := -1
		if doi != "" {
			if idx, ok := byDOI[doi]; ok {
				existingIdx = idx
			}
		}
		if existingIdx < 0 && title != "" {
			if idx, ok := byTitle[title]; ok {
				existingIdx = idx
			}
		}

		if existingIdx >= 0 {
			dups++
			if e.FieldCount() > unique[existingIdx].FieldCount() {
				unique[existingIdx] = e
				if doi != "" {
					byDOI[doi] = existingIdx
				}
				if title != "" {
					byTitle[title] = existingIdx
				}
			}
			continue
		}

		unique = append(unique, e)
		if doi != "" {
			byDOI[doi] = len(unique) - 1
		}
		if title != "" {
			byTitle[title] = len(unique) - 1
		}
	}

	return unique, dups
}

// assignKeys gives every entry a citation key of the form
// <FirstAuthorSurname>_<Year>_<suffix>, disambiguating collisions with an
// incrementing letter suffix in first-seen order.
func assignKeys(entries []bibtex.Entry) {
	counts := make(map[string]int)
	for i := range entries {
		base := baseKey(entries[i])
		if n, ok := counts[base]; ok {
			counts[base] = n + 1
			entries[i].Key = fmt.Sprintf("%s_%c", base, 'a'+n)
		} else {
			counts[base] = 0
			entries[i].Key = base
		}
	}
}
