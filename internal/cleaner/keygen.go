package cleaner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bulbulia/pubkit/internal/author"
	"github.com/bulbulia/pubkit/internal/bibtex"
)

var (
	keyChars   = regexp.MustCompile(`[^a-zA-Z0-9]`)
	alnumOnly  = regexp.MustCompile(`[^a-zA-Z0-9]+`)
	titleLimit = 20
)

// baseKey builds the undisambiguated citation key for an entry:
// <FirstAuthorSurname>_<Year>_<suffix>, where the suffix is derived from the
// DOI when present and from the title otherwise.
func baseKey(e bibtex.Entry) string {
	surname := author.FirstAuthorSurname(e.Fields["author"])
	if surname == "" {
		surname = "Unknown"
	}

	year := "XXXX"
	if y := e.Year(); y > 0 {
		year = fmt.Sprintf("%d", y)
	}

	suffix := doiSuffix(e.Fields["doi"])
	if suffix == "" {
		suffix = titleSuffix(e.Fields["title"])
	}
	if suffix == "" {
		return fmt.Sprintf("%s_%s", surname, year)
	}
	return fmt.Sprintf("%s_%s_%s", surname, year, suffix)
}

// doiSuffix returns the sanitized final path segment of a DOI, e.g.
// "10.1/abc" yields "abc". The registrant prefix carries no entropy, the
// tail is what distinguishes works.
func doiSuffix(doi string) string {
	doi = bibtex.NormalizeDOI(doi)
	if doi == "" {
		return ""
	}
	if idx := strings.LastIndex(doi, "/"); idx >= 0 {
		doi = doi[idx+1:]
	}
	return strings.Trim(keyChars.ReplaceAllString(doi, "_"), "_")
}

// titleSuffix returns the first alphanumerics of the title, capped.
func titleSuffix(title string) string {
	t := alnumOnly.ReplaceAllString(title, "")
	if len(t) > titleLimit {
		t = t[:titleLimit]
	}
	return t
}
