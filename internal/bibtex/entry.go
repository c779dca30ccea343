// Package bibtex handles the brace-delimited citation entry format used by
// the canonical bibliography file: parsing, normalization, and serialization.
package bibtex

import (
	"regexp"
	"strconv"
	"strings"
)

// Entry represents one citation entry: a type tag, a citation key, and a
// mapping of field names to free-text values.
type Entry struct {
	Type   string
	Key    string
	Fields map[string]string
}

// FieldCount returns the number of populated fields. Used to decide which of
// two duplicate entries wins.
func (e Entry) FieldCount() int {
	n := 0
	for _, v := range e.Fields {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

// Year returns the entry's publication year, or 0 if absent or unparsable.
func (e Entry) Year() int {
	m := yearDigits.FindString(e.Fields["year"])
	if m == "" {
		return 0
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return y
}

var (
	yearDigits   = regexp.MustCompile(`\d{4}`)
	doiPrefix    = regexp.MustCompile(`^https?://(dx\.)?doi\.org/`)
	latexArgCmd  = regexp.MustCompile(`\\[a-zA-Z]+\{([^}]*)\}`)
	latexBareCmd = regexp.MustCompile(`\\[a-zA-Z]+`)
	nonAlnumWS   = regexp.MustCompile(`[^a-z0-9\s]`)
	multiSpace   = regexp.MustCompile(`\s+`)
	nonAlnum     = regexp.MustCompile(`[^a-z0-9]`)
)

// NormalizeDOI strips URL prefixes and scheme noise from a DOI and lowercases
// it so that values from different sources compare equal.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = doiPrefix.ReplaceAllString(doi, "")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	doi = strings.TrimPrefix(doi, "doi:")
	doi = strings.ReplaceAll(doi, "%2F", "/")
	doi = strings.ReplaceAll(doi, "%2f", "/")
	return strings.ToLower(strings.TrimSpace(doi))
}

// NormalizeTitle lowercases a title, strips LaTeX commands and braces,
// replaces punctuation with spaces, and collapses whitespace.
func NormalizeTitle(title string) string {
	t := latexArgCmd.ReplaceAllString(title, "$1")
	t = latexBareCmd.ReplaceAllString(t, "")
	t = strings.NewReplacer("{", "", "}", "", `\`, "").Replace(t)
	t = strings.ToLower(t)
	t = nonAlnumWS.ReplaceAllString(t, " ")
	t = multiSpace.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// TitleKey reduces a title to bare alphanumerics for exact duplicate checks.
func TitleKey(title string) string {
	return nonAlnum.ReplaceAllString(NormalizeTitle(title), "")
}
