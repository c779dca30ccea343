// Package author matches bibliography author fields against the target
// individual and extracts first-author surnames for citation keys.
package author

import (
	"regexp"
	"strings"
)

// Matcher decides whether an author field names the target individual.
// Matching is by surname: author fields list the same person under many
// spellings ("Bulbulia, Joseph A.", "Bulbulia, J.A.", "Joseph Bulbulia"),
// but the surname is stable across all of them.
type Matcher struct {
	surname string
}

// NewMatcher builds a matcher from a name in "Last, First", "First Last", or
// bare-surname form.
func NewMatcher(name string) Matcher {
	name = strings.TrimSpace(name)
	if name == "" {
		return Matcher{}
	}
	if idx := strings.Index(name, ","); idx >= 0 {
		return Matcher{surname: strings.TrimSpace(name[:idx])}
	}
	parts := strings.Fields(name)
	return Matcher{surname: parts[len(parts)-1]}
}

// Surname returns the surname the matcher keys on.
func (m Matcher) Surname() string {
	return m.surname
}

// MatchesField reports whether an author field mentions the target surname,
// case-insensitively. An empty matcher matches nothing.
func (m Matcher) MatchesField(field string) bool {
	if m.surname == "" || field == "" {
		return false
	}
	return strings.Contains(strings.ToLower(field), strings.ToLower(m.surname))
}

var (
	// LaTeX accent commands applied to a single letter, e.g. {\"u} or \'{e}.
	accentCmd = regexp.MustCompile("\\\\['`^\"~=.uvHtcdbkroB]\\{?([a-zA-Z])\\}?")
	bareCmd   = regexp.MustCompile(`\\[a-zA-Z]+`)
	nonLetter = regexp.MustCompile(`[^a-zA-Z]`)
)

// FirstAuthorSurname extracts the first author's surname from an author
// field, flattening LaTeX accents and protective braces. Returns "" when the
// field is empty.
func FirstAuthorSurname(field string) string {
	field = strings.TrimSpace(field)
	if field == "" {
		return ""
	}

	first := field
	if idx := strings.Index(first, " and "); idx >= 0 {
		first = first[:idx]
	}

	first = accentCmd.ReplaceAllString(first, "$1")
	first = bareCmd.ReplaceAllString(first, "")
	first = strings.NewReplacer("{", "", "}", "").Replace(first)

	var surname string
	if idx := strings.Index(first, ","); idx >= 0 {
		surname = first[:idx]
	} else {
		parts := strings.Fields(first)
		if len(parts) == 0 {
			return ""
		}
		surname = parts[len(parts)-1]
	}

	return nonLetter.ReplaceAllString(surname, "")
}
