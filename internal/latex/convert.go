package latex

import (
	"regexp"
	"strings"

	"github.com/bulbulia/pubkit/internal/bibtex"
)

var (
	boldGroup = regexp.MustCompile(`\{\\bf\s+([^}]+)\}`)
	textColor = regexp.MustCompile(`\\textcolor\{[^}]+\}\{([^}]+)\}`)
	emphGroup = regexp.MustCompile(`\\emph\{([^}]+)\}`)
)

// Convert turns every \bibitem block into a rough @misc entry carrying the
// cleaned block text as its note, plus the DOI and PDF link when present.
// This is scaffolding for a hand-curated conversion, not a faithful record
// parse: the free text stays free text.
func Convert(content string) []bibtex.Entry {
	var entries []bibtex.Entry
	for _, block := range blocks(content) {
		it := parseBlock(block.key, block.body)

		fields := map[string]string{
			"note": cleanLatex(block.body),
		}
		if it.DOI != "" {
			fields["doi"] = it.DOI
		}
		if it.PDFURL != "" {
			fields["url"] = it.PDFURL
		}

		entries = append(entries, bibtex.Entry{
			Type:   "misc",
			Key:    block.key,
			Fields: fields,
		})
	}
	return entries
}

// cleanLatex strips the formatting commands CV blocks carry so the note field
// reads as plain text.
func cleanLatex(text string) string {
	text = boldGroup.ReplaceAllString(text, "$1")
	text = textColor.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, `\newblock`, "")
	text = emphGroup.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, "~", " ")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
