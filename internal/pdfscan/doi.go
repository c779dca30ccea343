// Package pdfscan extracts DOIs from local PDF files so they can be matched
// against canonical bibliography entries.
package pdfscan

import (
	"regexp"
	"strings"

	"github.com/bulbulia/pubkit/internal/bibtex"
	"github.com/ledongthuc/pdf"
)

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// ExtractDOI extracts a normalized DOI from a PDF file, ready to compare
// against bibliography entries. It searches the first few pages (the DOI is
// almost always on the first).
func ExtractDOI(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	maxPages := 3
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if doi := findDOI(text); doi != "" {
			return doi, nil
		}
	}

	return "", nil // No DOI found (not an error)
}

// findDOI finds a DOI in text and returns it in canonical form.
func findDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		// Remove trailing punctuation
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return bibtex.NormalizeDOI(match)
		}
	}
	return ""
}

// isValidDOI performs basic validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 {
		return false
	}
	if !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	if slashIdx == -1 || slashIdx >= len(doi)-1 {
		return false
	}
	return true
}
