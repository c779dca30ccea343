// Package latex extracts bibliographic fragments from the legacy LaTeX CV:
// \bibitem blocks, their PDF hyperlinks, and nearby identifying text.
package latex

import (
	"regexp"
	"strings"
)

// Item is one \bibitem block reduced to the pieces used for matching against
// the canonical bibliography.
type Item struct {
	Key    string // \bibitem key
	PDFURL string // target of \href{...}{PDF}, empty when absent
	DOI    string // normalized DOI found in the block, empty when absent
	Title  string // best-effort title text, empty when absent
	Year   string // four-digit year in parentheses, empty when absent
}

var (
	bibitemStart = regexp.MustCompile(`\\bibitem\{([^}]+)\}`)
	hrefPDF      = regexp.MustCompile(`\\href\{([^}]+)\}\{PDF\}`)
	yearParen    = regexp.MustCompile(`\((\d{4})\)`)

	doiPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)doi\.org/([^\s}\\,%]+)`),
		regexp.MustCompile(`(?i)DOI[:\s]+([0-9]+\.[^\s}\\,]+)`),
	}

	titlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\{\\em\s+([^}]+)\}`),
		regexp.MustCompile(`\\emph\{([^}]+)\}`),
		regexp.MustCompile(`\\textit\{([^}]+)\}`),
		regexp.MustCompile(`\\newblock\s+([^\\]+?)\\newblock`),
	}

	braces     = regexp.MustCompile(`[{}]`)
	whitespace = regexp.MustCompile(`\s+`)
	doiTrail   = regexp.MustCompile(`[,;.}%]+$`)
)

// minTitleLen rejects extraction fragments too short to be real titles.
const minTitleLen = 10

// Items extracts every \bibitem block from the CV source.
func Items(content string) []Item {
	var items []Item
	for _, block := range blocks(content) {
		items = append(items, parseBlock(block.key, block.body))
	}
	return items
}

// LinkedItems extracts only the blocks that carry a PDF hyperlink. These are
// the link extractions the merger attaches to canonical entries.
func LinkedItems(content string) []Item {
	var items []Item
	for _, it := range Items(content) {
		if it.PDFURL != "" {
			items = append(items, it)
		}
	}
	return items
}

type rawBlock struct {
	key  string
	body string
}

// blocks slices the source into \bibitem bodies. A body runs to the next
// \bibitem, \subsubsection, or \end{document}.
func blocks(content string) []rawBlock {
	starts := bibitemStart.FindAllStringSubmatchIndex(content, -1)
	var out []rawBlock
	for i, m := range starts {
		key := content[m[2]:m[3]]
		begin := m[1]
		end := len(content)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		body := content[begin:end]
		for _, stop := range []string{`\subsubsection`, `\end{document}`} {
			if idx := strings.Index(body, stop); idx >= 0 {
				body = body[:idx]
			}
		}
		out = append(out, rawBlock{key: key, body: body})
	}
	return out
}

func parseBlock(key, body string) Item {
	it := Item{Key: key}

	// PDF link: first \href{...}{PDF} on a non-commented line.
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "%") {
			continue
		}
		if m := hrefPDF.FindStringSubmatch(line); m != nil {
			url := strings.TrimSpace(m[1])
			if url != "" && url != "{}" {
				it.PDFURL = url
				break
			}
		}
	}

	for _, pat := range doiPatterns {
		if m := pat.FindStringSubmatch(body); m != nil {
			doi := doiTrail.ReplaceAllString(m[1], "")
			doi = strings.ReplaceAll(doi, "%2F", "/")
			doi = strings.ReplaceAll(doi, "%2f", "/")
			it.DOI = strings.ToLower(doi)
			break
		}
	}

	for _, pat := range titlePatterns {
		if m := pat.FindStringSubmatch(body); m != nil {
			title := braces.ReplaceAllString(strings.TrimSpace(m[1]), "")
			title = strings.TrimSpace(whitespace.ReplaceAllString(title, " "))
			if len(title) > minTitleLen {
				it.Title = title
				break
			}
		}
	}

	if m := yearParen.FindStringSubmatch(body); m != nil {
		it.Year = m[1]
	}

	return it
}
