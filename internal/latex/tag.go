package latex

import (
	"regexp"
	"strings"
)

// Classification is the publication type assigned to one \bibitem block
// during CV tagging.
type Classification struct {
	Key     string `json:"key"`
	Type    string `json:"type"`
	Section string `json:"section"`
}

// Publication types written as % @type{...} tags. Section context decides
// software, preprint, edited-book, and dissertation; content heuristics
// separate reviews, proceedings, and chapters from plain articles.
var sectionPatterns = []struct {
	re   *regexp.Regexp
	name string
}{
	{regexp.MustCompile(`\\subsection\*\{Software\}`), "software"},
	{regexp.MustCompile(`\\subsubsection\*\{Pre-prints\}`), "preprint"},
	{regexp.MustCompile(`\\subsubsection\*\{Edited Books\}`), "edited-book"},
	{regexp.MustCompile(`\\subsubsection\*\{Dissertation\}`), "dissertation"},
	{regexp.MustCompile(`\\subsubsection\*\{\d{4}\}`), "year"},
	{regexp.MustCompile(`\\subsubsection\*\{pre-\d{4}\}`), "year"},
}

var (
	beginBibliography = `\begin{thebibliography}`
	endBibliography   = `\end{thebibliography}`

	typeTagLine = regexp.MustCompile(`^% @type\{`)
	bibitemLine = regexp.MustCompile(`^\s*\\bibitem\{([^}]+)\}`)
	sectionHead = regexp.MustCompile(`\\(?:sub)*section\*?\{`)

	bookReview = regexp.MustCompile(`[Bb]ook review|Review of \{`)
	proceeding = regexp.MustCompile(`(?i)\(proceedings\)`)
	// "In <editors> (Eds.)" or "In ... edited by": book chapters. The bare
	// "\newblock In {\em" form is a chapter only when it is not an
	// "In press, {\em Journal}" note.
	chapterEds    = regexp.MustCompile(`\bIn\b.{1,200}\(Eds?\.\)`)
	chapterEdited = regexp.MustCompile(`(?i)\bIn\b.{1,200}\bedited by\b`)
	chapterInEm   = regexp.MustCompile(`\\newblock\s+In\s+\{\\em\b`)
	inPress       = regexp.MustCompile(`(?i)In press`)
)

// TagCV classifies every \bibitem inside the thebibliography environment and
// inserts a % @type{...} comment line before it, replacing any tag already
// there. Returns the tagged source and the classification of each entry, in
// document order. Retagging already-tagged source is a no-op byte-wise.
func TagCV(content string) (string, []Classification) {
	lines := strings.Split(content, "\n")

	var out []string
	var classified []Classification
	section := "year" // entries before any header are dated publications
	inBib := false

	i := 0
	for i < len(lines) {
		line := lines[i]

		if strings.Contains(line, beginBibliography) {
			inBib = true
			out = append(out, line)
			i++
			continue
		}
		if strings.Contains(line, endBibliography) {
			inBib = false
			out = append(out, line)
			i++
			continue
		}
		if !inBib {
			out = append(out, line)
			i++
			continue
		}

		if sec := detectSection(line); sec != "" {
			section = sec
			out = append(out, line)
			i++
			continue
		}

		if m := bibitemLine.FindStringSubmatch(line); m != nil && !strings.HasPrefix(strings.TrimSpace(line), "%") {
			end := entryEnd(lines, i)
			pubType := classify(strings.Join(lines[i:end], " "), section)
			classified = append(classified, Classification{
				Key:     m[1],
				Type:    pubType,
				Section: section,
			})

			tag := "% @type{" + pubType + "}"
			if len(out) > 0 && typeTagLine.MatchString(out[len(out)-1]) {
				out[len(out)-1] = tag
			} else {
				out = append(out, tag)
			}
			out = append(out, lines[i:end]...)
			i = end
			continue
		}

		out = append(out, line)
		i++
	}

	return strings.Join(out, "\n"), classified
}

// CountTags tallies existing % @type{...} tags in CV source.
func CountTags(content string) map[string]int {
	counts := make(map[string]int)
	tag := regexp.MustCompile(`(?m)^% @type\{([^}]+)\}`)
	for _, m := range tag.FindAllStringSubmatch(content, -1) {
		counts[m[1]]++
	}
	return counts
}

// detectSection returns the section name when the line is an uncommented
// section header the tagger knows, else "".
func detectSection(line string) string {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "%") {
		return ""
	}
	for _, p := range sectionPatterns {
		if p.re.MatchString(trimmed) {
			return p.name
		}
	}
	return ""
}

// entryEnd returns the index just past the last line of the \bibitem entry
// starting at start: the next \bibitem, section header, or bibliography end.
func entryEnd(lines []string, start int) int {
	for j := start + 1; j < len(lines); j++ {
		l := lines[j]
		if bibitemLine.MatchString(l) {
			return j
		}
		if sectionHead.MatchString(l) && !strings.HasPrefix(strings.TrimSpace(l), "%") {
			return j
		}
		if strings.Contains(l, endBibliography) {
			return j
		}
	}
	return len(lines)
}

// classify assigns a publication type from section context and entry text.
func classify(text, section string) string {
	switch section {
	case "software", "preprint", "edited-book", "dissertation":
		return section
	}

	if bookReview.MatchString(text) {
		return "review"
	}
	if proceeding.MatchString(text) {
		return "proceeding"
	}
	if chapterEds.MatchString(text) || chapterEdited.MatchString(text) {
		return "chapter"
	}
	if chapterInEm.MatchString(text) && !inPress.MatchString(text) {
		return "chapter"
	}
	return "article"
}
