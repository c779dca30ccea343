package bibtex

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// fieldOrder is the display order for well-known fields. Anything else is
// appended alphabetically after these.
var fieldOrder = []string{
	"author", "title", "journal", "booktitle", "volume", "number",
	"pages", "year", "month", "publisher", "doi", "url", "file",
	"issn", "isbn", "editor", "note",
}

// Format renders a single entry in canonical form.
func Format(e Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", e.Type, e.Key)

	var lines []string
	written := make(map[string]bool)
	for _, name := range fieldOrder {
		if v, ok := e.Fields[name]; ok {
			lines = append(lines, fmt.Sprintf("  %s = {%s},", name, v))
			written[name] = true
		}
	}

	var rest []string
	for name := range e.Fields {
		if !written[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		lines = append(lines, fmt.Sprintf("  %s = {%s},", name, e.Fields[name]))
	}

	if len(lines) > 0 {
		lines[len(lines)-1] = strings.TrimSuffix(lines[len(lines)-1], ",")
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n}")
	return b.String()
}

// FormatAll renders entries separated by blank lines, with optional leading
// "%" comment headers. Headers must not contain anything non-deterministic:
// rerunning a transform on unchanged input has to produce identical bytes.
func FormatAll(entries []Entry, headers []string) string {
	var b strings.Builder
	for _, h := range headers {
		fmt.Fprintf(&b, "%% %s\n", h)
	}
	if len(headers) > 0 {
		b.WriteString("\n")
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = Format(e)
	}
	b.WriteString(strings.Join(parts, "\n\n"))
	b.WriteString("\n")
	return b.String()
}

// WriteFile serializes entries to path atomically: the content is written to
// a temporary file in the same directory and renamed into place, so a failed
// run never leaves a truncated bibliography behind.
func WriteFile(path string, entries []Entry, headers []string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(FormatAll(entries, headers)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// SortEntries orders entries by year descending, then key ascending. This is
// the stable on-disk order of the canonical file.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		yi, yj := entries[i].Year(), entries[j].Year()
		if yi != yj {
			return yi > yj
		}
		return entries[i].Key < entries[j].Key
	})
}
