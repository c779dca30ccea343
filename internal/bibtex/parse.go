package bibtex

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	headBlock   = regexp.MustCompile(`(?is)<head>.*?</head>`)
	htmlTag     = regexp.MustCompile(`<[^>]+>`)
	strayComma  = regexp.MustCompile(`(?m)^\s*,\s*$`)
	entryStart  = regexp.MustCompile(`@(\w+)\s*\{([^,\n]*),`)
	nextEntry   = regexp.MustCompile(`\n@\w+\s*\{`)
	fieldAssign = regexp.MustCompile(`(\w+)\s*=\s*`)
	leadDigits  = regexp.MustCompile(`^\d+`)
)

// Parse extracts citation entries from raw export text. The input may carry
// HTML artifacts from the export tool; those are stripped before scanning.
// Malformed entries are skipped and reported as errors rather than failing
// the whole parse.
func Parse(data []byte) ([]Entry, []error) {
	content := stripHTML(string(data))

	var entries []Entry
	var errs []error

	matches := entryStart.FindAllStringSubmatchIndex(content, -1)
	for i, m := range matches {
		entryType := strings.ToLower(content[m[2]:m[3]])
		key := strings.TrimSpace(content[m[4]:m[5]])

		if key == "" || strings.HasPrefix(key, "<") || strings.Contains(strings.ToLower(key), "http-equiv") {
			errs = append(errs, fmt.Errorf("entry %d: skipping malformed key %q", i+1, key))
			continue
		}

		// Fields run from the end of the entry header to the start of the
		// next entry (or end of input).
		start := m[1]
		end := len(content)
		if loc := nextEntry.FindStringIndex(content[start:]); loc != nil {
			end = start + loc[0]
		}
		body := strings.TrimSpace(content[start:end])
		body = strings.TrimRight(body, ",")
		body = strings.TrimRight(body, "}")
		body = strings.TrimRight(body, ",")

		fields := parseFields(body)
		if len(fields) == 0 {
			errs = append(errs, fmt.Errorf("entry %s: no parseable fields", key))
			continue
		}

		entries = append(entries, Entry{Type: entryType, Key: key, Fields: fields})
	}

	return entries, errs
}

// ReadFile reads and parses a bibliography file. A missing or unreadable
// file is a hard error; per-entry problems come back as warnings.
func ReadFile(path string) ([]Entry, []error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	entries, warns := Parse(data)
	return entries, warns, nil
}

// stripHTML removes HTML artifacts that citation exports sometimes embed:
// whole <head> blocks, loose tags, and stray commas between entries.
func stripHTML(content string) string {
	content = headBlock.ReplaceAllString(content, "")
	content = htmlTag.ReplaceAllString(content, "")
	content = strayComma.ReplaceAllString(content, "")
	return content
}

// parseFields scans "name = value" pairs where the value is braced (with
// nested braces), quoted, or a bare number. The first occurrence of a field
// wins; unparsable values are skipped.
func parseFields(body string) map[string]string {
	fields := make(map[string]string)

	pos := 0
	for pos < len(body) {
		loc := fieldAssign.FindStringSubmatchIndex(body[pos:])
		if loc == nil {
			break
		}
		name := strings.ToLower(body[pos+loc[2] : pos+loc[3]])
		valStart := pos + loc[1]
		if valStart >= len(body) {
			break
		}

		switch body[valStart] {
		case '{':
			value, next, ok := bracedContent(body, valStart)
			if !ok {
				// Unbalanced braces: nothing else in this entry can be
				// trusted, stop here.
				return fields
			}
			if _, seen := fields[name]; !seen {
				fields[name] = value
			}
			pos = next
		case '"':
			end := strings.IndexByte(body[valStart+1:], '"')
			if end < 0 {
				return fields
			}
			if _, seen := fields[name]; !seen {
				fields[name] = body[valStart+1 : valStart+1+end]
			}
			pos = valStart + end + 2
		default:
			if num := leadDigits.FindString(body[valStart:]); num != "" {
				if _, seen := fields[name]; !seen {
					fields[name] = num
				}
				pos = valStart + len(num)
			} else {
				pos = valStart + 1
			}
		}
	}

	return fields
}

// bracedContent returns the text between the brace at start and its matching
// close brace, plus the index just past the close.
func bracedContent(s string, start int) (string, int, bool) {
	if start >= len(s) || s[start] != '{' {
		return "", start, false
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start+1 : i], i + 1, true
			}
		}
	}
	return "", start, false
}
