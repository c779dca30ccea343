package linker

import (
	"testing"

	"github.com/bulbulia/pubkit/internal/bibtex"
	"github.com/bulbulia/pubkit/internal/latex"
)

func testEntries() []bibtex.Entry {
	return []bibtex.Entry{
		{
			Type: "article",
			Key:  "Bulbulia_2020_abc",
			Fields: map[string]string{
				"title": "Ritual and cooperation in small societies",
				"doi":   "10.1093/jrs/abc123",
				"year":  "2020",
			},
		},
		{
			Type: "article",
			Key:  "Bulbulia_2018_xyz",
			Fields: map[string]string{
				"title": "Belief systems and their measurement over time",
				"doi":   "10.5555/xyz.789",
				"year":  "2018",
			},
		},
		{
			Type: "incollection",
			Key:  "Bulbulia_2021_chapter",
			Fields: map[string]string{
				"title": "Religion as an adaptive complex system",
				"year":  "2021",
			},
		},
	}
}

func TestMerge_DOIMatch(t *testing.T) {
	entries := testEntries()
	items := []latex.Item{{
		Key:    "smith2020",
		PDFURL: "https://example.org/smith2020.pdf",
		DOI:    "10.1093/jrs/abc123",
	}}

	decisions, changed := Merge(entries, items, 0.6)
	if changed != 1 {
		t.Fatalf("changed = %d, want 1", changed)
	}
	d := decisions[0]
	if d.Action != ActionLinked || d.Method != "doi" || d.Entry != "Bulbulia_2020_abc" {
		t.Errorf("decision = %+v", d)
	}
	if entries[0].Fields["file"] != "https://example.org/smith2020.pdf" {
		t.Errorf("file = %q", entries[0].Fields["file"])
	}
}

func TestMerge_TruncatedDOIStillMatches(t *testing.T) {
	entries := testEntries()
	items := []latex.Item{{
		Key:    "smith2020",
		PDFURL: "https://example.org/smith2020.pdf",
		DOI:    "10.1093/jrs", // CV carries a truncated form
	}}

	_, changed := Merge(entries, items, 0.6)
	if changed != 1 {
		t.Fatalf("changed = %d, want 1 (containment match)", changed)
	}
	if entries[0].Fields["file"] == "" {
		t.Error("truncated DOI did not link")
	}
}

func TestMerge_TitleFallback(t *testing.T) {
	entries := testEntries()
	items := []latex.Item{{
		Key:    "chapter2021",
		PDFURL: "https://example.org/chapter2021.pdf",
		Title:  "Religion as an adaptive complex system",
	}}

	decisions, changed := Merge(entries, items, 0.6)
	if changed != 1 {
		t.Fatalf("changed = %d, want 1", changed)
	}
	d := decisions[0]
	if d.Method != "title" || d.Entry != "Bulbulia_2021_chapter" {
		t.Errorf("decision = %+v", d)
	}
	if d.Score != 1.0 {
		t.Errorf("Score = %v, want 1.0", d.Score)
	}
}

func TestMerge_BelowThresholdUnmatched(t *testing.T) {
	entries := testEntries()
	items := []latex.Item{{
		Key:    "stranger",
		PDFURL: "https://example.org/stranger.pdf",
		Title:  "Genomic variation across bacterial populations",
	}}

	decisions, changed := Merge(entries, items, 0.6)
	if changed != 0 {
		t.Fatalf("changed = %d, want 0", changed)
	}
	if decisions[0].Action != ActionUnmatched {
		t.Errorf("Action = %q, want %q", decisions[0].Action, ActionUnmatched)
	}
	for _, e := range entries {
		if e.Fields["file"] != "" {
			t.Errorf("entry %s gained a spurious link", e.Key)
		}
	}
}

// Titles with fewer than three significant words carry too little signal
// to distinguish entries, so they never title-match, even verbatim. Such
// items link through their DOI or stay unmatched.
func TestMerge_ShortTitleNeverMatches(t *testing.T) {
	entries := []bibtex.Entry{
		{
			Type: "article",
			Key:  "short",
			Fields: map[string]string{
				"title": "Study X",
				"year":  "2019",
			},
		},
	}
	items := []latex.Item{{
		Key:    "studyx",
		PDFURL: "https://example.org/studyx.pdf",
		Title:  "Study X",
	}}

	decisions, changed := Merge(entries, items, 0.6)
	if changed != 0 {
		t.Fatalf("changed = %d, want 0", changed)
	}
	if decisions[0].Action != ActionUnmatched {
		t.Errorf("Action = %q, want %q", decisions[0].Action, ActionUnmatched)
	}
	if entries[0].Fields["file"] != "" {
		t.Errorf("short title linked: file = %q", entries[0].Fields["file"])
	}
}

func TestMerge_AmbiguousTieSkipped(t *testing.T) {
	entries := []bibtex.Entry{
		{
			Type: "article",
			Key:  "first",
			Fields: map[string]string{
				"title": "Ritual cooperation signaling theory",
			},
		},
		{
			Type: "article",
			Key:  "second",
			Fields: map[string]string{
				"title": "Ritual cooperation signaling practice",
			},
		},
	}
	items := []latex.Item{{
		Key:    "tied",
		PDFURL: "https://example.org/tied.pdf",
		Title:  "Ritual cooperation signaling",
	}}

	decisions, changed := Merge(entries, items, 0.6)
	if changed != 0 {
		t.Fatalf("changed = %d, want 0 (ambiguous ties must not be guessed)", changed)
	}
	if decisions[0].Action != ActionAmbiguous {
		t.Errorf("Action = %q, want %q", decisions[0].Action, ActionAmbiguous)
	}
	for _, e := range entries {
		if e.Fields["file"] != "" {
			t.Errorf("entry %s was linked despite the tie", e.Key)
		}
	}
}

func TestMerge_UnchangedWhenLinkAlreadyPresent(t *testing.T) {
	entries := testEntries()
	entries[0].Fields["file"] = "https://example.org/smith2020.pdf"
	items := []latex.Item{{
		Key:    "smith2020",
		PDFURL: "https://example.org/smith2020.pdf",
		DOI:    "10.1093/jrs/abc123",
	}}

	decisions, changed := Merge(entries, items, 0.6)
	if changed != 0 {
		t.Fatalf("changed = %d, want 0", changed)
	}
	if decisions[0].Action != ActionUnchanged {
		t.Errorf("Action = %q, want %q", decisions[0].Action, ActionUnchanged)
	}
}

func TestMerge_ReplacesStaleLink(t *testing.T) {
	entries := testEntries()
	entries[0].Fields["file"] = "https://old.example.org/moved.pdf"
	items := []latex.Item{{
		Key:    "smith2020",
		PDFURL: "https://example.org/smith2020.pdf",
		DOI:    "10.1093/jrs/abc123",
	}}

	_, changed := Merge(entries, items, 0.6)
	if changed != 1 {
		t.Fatalf("changed = %d, want 1", changed)
	}
	if entries[0].Fields["file"] != "https://example.org/smith2020.pdf" {
		t.Errorf("stale link not replaced: %q", entries[0].Fields["file"])
	}
}

func TestMerge_EveryItemGetsADecision(t *testing.T) {
	entries := testEntries()
	items := []latex.Item{
		{Key: "a", PDFURL: "https://example.org/a.pdf", DOI: "10.1093/jrs/abc123"},
		{Key: "b", PDFURL: "https://example.org/b.pdf"},
		{Key: "c", PDFURL: "https://example.org/c.pdf", Title: "Nothing remotely resembling these"},
	}

	decisions, _ := Merge(entries, items, 0.6)
	if len(decisions) != len(items) {
		t.Fatalf("decisions = %d, want %d (one per extraction)", len(decisions), len(items))
	}
}
