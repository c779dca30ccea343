package audit

import (
	"strings"
	"testing"

	"github.com/bulbulia/pubkit/internal/bibtex"
	"github.com/bulbulia/pubkit/internal/latex"
)

func entry(typ, key string, fields map[string]string) bibtex.Entry {
	return bibtex.Entry{Type: typ, Key: key, Fields: fields}
}

func TestDuplicates_SharedDOI(t *testing.T) {
	entries := []bibtex.Entry{
		entry("article", "a", map[string]string{
			"title": "One Phrasing of the Work",
			"doi":   "10.1/abc",
		}),
		entry("article", "b", map[string]string{
			"title": "A Different Phrasing Entirely Here",
			"doi":   "https://doi.org/10.1/ABC",
		}),
		entry("article", "c", map[string]string{
			"title": "An Unrelated Bacterial Genomics Study",
			"doi":   "10.9/zzz",
		}),
	}

	issues := Duplicates(entries)
	var dup *Issue
	for i := range issues {
		if issues[i].Type == "duplicate_doi" {
			dup = &issues[i]
		}
	}
	if dup == nil {
		t.Fatal("shared DOI not flagged")
	}
	if dup.DOI != "10.1/abc" {
		t.Errorf("DOI = %q, want normalized 10.1/abc", dup.DOI)
	}
	if len(dup.Keys) != 2 || dup.Keys[0] != "a" || dup.Keys[1] != "b" {
		t.Errorf("Keys = %v", dup.Keys)
	}
}

func TestDuplicates_SimilarTitles(t *testing.T) {
	entries := []bibtex.Entry{
		entry("article", "preprint", map[string]string{
			"title": "Ritual cooperation signaling in religious groups",
			"doi":   "10.1/pre",
		}),
		entry("article", "published", map[string]string{
			"title": "Ritual cooperation signaling in religious groups: a field study",
			"doi":   "10.1/pub",
		}),
	}

	issues := Duplicates(entries)
	if len(issues) != 1 {
		t.Fatalf("issues = %d, want 1", len(issues))
	}
	if issues[0].Type != "similar_title" {
		t.Errorf("Type = %q", issues[0].Type)
	}
	if len(issues[0].Keys) != 2 {
		t.Errorf("Keys = %v", issues[0].Keys)
	}
}

func TestDuplicates_CleanBibliography(t *testing.T) {
	entries := []bibtex.Entry{
		entry("article", "a", map[string]string{
			"title": "Ritual and cooperation in small societies",
			"doi":   "10.1/one",
		}),
		entry("article", "b", map[string]string{
			"title": "Genomic variation across bacterial populations",
			"doi":   "10.2/two",
		}),
	}

	if issues := Duplicates(entries); len(issues) != 0 {
		t.Errorf("clean bibliography flagged: %+v", issues)
	}
}

func TestIncomplete(t *testing.T) {
	entries := []bibtex.Entry{
		entry("article", "ok", map[string]string{
			"author": "Bulbulia, J.", "title": "T", "year": "2020", "journal": "J",
		}),
		entry("article", "nojournal", map[string]string{
			"author": "Bulbulia, J.", "title": "T", "year": "2020",
		}),
		entry("incollection", "nobooktitle", map[string]string{
			"author": "Bulbulia, J.", "title": "T", "year": "2020",
		}),
		entry("book", "noyear", map[string]string{
			"author": "Bulbulia, J.", "title": "T",
		}),
	}

	issues := Incomplete(entries)
	if len(issues) != 3 {
		t.Fatalf("issues = %d, want 3: %+v", len(issues), issues)
	}

	byKey := make(map[string]string)
	for _, is := range issues {
		byKey[is.Key] = is.Detail
	}
	if _, ok := byKey["ok"]; ok {
		t.Error("complete entry flagged")
	}
	if !strings.Contains(byKey["nojournal"], "journal") {
		t.Errorf("nojournal detail = %q", byKey["nojournal"])
	}
	if !strings.Contains(byKey["nobooktitle"], "booktitle") {
		t.Errorf("nobooktitle detail = %q", byKey["nobooktitle"])
	}
	if !strings.Contains(byKey["noyear"], "year") {
		t.Errorf("noyear detail = %q", byKey["noyear"])
	}
}

func TestCountByType(t *testing.T) {
	entries := []bibtex.Entry{
		entry("article", "a", nil),
		entry("article", "b", nil),
		entry("incollection", "c", nil),
	}
	counts := CountByType(entries)
	if counts["article"] != 2 || counts["incollection"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestMissingFromBib(t *testing.T) {
	entries := []bibtex.Entry{
		entry("article", "present", map[string]string{
			"title": "Ritual and cooperation in small societies",
			"doi":   "10.1093/jrs/abc123",
		}),
	}
	items := []latex.Item{
		{Key: "bydoi", DOI: "10.1093/jrs/abc123"},
		{Key: "bytitle", Title: "Ritual and cooperation in small societies"},
		{Key: "absent", Title: "Genomic variation across bacterial populations"},
		{Key: "unidentifiable"}, // no DOI, no title: skipped, not flagged
	}

	issues := MissingFromBib(entries, items, 0.6)
	if len(issues) != 1 {
		t.Fatalf("issues = %d, want 1: %+v", len(issues), issues)
	}
	if issues[0].Key != "absent" || issues[0].Type != "missing_from_bib" {
		t.Errorf("issue = %+v", issues[0])
	}
}
