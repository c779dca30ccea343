package bibtex

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormat_FieldOrder(t *testing.T) {
	e := Entry{
		Type: "article",
		Key:  "K1",
		Fields: map[string]string{
			"zeta":   "last",
			"doi":    "10.1/x",
			"title":  "T",
			"author": "A",
			"year":   "2020",
		},
	}

	out := Format(e)
	lines := strings.Split(out, "\n")
	want := []string{
		"@article{K1,",
		"  author = {A},",
		"  title = {T},",
		"  year = {2020},",
		"  doi = {10.1/x},",
		"  zeta = {last}",
		"}",
	}
	if len(lines) != len(want) {
		t.Fatalf("Format() = %q", out)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestFormat_Deterministic(t *testing.T) {
	e := Entry{
		Type: "article",
		Key:  "K1",
		Fields: map[string]string{
			"beta": "b", "alpha": "a", "gamma": "c", "delta": "d",
		},
	}
	first := Format(e)
	for i := 0; i < 20; i++ {
		if got := Format(e); got != first {
			t.Fatalf("Format() not deterministic over map iteration")
		}
	}
}

func TestSortEntries(t *testing.T) {
	entries := []Entry{
		{Key: "B_2019", Fields: map[string]string{"year": "2019"}},
		{Key: "Z_2021", Fields: map[string]string{"year": "2021"}},
		{Key: "A_2021", Fields: map[string]string{"year": "2021"}},
		{Key: "NoYear", Fields: map[string]string{}},
	}

	SortEntries(entries)

	wantOrder := []string{"A_2021", "Z_2021", "B_2019", "NoYear"}
	for i, want := range wantOrder {
		if entries[i].Key != want {
			t.Errorf("entries[%d].Key = %q, want %q", i, entries[i].Key, want)
		}
	}
}

func TestWriteFile_Atomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pubs.bib")

	entries := []Entry{{Type: "misc", Key: "K1", Fields: map[string]string{"title": "T"}}}
	if err := WriteFile(path, entries, nil); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	// No temp files left behind
	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Name() != "pubs.bib" {
		names := make([]string, len(files))
		for i, f := range files {
			names[i] = f.Name()
		}
		t.Errorf("directory contents = %v, want only pubs.bib", names)
	}
}

func TestWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pubs.bib")

	first := []Entry{{Type: "misc", Key: "Old", Fields: map[string]string{"title": "Old"}}}
	if err := WriteFile(path, first, nil); err != nil {
		t.Fatal(err)
	}

	second := []Entry{{Type: "misc", Key: "New", Fields: map[string]string{"title": "New"}}}
	if err := WriteFile(path, second, nil); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "Old") {
		t.Errorf("overwrite left stale content: %q", string(data))
	}
}

func TestWriteFile_UnwritableDir(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "pubs.bib"), nil, nil)
	if err == nil {
		t.Fatal("WriteFile() into a missing directory should error")
	}
}
