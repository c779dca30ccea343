package latex

import "testing"

const sampleCV = `\documentclass{article}
\begin{document}

\subsubsection{Journal Articles}

\bibitem{smith2020}
Smith, A. and Bulbulia, J. (2020).
\newblock {\em Ritual and cooperation in small societies}.
\newblock Journal of Ritual Studies, 12(3):45--67.
\newblock doi.org/10.1093/jrs/abc123
\href{https://example.org/papers/smith2020.pdf}{PDF}

\bibitem{jones2018}
Jones, B. (2018).
\newblock \emph{Belief systems and their measurement over time}.
% \href{https://example.org/old/jones2018.pdf}{PDF}
\newblock DOI: 10.5555/xyz.789,

\bibitem{empty2015}
Doe, C. (2015).
\newblock Short.

\subsubsection{Book Chapters}

\bibitem{chapter2021}
Bulbulia, J. (2021).
\newblock \textit{Religion as an adaptive complex system}.
\href{https://example.org/papers/chapter2021.pdf}{PDF}

\end{document}
`

func TestItems(t *testing.T) {
	items := Items(sampleCV)
	if len(items) != 4 {
		t.Fatalf("Items() returned %d blocks, want 4", len(items))
	}

	tests := []struct {
		idx    int
		key    string
		pdfURL string
		doi    string
		title  string
		year   string
	}{
		{
			idx:    0,
			key:    "smith2020",
			pdfURL: "https://example.org/papers/smith2020.pdf",
			doi:    "10.1093/jrs/abc123",
			title:  "Ritual and cooperation in small societies",
			year:   "2020",
		},
		{
			idx:    1,
			key:    "jones2018",
			pdfURL: "", // the only \href is on a commented line
			doi:    "10.5555/xyz.789",
			title:  "Belief systems and their measurement over time",
			year:   "2018",
		},
		{
			idx:    2,
			key:    "empty2015",
			pdfURL: "",
			doi:    "",
			title:  "", // fragment too short to be a title
			year:   "2015",
		},
		{
			idx:    3,
			key:    "chapter2021",
			pdfURL: "https://example.org/papers/chapter2021.pdf",
			doi:    "",
			title:  "Religion as an adaptive complex system",
			year:   "2021",
		},
	}

	for _, tt := range tests {
		it := items[tt.idx]
		if it.Key != tt.key {
			t.Errorf("items[%d].Key = %q, want %q", tt.idx, it.Key, tt.key)
		}
		if it.PDFURL != tt.pdfURL {
			t.Errorf("items[%d].PDFURL = %q, want %q", tt.idx, it.PDFURL, tt.pdfURL)
		}
		if it.DOI != tt.doi {
			t.Errorf("items[%d].DOI = %q, want %q", tt.idx, it.DOI, tt.doi)
		}
		if it.Title != tt.title {
			t.Errorf("items[%d].Title = %q, want %q", tt.idx, it.Title, tt.title)
		}
		if it.Year != tt.year {
			t.Errorf("items[%d].Year = %q, want %q", tt.idx, it.Year, tt.year)
		}
	}
}

func TestLinkedItems(t *testing.T) {
	linked := LinkedItems(sampleCV)
	if len(linked) != 2 {
		t.Fatalf("LinkedItems() returned %d items, want 2", len(linked))
	}
	if linked[0].Key != "smith2020" || linked[1].Key != "chapter2021" {
		t.Errorf("linked keys = %q, %q", linked[0].Key, linked[1].Key)
	}
}

func TestItems_BlockBoundaries(t *testing.T) {
	// A section heading after the last \bibitem must not bleed into its body.
	src := `\bibitem{a2020}
Author, A. (2020).
\href{https://example.org/a.pdf}{PDF}
\subsubsection{Next Section}
stray text with doi.org/10.1/should-not-appear
`
	items := Items(src)
	if len(items) != 1 {
		t.Fatalf("Items() returned %d, want 1", len(items))
	}
	if items[0].DOI != "" {
		t.Errorf("DOI %q leaked across a section boundary", items[0].DOI)
	}
}

func TestItems_EmptyHrefIgnored(t *testing.T) {
	src := `\bibitem{b2019}
Author, B. (2019).
\href{ }{PDF}
`
	items := Items(src)
	if len(items) != 1 {
		t.Fatalf("Items() returned %d, want 1", len(items))
	}
	if items[0].PDFURL != "" {
		t.Errorf("PDFURL = %q, want empty for blank href target", items[0].PDFURL)
	}
}

func TestItems_NoBibitems(t *testing.T) {
	if items := Items(`\documentclass{article}\begin{document}\end{document}`); items != nil {
		t.Errorf("Items() on empty document = %v, want nil", items)
	}
}
