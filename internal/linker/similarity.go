package linker

import (
	"strings"

	"github.com/bulbulia/pubkit/internal/bibtex"
)

// stopwords are excluded from title similarity; they match everything.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "in": true, "on": true,
	"for": true, "to": true, "and": true, "with": true, "by": true,
	"from": true, "at": true, "as": true, "is": true, "are": true,
	"was": true, "were": true,
}

// minSignificantWords guards against spurious matches between very short
// titles.
const minSignificantWords = 3

// significantWords returns the normalized content words of a title.
func significantWords(title string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(bibtex.NormalizeTitle(title)) {
		if len(w) > 2 && !stopwords[w] {
			words[w] = true
		}
	}
	return words
}

// Similarity scores two titles by significant-word overlap relative to the
// smaller word set, in [0, 1]. Titles with fewer than minSignificantWords
// significant words score 0: there is not enough signal to judge.
func Similarity(a, b string) float64 {
	wa, wb := significantWords(a), significantWords(b)
	if len(wa) < minSignificantWords || len(wb) < minSignificantWords {
		return 0
	}

	overlap := 0
	for w := range wa {
		if wb[w] {
			overlap++
		}
	}

	min := len(wa)
	if len(wb) < min {
		min = len(wb)
	}
	return float64(overlap) / float64(min)
}
