package linker

import "testing"

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{
			name: "identical titles",
			a:    "Ritual and cooperation in small societies",
			b:    "Ritual and cooperation in small societies",
			want: 1.0,
		},
		{
			name: "case and punctuation ignored",
			a:    "Ritual, Cooperation & Small Societies!",
			b:    "ritual cooperation small societies",
			want: 1.0,
		},
		{
			name: "latex markup stripped",
			a:    `Religion as an {\em adaptive} complex system`,
			b:    "Religion as an adaptive complex system",
			want: 1.0,
		},
		{
			name: "subset title scores against the smaller set",
			a:    "Ritual cooperation societies",
			b:    "Ritual and cooperation in small societies over time",
			want: 1.0,
		},
		{
			name: "partial overlap",
			a:    "Ritual cooperation religion signaling",
			b:    "Ritual cooperation belief measurement",
			want: 0.5,
		},
		{
			name: "unrelated titles",
			a:    "Ritual and cooperation in small societies",
			b:    "Genomic variation across bacterial populations",
			want: 0,
		},
		{
			name: "too few significant words",
			a:    "The Study",
			b:    "The Study",
			want: 0,
		},
		{
			name: "empty title",
			a:    "",
			b:    "Ritual and cooperation in small societies",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similarity(tt.a, tt.b); got != tt.want {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	a := "Ritual cooperation religion signaling"
	b := "Ritual and cooperation in human religion over deep time"
	if Similarity(a, b) != Similarity(b, a) {
		t.Errorf("Similarity is not symmetric: %v vs %v", Similarity(a, b), Similarity(b, a))
	}
}
