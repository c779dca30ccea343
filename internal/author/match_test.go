package author

import "testing"

func TestNewMatcher(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"last first", "Bulbulia, Joseph A.", "Bulbulia"},
		{"first last", "Joseph A. Bulbulia", "Bulbulia"},
		{"surname only", "Bulbulia", "Bulbulia"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewMatcher(tt.input).Surname(); got != tt.want {
				t.Errorf("NewMatcher(%q).Surname() = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMatchesField(t *testing.T) {
	m := NewMatcher("Bulbulia, Joseph A.")

	tests := []struct {
		name  string
		field string
		want  bool
	}{
		{"last first full", "Bulbulia, Joseph A.", true},
		{"initials", "Bulbulia, J.A.", true},
		{"first last", "Joseph Bulbulia", true},
		{"among coauthors", "Smith, John and Bulbulia, J. and Doe, Jane", true},
		{"lowercase", "bulbulia, j.", true},
		{"no match", "Smith, John", false},
		{"empty field", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.MatchesField(tt.field); got != tt.want {
				t.Errorf("MatchesField(%q) = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}

func TestMatchesField_EmptyMatcher(t *testing.T) {
	if NewMatcher("").MatchesField("Bulbulia, J.") {
		t.Error("empty matcher should match nothing")
	}
}

func TestFirstAuthorSurname(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  string
	}{
		{"last first", "Bulbulia, Joseph A. and Doe, J.", "Bulbulia"},
		{"first last", "Joseph Bulbulia and Jane Doe", "Bulbulia"},
		{"single author", "Smith, John", "Smith"},
		{"latex accent", `M{\"u}ller, Hans`, "Muller"},
		{"accent command", `\'{e}tienne, Marc`, "etienne"},
		{"braces", "{Van Houten}, Rem", "VanHouten"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstAuthorSurname(tt.field); got != tt.want {
				t.Errorf("FirstAuthorSurname(%q) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}
