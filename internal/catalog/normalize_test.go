package catalog

import "testing"

func TestNormalizeAuthor(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Frank Herbert", "frank herbert"},
		{"initials with dots", "J.K. Rowling", "jk rowling"},
		{"already normalized", "jk rowling", "jk rowling"},
		{"leading and trailing space", "  Ursula K. Le Guin ", "ursula k le guin"},
		{"unicode stripped", "José Saramago", "jos saramago"},
		{"digits kept", "Author 2", "author 2"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeAuthor(tt.in); got != tt.want {
				t.Errorf("NormalizeAuthor(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeAuthor_CasePunctuationInvariant(t *testing.T) {
	if NormalizeAuthor("J.K. Rowling") != NormalizeAuthor("jk rowling") {
		t.Error("expected identical normalization for case/punctuation variants")
	}
}
