package catalog

import "strings"

// NormalizeAuthor canonicalizes a free-text author name: lowercase, trim, and
// strip every rune that is not a lowercase letter, digit, or space. Catalog
// authors and query authors go through the same function, so matching is
// invariant under case and punctuation ("J.K. Rowling" == "jk rowling").
func NormalizeAuthor(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// foldTitle lowercases a title for case-insensitive lookup.
func foldTitle(title string) string {
	return strings.ToLower(title)
}
