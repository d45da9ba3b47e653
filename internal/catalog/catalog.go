// Package catalog provides the immutable in-memory view of all books with
// the derived lookup structures used by the recommendation engine.
package catalog

import (
	"github.com/hyperjump/honya/internal/models"
)

// Catalog is built once from the full book list and is read-only afterwards,
// so it is safe to share across requests without locking.
type Catalog struct {
	books       []models.Book
	byISBN      map[string]*models.Book
	byTitle     map[string]string            // exact title -> ISBN
	byTitleFold map[string]string            // lowercased title -> ISBN
	byAuthor    map[string]map[string]struct{} // normalized author -> ISBN set
	byDecade    map[int][]string             // decade -> ISBNs, catalog order
}

// New builds a catalog from books. Later records win when titles collide,
// matching the upstream dataset's load order semantics; ISBNs are unique.
func New(books []models.Book) *Catalog {
	c := &Catalog{
		books:       books,
		byISBN:      make(map[string]*models.Book, len(books)),
		byTitle:     make(map[string]string, len(books)),
		byTitleFold: make(map[string]string, len(books)),
		byAuthor:    make(map[string]map[string]struct{}),
		byDecade:    make(map[int][]string),
	}
	for i := range books {
		b := &books[i]
		c.byISBN[b.ISBN] = b
		c.byTitle[b.Title] = b.ISBN
		c.byTitleFold[foldTitle(b.Title)] = b.ISBN
		author := NormalizeAuthor(b.Author)
		if c.byAuthor[author] == nil {
			c.byAuthor[author] = make(map[string]struct{})
		}
		c.byAuthor[author][b.ISBN] = struct{}{}
		d := b.Decade()
		c.byDecade[d] = append(c.byDecade[d], b.ISBN)
	}
	return c
}

// ByISBN returns the book with the given ISBN, or nil.
func (c *Catalog) ByISBN(isbn string) *models.Book {
	return c.byISBN[isbn]
}

// ByTitle returns the ISBN for an exact, case-sensitive title match.
func (c *Catalog) ByTitle(title string) (string, bool) {
	isbn, ok := c.byTitle[title]
	return isbn, ok
}

// ByTitleFold returns the ISBN for a case-insensitive title match.
func (c *Catalog) ByTitleFold(title string) (string, bool) {
	isbn, ok := c.byTitleFold[foldTitle(title)]
	return isbn, ok
}

// ByAuthor returns the ISBN set for a normalized author name, or nil.
// The caller must not mutate the returned set.
func (c *Catalog) ByAuthor(normalized string) map[string]struct{} {
	return c.byAuthor[normalized]
}

// ByDecade returns the ISBNs of every book published in the given decade,
// in catalog order.
func (c *Catalog) ByDecade(decade int) []string {
	return c.byDecade[decade]
}

// Books returns the full book list in catalog order.
func (c *Catalog) Books() []models.Book {
	return c.books
}

// Titles returns every book title in catalog order.
func (c *Catalog) Titles() []string {
	titles := make([]string, len(c.books))
	for i := range c.books {
		titles[i] = c.books[i].Title
	}
	return titles
}

// Len returns the number of catalog records.
func (c *Catalog) Len() int {
	return len(c.books)
}
