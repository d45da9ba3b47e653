// Package models defines core data structures for books, ratings, and recommendation queries.
package models

// Book is a single catalog record. ISBN is the unique key; Publisher and the
// image URLs are opaque metadata carried through to responses unchanged.
// Field names match the upstream dataset's JSON shape.
type Book struct {
	ISBN       string `json:"ISBN"`
	Title      string `json:"Title"`
	Author     string `json:"Author"`
	Year       int    `json:"Year"`
	Publisher  string `json:"Publisher"`
	SmallImage string `json:"SmallImage"`
	MedImage   string `json:"MedImage"`
	LgImage    string `json:"LgImage"`
}

// Decade returns the ten-year bucket containing the book's publication year.
func (b *Book) Decade() int {
	return Decade(b.Year)
}

// Decade buckets a year into its containing ten-year span.
func Decade(year int) int {
	return year / 10 * 10
}

// Rating is one user's rating of one book. Never returned by the API directly.
type Rating struct {
	UserID string `json:"UserID"`
	ISBN   string `json:"ISBN"`
	Rating int    `json:"Rating"`
}
