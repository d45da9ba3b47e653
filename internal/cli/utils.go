// Package cli provides output helpers for the honya CLI.
package cli

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/hyperjump/honya/internal/models"
)

// OutputFormat is the format for CLI output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteBooks writes a book list to w in the given format.
func WriteBooks(w io.Writer, books []models.Book, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(books)
	default:
		writeBooksText(w, books)
		return nil
	}
}

func writeBooksText(w io.Writer, books []models.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No books found.")
		return
	}
	fmt.Fprintf(w, "\n%d book(s)\n\n", len(books))
	for i, b := range books {
		fmt.Fprintf(w, "%2d. %s by %s (%d)\n", i+1, b.Title, b.Author, b.Year)
		fmt.Fprintf(w, "    ISBN: %s", b.ISBN)
		if b.Publisher != "" {
			fmt.Fprintf(w, " | Publisher: %s", b.Publisher)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

// WriteTitles writes a plain title list, one per line.
func WriteTitles(w io.Writer, titles []string, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(titles)
	default:
		for _, t := range titles {
			fmt.Fprintln(w, t)
		}
		return nil
	}
}
