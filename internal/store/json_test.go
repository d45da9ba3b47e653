package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"

	"github.com/hyperjump/honya/internal/models"
)

func writeShard(t *testing.T, dir, name string, v interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0600); err != nil {
		t.Fatal(err)
	}
}

func TestJSONStore_LoadBooks_ShardOrder(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "books_2.json", []models.Book{{ISBN: "2", Title: "Second"}})
	writeShard(t, dir, "books_1.json", []models.Book{{ISBN: "1", Title: "First"}})

	s := NewJSONStore(dir)
	books, err := s.LoadBooks(context.Background())
	if err != nil {
		t.Fatalf("LoadBooks: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("got %d books, want 2", len(books))
	}
	// Lexical shard order, not directory order.
	if books[0].ISBN != "1" || books[1].ISBN != "2" {
		t.Errorf("order = %s, %s; want 1, 2", books[0].ISBN, books[1].ISBN)
	}
}

func TestJSONStore_LoadRatings(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "books_1.json", []models.Book{{ISBN: "1", Title: "T"}})
	writeShard(t, dir, "ratings_1.json", []models.Rating{
		{UserID: "u1", ISBN: "1", Rating: 8},
		{UserID: "u2", ISBN: "1", Rating: 5},
	})

	s := NewJSONStore(dir)
	ratings, err := s.LoadRatings(context.Background())
	if err != nil {
		t.Fatalf("LoadRatings: %v", err)
	}
	if len(ratings) != 2 {
		t.Errorf("got %d ratings, want 2", len(ratings))
	}
}

func TestJSONStore_MissingShards(t *testing.T) {
	s := NewJSONStore(t.TempDir())
	if _, err := s.LoadBooks(context.Background()); err == nil {
		t.Error("expected error for empty data directory")
	}
}

func TestJSONStore_MalformedShard(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "books_1.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	s := NewJSONStore(dir)
	if _, err := s.LoadBooks(context.Background()); err == nil {
		t.Error("expected parse error")
	}
}
