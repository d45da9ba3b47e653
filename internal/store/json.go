package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"

	"github.com/hyperjump/honya/internal/models"
)

// JSONStore loads books and ratings from a directory of JSON shard files.
// Every file matching books*.json holds an array of Book records and every
// file matching ratings*.json an array of Rating records; shards are read in
// lexical filename order so catalog order is stable across restarts.
type JSONStore struct {
	dir string
}

// NewJSONStore creates a loader over the given data directory.
func NewJSONStore(dir string) *JSONStore {
	return &JSONStore{dir: dir}
}

// LoadBooks reads and concatenates all book shards.
func (s *JSONStore) LoadBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	err := s.loadShards(ctx, "books*.json", func(data []byte) error {
		var shard []models.Book
		if err := json.Unmarshal(data, &shard); err != nil {
			return err
		}
		books = append(books, shard...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return books, nil
}

// LoadRatings reads and concatenates all rating shards.
func (s *JSONStore) LoadRatings(ctx context.Context) ([]models.Rating, error) {
	var ratings []models.Rating
	err := s.loadShards(ctx, "ratings*.json", func(data []byte) error {
		var shard []models.Rating
		if err := json.Unmarshal(data, &shard); err != nil {
			return err
		}
		ratings = append(ratings, shard...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (s *JSONStore) loadShards(ctx context.Context, pattern string, decode func([]byte) error) error {
	paths, err := filepath.Glob(filepath.Join(s.dir, pattern))
	if err != nil {
		return fmt.Errorf("failed to glob %s: %w", pattern, err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no %s shards found in %s", pattern, s.dir)
	}
	sort.Strings(paths)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read shard %s: %w", path, err)
		}
		if err := decode(data); err != nil {
			return fmt.Errorf("failed to parse shard %s: %w", path, err)
		}
	}
	return nil
}

// Dir returns the shard directory.
func (s *JSONStore) Dir() string {
	return s.dir
}

// Close is a no-op; the store holds no resources between loads.
func (s *JSONStore) Close() error {
	return nil
}
