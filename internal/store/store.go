// Package store loads the book catalog and rating set from their persistent
// source. Data is read fully into memory at startup; the loaders have no
// write path beyond the SQLite import used by the CLI.
package store

import (
	"context"
	"fmt"

	"github.com/hyperjump/honya/internal/config"
	"github.com/hyperjump/honya/internal/models"
)

// Loader provides the full book and rating lists from a data source.
type Loader interface {
	LoadBooks(ctx context.Context) ([]models.Book, error)
	LoadRatings(ctx context.Context) ([]models.Rating, error)
	Close() error
}

// Open returns the loader selected by cfg.Source ("json" or "sqlite").
func Open(cfg *config.DataConfig) (Loader, error) {
	switch cfg.Source {
	case "", "json":
		return NewJSONStore(cfg.Dir), nil
	case "sqlite":
		return NewSQLiteStorage(cfg.DatabasePath)
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Source)
	}
}
