// Package recommend implements the recommendation pipeline: filter
// resolution, user similarity ranking, and candidate aggregation.
package recommend

import (
	"context"
	"errors"

	"github.com/hyperjump/honya/internal/catalog"
	"github.com/hyperjump/honya/internal/config"
	"github.com/hyperjump/honya/internal/models"
	"github.com/hyperjump/honya/internal/ratings"
	"go.uber.org/zap"
)

var (
	// ErrNoFilters is returned when no title, author, or year values were supplied.
	ErrNoFilters = errors.New("at least one filter is required")
	// ErrNoMatches is returned when the supplied filters resolve to no catalog books.
	ErrNoMatches = errors.New("no books matched the filters")
)

// Engine runs the recommendation pipeline against an immutable catalog and
// rating index. Engines hold no per-request state, so a single Engine serves
// concurrent requests without locking.
type Engine struct {
	catalog *catalog.Catalog
	ratings *ratings.Index
	config  *config.RecommendConfig
	logger  *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a logger for unmatched-filter warnings.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine over the given catalog and ratings.
func NewEngine(cat *catalog.Catalog, idx *ratings.Index, cfg *config.RecommendConfig, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog: cat,
		ratings: idx,
		config:  cfg,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend resolves filters into a target set, ranks similar users, and
// aggregates their highly-rated books into an ordered recommendation list.
// Returns ErrNoFilters or ErrNoMatches for the two bad-request cases; an
// empty slice with a nil error is a legitimate result.
func (e *Engine) Recommend(ctx context.Context, filters *models.Filters) ([]models.Book, error) {
	if filters == nil || filters.Empty() {
		return nil, ErrNoFilters
	}
	target, err := e.ResolveTargets(filters)
	if err != nil {
		return nil, err
	}
	similar := e.SimilarUsers(target)
	return e.Aggregate(similar, target, filters.Years), nil
}

// Catalog returns the engine's catalog view.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Ratings returns the engine's rating index.
func (e *Engine) Ratings() *ratings.Index {
	return e.ratings
}
