package recommend

import (
	"strconv"

	"github.com/hyperjump/honya/internal/catalog"
	"github.com/hyperjump/honya/internal/models"
	"go.uber.org/zap"
)

// ResolveTargets turns raw filter values into the unioned target ISBN set.
// Unmatched titles and authors are logged and skipped, not errors; the
// request proceeds with whatever did match. Returns ErrNoFilters when every
// filter list is empty and ErrNoMatches when nothing resolved.
func (e *Engine) ResolveTargets(filters *models.Filters) (map[string]struct{}, error) {
	if filters == nil || filters.Empty() {
		return nil, ErrNoFilters
	}

	target := make(map[string]struct{})

	for _, title := range filters.Titles {
		isbn, ok := e.catalog.ByTitleFold(title)
		if !ok {
			e.logger.Warn("title not found", zap.String("title", title))
			continue
		}
		target[isbn] = struct{}{}
	}

	for _, author := range filters.Authors {
		isbns := e.catalog.ByAuthor(catalog.NormalizeAuthor(author))
		if isbns == nil {
			e.logger.Warn("author not found", zap.String("author", author))
			continue
		}
		for isbn := range isbns {
			target[isbn] = struct{}{}
		}
	}

	for decade := range targetDecades(filters.Years) {
		for _, isbn := range e.catalog.ByDecade(decade) {
			target[isbn] = struct{}{}
		}
	}

	if len(target) == 0 {
		return nil, ErrNoMatches
	}
	return target, nil
}

// targetDecades parses the raw year strings into the set of requested
// decades. Values that do not parse as integers match nothing.
func targetDecades(years []string) map[int]struct{} {
	decades := make(map[int]struct{}, len(years))
	for _, y := range years {
		year, err := strconv.Atoi(y)
		if err != nil {
			continue
		}
		decades[models.Decade(year)] = struct{}{}
	}
	return decades
}
