// Package search provides a Bleve full-text index over book titles and
// authors, backing the /search endpoint.
package search

import (
	"fmt"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/honya/internal/models"
)

// Index wraps a Bleve index keyed by ISBN.
type Index struct {
	index bleve.Index
}

// bookDoc is the indexed shape; only the searchable fields go into Bleve.
type bookDoc struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Result is one search hit.
type Result struct {
	ISBN  string
	Score float64
}

func indexMapping() *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so a query like
	// "herbert" matches the exact token rather than a stemmed form.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	docMapping.AddFieldMappingsAt("author", textFieldMapping)
	im.AddDocumentMapping("book", docMapping)
	im.DefaultType = "book"
	im.DefaultMapping = docMapping
	return im
}

// New builds an index over the given books. With an empty path the index
// lives in memory and is rebuilt on every load; with a path a fresh disk
// index is created, replacing any previous one (the catalog is the source of
// truth, so stale indices are never reused).
func New(path string, books []models.Book) (*Index, error) {
	im := indexMapping()

	var index bleve.Index
	var err error
	if path == "" {
		index, err = bleve.NewMemOnly(im)
	} else {
		if rmErr := os.RemoveAll(path); rmErr != nil {
			return nil, fmt.Errorf("failed to clear index path: %w", rmErr)
		}
		index, err = bleve.New(path, im)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}

	batch := index.NewBatch()
	for i := range books {
		b := &books[i]
		if err := batch.Index(b.ISBN, bookDoc{Title: b.Title, Author: b.Author}); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("failed to index book %s: %w", b.ISBN, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("failed to commit search index batch: %w", err)
	}
	return &Index{index: index}, nil
}

// Search runs a match query over title and author and returns up to limit
// hits. When the exact query has no hits, a fuzzy query is tried so typos
// still find something.
func (idx *Index) Search(query string, limit int) ([]Result, error) {
	results, err := idx.run(bleve.NewMatchQuery(query), limit)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return idx.run(fuzzyQuery(query), limit)
	}
	return results, nil
}

func (idx *Index) run(q blevequery.Query, limit int) ([]Result, error) {
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	res, err := idx.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	out := make([]Result, len(res.Hits))
	for i, hit := range res.Hits {
		out[i] = Result{ISBN: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// fuzzyQuery builds a disjunction of fuzzy term queries with edit distance 2,
// so any term may match (same OR semantics as a match query).
func fuzzyQuery(query string) blevequery.Query {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return bleve.NewMatchQuery(query)
	}
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(2)
		queries = append(queries, fq)
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// DocCount returns the number of indexed books.
func (idx *Index) DocCount() (uint64, error) {
	return idx.index.DocCount()
}

// Close closes the underlying index.
func (idx *Index) Close() error {
	return idx.index.Close()
}
