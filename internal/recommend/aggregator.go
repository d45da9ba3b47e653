package recommend

import (
	"sort"

	"github.com/hyperjump/honya/internal/models"
)

// Aggregate tallies recommendation candidates across the top similar users:
// every book a similar user rated at or above the recommend threshold, and
// that is not itself a target, counts once per user toward support. The
// candidates are ordered by support count descending, then average rating
// descending, then ISBN ascending, decade-filtered when the original request
// carried year values, truncated, and resolved to full catalog records.
// Candidates whose ISBN has no catalog record are dropped.
func (e *Engine) Aggregate(similar []models.SimilarUser, target map[string]struct{}, years []string) []models.Book {
	candidates := e.Candidates(similar, target)

	if len(years) > 0 {
		decades := targetDecades(years)
		filtered := candidates[:0]
		for _, c := range candidates {
			book := e.catalog.ByISBN(c.ISBN)
			if book == nil {
				continue
			}
			if _, ok := decades[book.Decade()]; ok {
				filtered = append(filtered, c)
			}
		}
		candidates = filtered
	}

	if m := e.config.MaxRecommendations; len(candidates) > m {
		candidates = candidates[:m]
	}

	books := make([]models.Book, 0, len(candidates))
	for _, c := range candidates {
		if book := e.catalog.ByISBN(c.ISBN); book != nil {
			books = append(books, *book)
		}
	}
	return books
}

// Candidates builds the ranked candidate list before decade filtering and
// truncation. Exposed separately so the scoring can be inspected directly.
func (e *Engine) Candidates(similar []models.SimilarUser, target map[string]struct{}) []models.Candidate {
	type tally struct {
		count int
		total int
	}
	tallies := make(map[string]*tally)

	for _, user := range similar {
		for isbn, rating := range e.ratings.User(user.UserID) {
			if _, isTarget := target[isbn]; isTarget {
				continue
			}
			if rating < e.config.RecommendThreshold {
				continue
			}
			t := tallies[isbn]
			if t == nil {
				t = &tally{}
				tallies[isbn] = t
			}
			t.count++
			t.total += rating
		}
	}

	candidates := make([]models.Candidate, 0, len(tallies))
	for isbn, t := range tallies {
		candidates = append(candidates, models.Candidate{
			ISBN:      isbn,
			Count:     t.count,
			AvgRating: float64(t.total) / float64(t.count),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Count != candidates[j].Count {
			return candidates[i].Count > candidates[j].Count
		}
		if candidates[i].AvgRating != candidates[j].AvgRating {
			return candidates[i].AvgRating > candidates[j].AvgRating
		}
		return candidates[i].ISBN < candidates[j].ISBN
	})
	return candidates
}
