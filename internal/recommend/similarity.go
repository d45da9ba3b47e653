package recommend

import (
	"sort"

	"github.com/hyperjump/honya/internal/models"
)

// SimilarUsers ranks every user by Jaccard similarity between the target set
// and the user's qualifying set (books rated at or above the high-rating
// threshold). Users with an empty qualifying set or zero similarity are
// skipped. Results are ordered by similarity descending, user ID ascending
// on ties, and truncated to the configured top-N.
func (e *Engine) SimilarUsers(target map[string]struct{}) []models.SimilarUser {
	var similar []models.SimilarUser
	for _, userID := range e.ratings.Users() {
		qualifying := e.qualifyingSet(userID)
		if len(qualifying) == 0 {
			continue
		}
		sim := jaccard(target, qualifying)
		if sim > 0 {
			similar = append(similar, models.SimilarUser{UserID: userID, Similarity: sim})
		}
	}

	sort.Slice(similar, func(i, j int) bool {
		if similar[i].Similarity != similar[j].Similarity {
			return similar[i].Similarity > similar[j].Similarity
		}
		return similar[i].UserID < similar[j].UserID
	})

	if n := e.config.TopSimilarUsers; len(similar) > n {
		similar = similar[:n]
	}
	return similar
}

// qualifyingSet returns the ISBNs the user rated at or above the
// high-rating threshold.
func (e *Engine) qualifyingSet(userID string) map[string]struct{} {
	userRatings := e.ratings.User(userID)
	set := make(map[string]struct{})
	for isbn, rating := range userRatings {
		if rating >= e.config.HighRatingThreshold {
			set[isbn] = struct{}{}
		}
	}
	return set
}

// jaccard computes |a ∩ b| / |a ∪ b|; 0 when both sets are empty.
func jaccard(a, b map[string]struct{}) float64 {
	intersection := 0
	union := len(b)
	for item := range a {
		if _, ok := b[item]; ok {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
