// Package ratings provides the immutable per-user view of all book ratings.
package ratings

import (
	"sort"

	"github.com/hyperjump/honya/internal/models"
)

// Index maps user IDs to their ISBN -> rating mappings. Built once from the
// full rating list and read-only afterwards.
type Index struct {
	users map[string]map[string]int
	total int
}

// NewIndex builds the index. A duplicate (user, ISBN) pair overwrites the
// earlier value, so the last rating in load order wins.
func NewIndex(rs []models.Rating) *Index {
	idx := &Index{users: make(map[string]map[string]int)}
	for _, r := range rs {
		m := idx.users[r.UserID]
		if m == nil {
			m = make(map[string]int)
			idx.users[r.UserID] = m
		}
		if _, seen := m[r.ISBN]; !seen {
			idx.total++
		}
		m[r.ISBN] = r.Rating
	}
	return idx
}

// User returns the ISBN -> rating map for a user, or nil when the user has no
// ratings. The caller must not mutate the returned map.
func (idx *Index) User(id string) map[string]int {
	return idx.users[id]
}

// Users returns all user IDs in ascending order. Sorted so that full
// iterations are deterministic.
func (idx *Index) Users() []string {
	ids := make([]string, 0, len(idx.users))
	for id := range idx.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// UserCount returns the number of distinct users.
func (idx *Index) UserCount() int {
	return len(idx.users)
}

// Len returns the number of distinct (user, ISBN) rating entries.
func (idx *Index) Len() int {
	return idx.total
}
