package recommend

import (
	"fmt"
	"testing"

	"github.com/hyperjump/honya/internal/models"
)

func TestJaccard(t *testing.T) {
	set := func(items ...string) map[string]struct{} {
		s := make(map[string]struct{}, len(items))
		for _, it := range items {
			s[it] = struct{}{}
		}
		return s
	}
	tests := []struct {
		name string
		a, b map[string]struct{}
		want float64
	}{
		{"disjoint", set("1", "2"), set("3", "4"), 0},
		{"identical", set("1", "2"), set("1", "2"), 1},
		{"half overlap", set("1", "2"), set("2", "3"), 1.0 / 3.0},
		{"subset", set("1"), set("1", "2"), 0.5},
		{"both empty", set(), set(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jaccard(tt.a, tt.b); got != tt.want {
				t.Errorf("jaccard = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimilarUsers_ThresholdAndBounds(t *testing.T) {
	books := testCatalogBooks()
	// u1 overlaps the target; u2's only rating is below the high-rating
	// threshold so their qualifying set is empty; u3 has no overlap at all.
	rs := []models.Rating{
		{UserID: "u1", ISBN: "1", Rating: 8},
		{UserID: "u1", ISBN: "3", Rating: 6},
		{UserID: "u2", ISBN: "1", Rating: 3},
		{UserID: "u3", ISBN: "4", Rating: 9},
	}
	e := testEngine(books, rs)
	target := map[string]struct{}{"1": {}}

	similar := e.SimilarUsers(target)
	if len(similar) != 1 {
		t.Fatalf("similar = %v, want only u1", similar)
	}
	if similar[0].UserID != "u1" {
		t.Errorf("user = %s, want u1", similar[0].UserID)
	}
	for _, s := range similar {
		if s.Similarity <= 0 || s.Similarity > 1 {
			t.Errorf("similarity %v out of (0, 1]", s.Similarity)
		}
	}
}

func TestSimilarUsers_TruncatesToTopN(t *testing.T) {
	books := testCatalogBooks()
	var rs []models.Rating
	for i := 0; i < 8; i++ {
		rs = append(rs, models.Rating{UserID: fmt.Sprintf("u%d", i), ISBN: "1", Rating: 9})
	}
	e := testEngine(books, rs)
	similar := e.SimilarUsers(map[string]struct{}{"1": {}})
	if len(similar) != 5 {
		t.Errorf("got %d similar users, want 5", len(similar))
	}
}

func TestSimilarUsers_TieBreakByUserID(t *testing.T) {
	books := testCatalogBooks()
	// Identical profiles, so identical similarity; order must be user ID ascending.
	rs := []models.Rating{
		{UserID: "zed", ISBN: "1", Rating: 9},
		{UserID: "amy", ISBN: "1", Rating: 9},
	}
	e := testEngine(books, rs)
	similar := e.SimilarUsers(map[string]struct{}{"1": {}})
	if len(similar) != 2 || similar[0].UserID != "amy" || similar[1].UserID != "zed" {
		t.Errorf("similar = %v, want amy before zed", similar)
	}
}

func TestSimilarUsers_RanksHigherOverlapFirst(t *testing.T) {
	books := testCatalogBooks()
	rs := []models.Rating{
		// close: qualifying set exactly equals the target.
		{UserID: "close", ISBN: "1", Rating: 9},
		{UserID: "close", ISBN: "2", Rating: 9},
		// far: one of two target books, plus two extra.
		{UserID: "far", ISBN: "1", Rating: 9},
		{UserID: "far", ISBN: "3", Rating: 9},
		{UserID: "far", ISBN: "4", Rating: 9},
	}
	e := testEngine(books, rs)
	similar := e.SimilarUsers(map[string]struct{}{"1": {}, "2": {}})
	if len(similar) != 2 {
		t.Fatalf("similar = %v", similar)
	}
	if similar[0].UserID != "close" {
		t.Errorf("first = %s, want close", similar[0].UserID)
	}
	if similar[0].Similarity != 1.0 {
		t.Errorf("close similarity = %v, want 1", similar[0].Similarity)
	}
	if similar[1].Similarity != 0.25 {
		t.Errorf("far similarity = %v, want 0.25", similar[1].Similarity)
	}
}

func TestSimilarUsers_NoPositiveSimilarity(t *testing.T) {
	books := testCatalogBooks()
	rs := []models.Rating{{UserID: "u1", ISBN: "3", Rating: 9}}
	e := testEngine(books, rs)
	if similar := e.SimilarUsers(map[string]struct{}{"1": {}}); len(similar) != 0 {
		t.Errorf("similar = %v, want empty", similar)
	}
}
