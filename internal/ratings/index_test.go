package ratings

import (
	"testing"

	"github.com/hyperjump/honya/internal/models"
)

func TestNewIndex(t *testing.T) {
	idx := NewIndex([]models.Rating{
		{UserID: "u1", ISBN: "1", Rating: 8},
		{UserID: "u1", ISBN: "2", Rating: 5},
		{UserID: "u2", ISBN: "1", Rating: 9},
	})
	if idx.UserCount() != 2 {
		t.Errorf("UserCount = %d, want 2", idx.UserCount())
	}
	if idx.Len() != 3 {
		t.Errorf("Len = %d, want 3", idx.Len())
	}
	m := idx.User("u1")
	if m["1"] != 8 || m["2"] != 5 {
		t.Errorf("u1 ratings = %v", m)
	}
	if idx.User("missing") != nil {
		t.Error("unknown user should return nil")
	}
}

func TestNewIndex_DuplicateLastWins(t *testing.T) {
	idx := NewIndex([]models.Rating{
		{UserID: "u1", ISBN: "1", Rating: 3},
		{UserID: "u1", ISBN: "1", Rating: 9},
	})
	if got := idx.User("u1")["1"]; got != 9 {
		t.Errorf("duplicate rating: got %d, want 9 (last write wins)", got)
	}
	if idx.Len() != 1 {
		t.Errorf("Len = %d, want 1 (duplicates collapse)", idx.Len())
	}
}

func TestUsers_Sorted(t *testing.T) {
	idx := NewIndex([]models.Rating{
		{UserID: "zed", ISBN: "1", Rating: 5},
		{UserID: "amy", ISBN: "1", Rating: 5},
		{UserID: "mia", ISBN: "1", Rating: 5},
	})
	got := idx.Users()
	want := []string{"amy", "mia", "zed"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Users() = %v, want %v", got, want)
		}
	}
}
