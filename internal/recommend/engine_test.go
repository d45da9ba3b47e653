package recommend

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/hyperjump/honya/internal/models"
)

func TestRecommend_ErrorCases(t *testing.T) {
	e := testEngine(testCatalogBooks(), nil)
	ctx := context.Background()

	if _, err := e.Recommend(ctx, &models.Filters{}); !errors.Is(err, ErrNoFilters) {
		t.Errorf("empty filters: err = %v, want ErrNoFilters", err)
	}
	if _, err := e.Recommend(ctx, nil); !errors.Is(err, ErrNoFilters) {
		t.Errorf("nil filters: err = %v, want ErrNoFilters", err)
	}
	_, err := e.Recommend(ctx, &models.Filters{Titles: []string{"NonexistentBook123"}})
	if !errors.Is(err, ErrNoMatches) {
		t.Errorf("unmatched title: err = %v, want ErrNoMatches", err)
	}
}

func TestRecommend_EmptyResultIsNotAnError(t *testing.T) {
	// Valid target but no user has positive similarity.
	e := testEngine(testCatalogBooks(), []models.Rating{
		{UserID: "u1", ISBN: "3", Rating: 9},
	})
	got, err := e.Recommend(context.Background(), &models.Filters{Titles: []string{"Dune"}})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("books = %v, want empty", got)
	}
}

func TestRecommend_EndToEnd(t *testing.T) {
	rs := []models.Rating{
		{UserID: "u1", ISBN: "1", Rating: 9},
		{UserID: "u1", ISBN: "3", Rating: 8},
		{UserID: "u2", ISBN: "1", Rating: 8},
		{UserID: "u2", ISBN: "3", Rating: 9},
		{UserID: "u2", ISBN: "4", Rating: 7},
	}
	e := testEngine(testCatalogBooks(), rs)
	got, err := e.Recommend(context.Background(), &models.Filters{Titles: []string{"Dune"}})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("books = %v, want 2", got)
	}
	// Neuromancer has support 2, Snow Crash support 1.
	if got[0].ISBN != "3" || got[1].ISBN != "4" {
		t.Errorf("order = %s, %s; want 3, 4", got[0].ISBN, got[1].ISBN)
	}
	for _, b := range got {
		if b.ISBN == "1" {
			t.Error("target book must not be recommended")
		}
	}
}

func TestRecommend_Idempotent(t *testing.T) {
	rs := []models.Rating{
		{UserID: "u1", ISBN: "1", Rating: 9},
		{UserID: "u1", ISBN: "3", Rating: 8},
		{UserID: "u2", ISBN: "1", Rating: 8},
		{UserID: "u2", ISBN: "4", Rating: 9},
		{UserID: "u3", ISBN: "2", Rating: 5},
		{UserID: "u3", ISBN: "5", Rating: 10},
	}
	e := testEngine(testCatalogBooks(), rs)
	filters := &models.Filters{Authors: []string{"Frank Herbert"}}

	first, err := e.Recommend(context.Background(), filters)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := e.Recommend(context.Background(), filters)
		if err != nil {
			t.Fatalf("Recommend (repeat %d): %v", i, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("repeat %d differs:\nfirst: %v\nagain: %v", i, first, again)
		}
	}
}
