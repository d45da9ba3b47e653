package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/hyperjump/honya/internal/metrics"
	"github.com/hyperjump/honya/internal/models"
	"github.com/hyperjump/honya/internal/recommend"
)

// API error messages for the two recommendation bad-request cases.
const (
	msgNoFilters = "At least one 'title', 'author', or 'year' query parameter is required"
	msgNoMatches = "No valid books found based on the provided query parameters"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Healthy"})
}

func (s *Server) handlePrivacyPolicy(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"message": "This is the privacy policy, we store no data",
	})
}

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.State().Engine.Catalog().Titles())
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	// Titles can legally contain ";", so use the lenient parser here too.
	title := parseQuery(r.URL.RawQuery).Get("title")
	cat := s.State().Engine.Catalog()
	// Exact, case-sensitive lookup; no match responds with JSON null.
	if isbn, ok := cat.ByTitle(title); ok {
		s.respondJSON(w, http.StatusOK, cat.ByISBN(isbn))
		return
	}
	s.logger.Debug("book not found", zap.String("title", title))
	s.respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	filters := filtersFromQuery(parseQuery(r.URL.RawQuery), s.config.Recommend.ListDelimiter)
	s.logger.Debug("recommend request",
		zap.Strings("titles", filters.Titles),
		zap.Strings("authors", filters.Authors),
		zap.Strings("years", filters.Years),
	)

	start := time.Now()
	books, err := s.State().Engine.Recommend(r.Context(), filters)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrNoFilters):
			s.respondError(w, http.StatusBadRequest, msgNoFilters)
		case errors.Is(err, recommend.ErrNoMatches):
			s.respondError(w, http.StatusBadRequest, msgNoMatches)
		default:
			s.logger.Error("recommend failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	metrics.ObserveRecommend(start, len(books))

	if books == nil {
		books = []models.Book{}
	}
	s.respondJSON(w, http.StatusOK, books)
}

// searchHit is one /search result.
type searchHit struct {
	Book  *models.Book `json:"book"`
	Score float64      `json:"score"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.respondError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	limit := s.config.Search.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.respondError(w, http.StatusBadRequest, "invalid 'limit' parameter")
			return
		}
		limit = n
	}
	if limit > s.config.Search.MaxLimit {
		limit = s.config.Search.MaxLimit
	}

	state := s.State()
	results, err := state.Search.Search(query, limit)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	hits := make([]searchHit, 0, len(results))
	for _, res := range results {
		if book := state.Engine.Catalog().ByISBN(res.ISBN); book != nil {
			hits = append(hits, searchHit{Book: book, Score: res.Score})
		}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"total":   len(hits),
		"results": hits,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	state := s.State()
	resp := map[string]interface{}{
		"books":   state.Engine.Catalog().Len(),
		"ratings": state.Engine.Ratings().Len(),
		"users":   state.Engine.Ratings().UserCount(),
	}
	if n, err := state.Search.DocCount(); err == nil {
		resp["search_docs"] = n
	}
	resp["config"] = map[string]interface{}{
		"data_source":           s.config.Data.Source,
		"high_rating_threshold": s.config.Recommend.HighRatingThreshold,
		"recommend_threshold":   s.config.Recommend.RecommendThreshold,
		"top_similar_users":     s.config.Recommend.TopSimilarUsers,
		"max_recommendations":   s.config.Recommend.MaxRecommendations,
		"reload":                s.config.Data.Reload,
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
