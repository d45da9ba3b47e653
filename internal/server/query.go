package server

import (
	"net/url"
	"strings"

	"github.com/hyperjump/honya/internal/models"
)

// parseQuery parses a raw query string splitting pairs on "&" only. net/url
// treats a literal ";" inside a query as invalid and silently drops the whole
// pair, but ";" is this API's multi-value delimiter, so callers may send it
// unencoded (?titles=Dune;Emma). Keys or values that fail percent-decoding
// are skipped.
func parseQuery(rawQuery string) url.Values {
	values := make(url.Values)
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		decodedKey, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}
		values[decodedKey] = append(values[decodedKey], decodedValue)
	}
	return values
}

// filterValues normalizes the two accepted forms of a filter parameter into
// one list: the delimiter-separated plural form (titles=a;b) is preferred
// when present and non-empty, otherwise every repeated singular parameter
// (title=a&title=b) is used as-is. Items are trimmed and empties dropped.
func filterValues(values url.Values, plural, singular, delimiter string) []string {
	if joined := values.Get(plural); joined != "" {
		parts := strings.Split(joined, delimiter)
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	var out []string
	for _, v := range values[singular] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// filtersFromQuery builds the recommendation filters from a request query.
func filtersFromQuery(values url.Values, delimiter string) *models.Filters {
	return &models.Filters{
		Titles:  filterValues(values, "titles", "title", delimiter),
		Authors: filterValues(values, "authors", "author", delimiter),
		Years:   filterValues(values, "years", "year", delimiter),
	}
}
