package models

// Filters holds the raw recommendation filter values as they arrived from the
// caller, before any catalog resolution. A filter kind with no values is an
// empty slice.
type Filters struct {
	Titles  []string `json:"titles,omitempty"`
	Authors []string `json:"authors,omitempty"`
	Years   []string `json:"years,omitempty"`
}

// Empty reports whether no filter values were supplied at all.
func (f *Filters) Empty() bool {
	return len(f.Titles) == 0 && len(f.Authors) == 0 && len(f.Years) == 0
}

// SimilarUser is one user ranked by taste overlap with the target set.
type SimilarUser struct {
	UserID     string  `json:"user_id"`
	Similarity float64 `json:"similarity"`
}

// Candidate is an aggregated recommendation candidate before catalog resolution.
type Candidate struct {
	ISBN      string  `json:"isbn"`
	Count     int     `json:"count"`
	AvgRating float64 `json:"avg_rating"`
}
