package models

// QueryParams captures the normalized inputs for one keyword batch.
type QueryParams struct {
	Keywords  []string
	StartDate string // 2006/01/02
	EndDate   string // 2006/01/02
	PageSize  int
	Filter    *QueryFilter
}

// QueryFilter is an optional predicate bundle applied after scraping.
// Zero values mean "no constraint"; active predicates compose by AND.
type QueryFilter struct {
	TenderType string `json:"tender_type,omitempty"` // substring of procurement method
	MinBudget  int64  `json:"min_budget,omitempty"`
	Agency     string `json:"agency,omitempty"` // substring of agency name
}

// Empty reports whether no predicate is active.
func (f *QueryFilter) Empty() bool {
	if f == nil {
		return true
	}
	return f.TenderType == "" && f.MinBudget <= 0 && f.Agency == ""
}
