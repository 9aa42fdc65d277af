package models

// TenderRecord is one normalized procurement notice extracted from a
// listing row. Records are built once per row and never mutated.
type TenderRecord struct {
	Sequence          string `json:"sequence"`
	Agency            string `json:"agency"`
	TenderID          string `json:"tender_id"`
	TenderTitle       string `json:"tender_title"`
	TransmissionCount string `json:"transmission_count,omitempty"`
	ProcurementMethod string `json:"procurement_method,omitempty"`
	ProcurementNature string `json:"procurement_nature,omitempty"`
	AnnounceDate      string `json:"announce_date,omitempty"`
	ClosingDate       string `json:"closing_date,omitempty"`
	BudgetRaw         string `json:"budget_raw,omitempty"`
	BudgetAmount      *int64 `json:"budget_amount,omitempty"`
	DetailURL         string `json:"detail_url,omitempty"`
	ScrapedDate       string `json:"scraped_date,omitempty"`
	SearchKeyword     string `json:"search_keyword,omitempty"`
}

// Valid reports whether the record satisfies the listing invariants:
// an agency is always present, and at least one of case number or
// title survived the cell split.
func (r TenderRecord) Valid() bool {
	if r.Agency == "" {
		return false
	}
	return r.TenderID != "" || r.TenderTitle != ""
}
