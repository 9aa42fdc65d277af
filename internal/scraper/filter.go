package scraper

import (
	"strings"

	"github.com/nickleo9/scraper/internal/models"
)

const keySeparator = "::"

// ApplyFilters keeps the records passing every active predicate.
// A nil or empty filter passes everything through untouched.
func ApplyFilters(records []models.TenderRecord, filter *models.QueryFilter) []models.TenderRecord {
	if filter.Empty() {
		return records
	}

	out := make([]models.TenderRecord, 0, len(records))
	for _, record := range records {
		if matchesFilter(record, filter) {
			out = append(out, record)
		}
	}
	return out
}

func matchesFilter(record models.TenderRecord, filter *models.QueryFilter) bool {
	if filter.TenderType != "" && !strings.Contains(record.ProcurementMethod, filter.TenderType) {
		return false
	}
	if filter.MinBudget > 0 {
		if record.BudgetAmount == nil || *record.BudgetAmount < filter.MinBudget {
			return false
		}
	}
	if filter.Agency != "" && !strings.Contains(record.Agency, filter.Agency) {
		return false
	}
	return true
}

// Dedupe drops records already seen under the same identity key,
// keeping the first occurrence and its position. Overlapping keyword
// queries routinely return the same tender more than once, and some
// records have no case number, so identity is the composite of agency,
// case number and title.
func Dedupe(records []models.TenderRecord) []models.TenderRecord {
	seen := map[string]struct{}{}
	out := make([]models.TenderRecord, 0, len(records))
	for _, record := range records {
		key := RecordKey(record)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, record)
	}
	return out
}

// RecordKey builds the composite identity key used for deduplication.
func RecordKey(record models.TenderRecord) string {
	return record.Agency + keySeparator + record.TenderID + keySeparator + record.TenderTitle
}
