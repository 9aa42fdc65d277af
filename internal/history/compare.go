package history

import (
	"strings"

	"github.com/nickleo9/scraper/internal/models"
)

const keySeparator = "::"

// DiffStats captures stats for A-B unseen filtering.
type DiffStats struct {
	TotalNew    int
	TotalSeen   int
	InvalidNew  int
	InvalidSeen int
	Unseen      int
}

// InvalidSkipped returns the total invalid records skipped during comparison.
func (s DiffStats) InvalidSkipped() int {
	return s.InvalidNew + s.InvalidSeen
}

// MergeStats captures stats for history updates.
type MergeStats struct {
	TotalSeen    int
	TotalInput   int
	InvalidSeen  int
	InvalidInput int
	Added        int
	TotalOut     int
}

// InvalidSkipped returns the total invalid records skipped during merge.
func (s MergeStats) InvalidSkipped() int {
	return s.InvalidSeen + s.InvalidInput
}

// Normalize applies the key normalization.
func Normalize(value string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(value)))
	return strings.Join(fields, " ")
}

// Key builds the normalized agency+caseNo+title key for a record.
// Records missing an agency, or with neither a case number nor a
// title, have no usable identity.
func Key(record models.TenderRecord) (string, bool) {
	agency := Normalize(record.Agency)
	caseNo := Normalize(record.TenderID)
	title := Normalize(record.TenderTitle)
	if agency == "" || (caseNo == "" && title == "") {
		return "", false
	}
	return agency + keySeparator + caseNo + keySeparator + title, true
}

// Diff returns unseen records from newRecords using existing history keys.
func Diff(newRecords []models.TenderRecord, seenRecords []models.TenderRecord) ([]models.TenderRecord, DiffStats) {
	stats := DiffStats{
		TotalNew:  len(newRecords),
		TotalSeen: len(seenRecords),
	}

	seenKeys := make(map[string]struct{}, len(seenRecords))
	for _, record := range seenRecords {
		key, ok := Key(record)
		if !ok {
			stats.InvalidSeen++
			continue
		}
		if _, exists := seenKeys[key]; exists {
			continue
		}
		seenKeys[key] = struct{}{}
	}

	newKeys := make(map[string]struct{}, len(newRecords))
	unseen := make([]models.TenderRecord, 0, len(newRecords))
	for _, record := range newRecords {
		key, ok := Key(record)
		if !ok {
			stats.InvalidNew++
			continue
		}
		if _, exists := newKeys[key]; exists {
			continue
		}
		newKeys[key] = struct{}{}
		if _, exists := seenKeys[key]; exists {
			continue
		}
		unseen = append(unseen, record)
	}

	stats.Unseen = len(unseen)
	return unseen, stats
}

// Merge appends unique new records into the history.
// Existing history entries win collisions.
func Merge(existingSeen []models.TenderRecord, inputRecords []models.TenderRecord) ([]models.TenderRecord, MergeStats) {
	stats := MergeStats{
		TotalSeen:  len(existingSeen),
		TotalInput: len(inputRecords),
	}

	keys := make(map[string]struct{}, len(existingSeen)+len(inputRecords))
	out := make([]models.TenderRecord, 0, len(existingSeen)+len(inputRecords))

	for _, record := range existingSeen {
		key, ok := Key(record)
		if !ok {
			stats.InvalidSeen++
			out = append(out, record)
			continue
		}
		if _, exists := keys[key]; exists {
			continue
		}
		keys[key] = struct{}{}
		out = append(out, record)
	}

	for _, record := range inputRecords {
		key, ok := Key(record)
		if !ok {
			stats.InvalidInput++
			continue
		}
		if _, exists := keys[key]; exists {
			continue
		}
		keys[key] = struct{}{}
		out = append(out, record)
		stats.Added++
	}

	stats.TotalOut = len(out)
	return out, stats
}
