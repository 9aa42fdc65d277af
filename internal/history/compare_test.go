package history

import (
	"testing"

	"github.com/nickleo9/scraper/internal/models"
)

func record(agency, caseNo, title string) models.TenderRecord {
	return models.TenderRecord{Agency: agency, TenderID: caseNo, TenderTitle: title}
}

func TestKey(t *testing.T) {
	cases := []struct {
		name   string
		record models.TenderRecord
		want   string
		wantOK bool
	}{
		{"full identity", record("高雄市政府", "114BB0013", "整體營造工程"), "高雄市政府::114bb0013::整體營造工程", true},
		{"missing case number", record("高雄市政府", "", "整體營造工程"), "高雄市政府::::整體營造工程", true},
		{"missing title", record("高雄市政府", "114BB0013", ""), "高雄市政府::114bb0013::", true},
		{"missing agency", record("", "114BB0013", "整體營造工程"), "", false},
		{"missing both id and title", record("高雄市政府", "", ""), "", false},
		{"whitespace normalized", record("  高雄市政府 ", "114BB0013", " 整體  營造工程 "), "高雄市政府::114bb0013::整體 營造工程", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Key(tc.record)
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("Key = (%q, %v), want (%q, %v)", got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestDiff(t *testing.T) {
	seen := []models.TenderRecord{
		record("A", "1", "x"),
		record("", "2", "y"), // invalid, skipped
	}
	incoming := []models.TenderRecord{
		record("A", "1", "x"), // already seen
		record("A", "3", "z"),
		record("A", "3", "z"), // duplicate within the new set
		record("", "", ""),    // invalid
	}

	unseen, stats := Diff(incoming, seen)
	if len(unseen) != 1 || unseen[0].TenderID != "3" {
		t.Fatalf("unexpected unseen set: %+v", unseen)
	}
	if stats.Unseen != 1 || stats.InvalidNew != 1 || stats.InvalidSeen != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestMerge(t *testing.T) {
	seen := []models.TenderRecord{record("A", "1", "x")}
	input := []models.TenderRecord{
		record("A", "1", "x"),
		record("B", "2", "y"),
	}

	merged, stats := Merge(seen, input)
	if len(merged) != 2 {
		t.Fatalf("expected 2 records after merge, got %d", len(merged))
	}
	if stats.Added != 1 || stats.TotalOut != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	// Merging again changes nothing.
	again, stats := Merge(merged, input)
	if len(again) != 2 || stats.Added != 0 {
		t.Fatalf("merge is not idempotent: %+v", stats)
	}
}
