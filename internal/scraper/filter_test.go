package scraper

import (
	"reflect"
	"testing"

	"github.com/nickleo9/scraper/internal/models"
)

func budgetPtr(v int64) *int64 { return &v }

func TestApplyFilters(t *testing.T) {
	records := []models.TenderRecord{
		{Agency: "高雄市政府", TenderID: "114BB0013", ProcurementMethod: "公開招標", BudgetAmount: budgetPtr(5_000_000)},
		{Agency: "臺北市環保局", TenderID: "113AA0001", ProcurementMethod: "限制性招標", BudgetAmount: budgetPtr(800_000)},
		{Agency: "高雄市環保局", TenderID: "114CC0002", ProcurementMethod: "公開招標", BudgetAmount: nil},
	}

	cases := []struct {
		name    string
		filter  *models.QueryFilter
		wantIDs []string
	}{
		{
			name:    "nil filter passes everything",
			filter:  nil,
			wantIDs: []string{"114BB0013", "113AA0001", "114CC0002"},
		},
		{
			name:    "empty filter passes everything",
			filter:  &models.QueryFilter{},
			wantIDs: []string{"114BB0013", "113AA0001", "114CC0002"},
		},
		{
			name:    "tender type substring",
			filter:  &models.QueryFilter{TenderType: "公開"},
			wantIDs: []string{"114BB0013", "114CC0002"},
		},
		{
			name:    "min budget excludes unparsed budgets",
			filter:  &models.QueryFilter{MinBudget: 1_000_000},
			wantIDs: []string{"114BB0013"},
		},
		{
			name:    "agency substring",
			filter:  &models.QueryFilter{Agency: "高雄"},
			wantIDs: []string{"114BB0013", "114CC0002"},
		},
		{
			name:    "predicates compose by AND",
			filter:  &models.QueryFilter{Agency: "高雄", MinBudget: 1_000_000, TenderType: "公開"},
			wantIDs: []string{"114BB0013"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ApplyFilters(records, tc.filter)
			ids := make([]string, 0, len(got))
			for _, record := range got {
				ids = append(ids, record.TenderID)
			}
			if !reflect.DeepEqual(ids, tc.wantIDs) {
				t.Fatalf("filtered ids = %v, want %v", ids, tc.wantIDs)
			}
		})
	}
}

func TestDedupe(t *testing.T) {
	records := []models.TenderRecord{
		{Agency: "A", TenderID: "1", TenderTitle: "x"},
		{Agency: "A", TenderID: "1", TenderTitle: "x", SearchKeyword: "dup"},
		{Agency: "A", TenderID: "", TenderTitle: "y"},
		{Agency: "B", TenderID: "1", TenderTitle: "x"},
		{Agency: "A", TenderID: "", TenderTitle: "y"},
	}

	deduped := Dedupe(records)
	if len(deduped) != 3 {
		t.Fatalf("expected 3 records after dedupe, got %d", len(deduped))
	}

	// First occurrence wins, order preserved.
	if deduped[0].SearchKeyword != "" || deduped[0].Agency != "A" {
		t.Fatalf("expected first-seen record kept, got %+v", deduped[0])
	}
	if deduped[1].TenderTitle != "y" || deduped[2].Agency != "B" {
		t.Fatalf("unexpected order: %+v", deduped)
	}

	again := Dedupe(deduped)
	if !reflect.DeepEqual(again, deduped) {
		t.Fatalf("dedupe is not idempotent")
	}
}
