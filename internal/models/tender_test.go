package models

import "testing"

func TestTenderRecordValid(t *testing.T) {
	cases := []struct {
		name   string
		record TenderRecord
		want   bool
	}{
		{"id and title", TenderRecord{Agency: "A", TenderID: "1", TenderTitle: "x"}, true},
		{"id only", TenderRecord{Agency: "A", TenderID: "1"}, true},
		{"title only", TenderRecord{Agency: "A", TenderTitle: "x"}, true},
		{"no agency", TenderRecord{TenderID: "1", TenderTitle: "x"}, false},
		{"neither id nor title", TenderRecord{Agency: "A"}, false},
	}

	for _, tc := range cases {
		if got := tc.record.Valid(); got != tc.want {
			t.Fatalf("%s: Valid() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestQueryFilterEmpty(t *testing.T) {
	var nilFilter *QueryFilter
	if !nilFilter.Empty() {
		t.Fatalf("nil filter must be empty")
	}
	if !(&QueryFilter{}).Empty() {
		t.Fatalf("zero filter must be empty")
	}
	if (&QueryFilter{MinBudget: 1}).Empty() {
		t.Fatalf("filter with a predicate must not be empty")
	}
}
