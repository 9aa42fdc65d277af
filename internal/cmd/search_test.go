package cmd

import (
	"reflect"
	"testing"

	"github.com/nickleo9/scraper/internal/config"
	"github.com/nickleo9/scraper/internal/export"
)

func TestResolveKeywords(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		fallback []string
		want     []string
		wantErr  bool
	}{
		{"comma separated", "系統, 平台,建置", nil, []string{"系統", "平台", "建置"}, false},
		{"duplicates dropped", "系統,系統, 平台", nil, []string{"系統", "平台"}, false},
		{"fallback used when empty", "  , ", []string{"環境監測", "土壤"}, []string{"環境監測", "土壤"}, false},
		{"no keywords anywhere", "", nil, nil, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveKeywords(tc.raw, tc.fallback, 0)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("keywords = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResolveKeywordsCap(t *testing.T) {
	raw := "a,b,c"
	if _, err := resolveKeywords(raw, nil, 2); err == nil {
		t.Fatalf("expected too-many-keywords error with cap 2")
	}

	got, err := resolveKeywords(raw, nil, 0)
	if err != nil {
		t.Fatalf("cap 0 must be unlimited: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected all keywords kept, got %v", got)
	}
}

func TestResolveParams(t *testing.T) {
	cfg := config.Config{DefaultPageSize: 100}

	params, err := resolveParams(cfg, []string{"環境"}, SearchOptions{
		StartDate: "2025/08/01",
		EndDate:   "2025/08/31",
		MinBudget: 1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.PageSize != 100 {
		t.Fatalf("expected configured page size, got %d", params.PageSize)
	}
	if params.Filter == nil || params.Filter.MinBudget != 1000 {
		t.Fatalf("expected active filter, got %+v", params.Filter)
	}

	params, err = resolveParams(cfg, []string{"環境"}, SearchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.StartDate == "" || params.StartDate != params.EndDate {
		t.Fatalf("expected today's date range, got %q..%q", params.StartDate, params.EndDate)
	}
	if params.Filter != nil {
		t.Fatalf("expected no filter when no predicate is set")
	}
}

func TestResolveParamsRejectsBadDate(t *testing.T) {
	cfg := config.Config{DefaultPageSize: 100}
	if _, err := resolveParams(cfg, []string{"環境"}, SearchOptions{StartDate: "2025-08-01"}); err == nil {
		t.Fatalf("expected invalid date error for ISO format")
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		value string
		want  export.Format
	}{
		{"csv", export.FormatCSV},
		{"JSON", export.FormatJSON},
		{"md", export.FormatMarkdown},
		{"markdown", export.FormatMarkdown},
		{"tsv", export.FormatTSV},
		{"", export.FormatTable},
	}
	for _, tc := range cases {
		got, err := parseFormat(tc.value)
		if err != nil {
			t.Fatalf("parseFormat(%q): %v", tc.value, err)
		}
		if got != tc.want {
			t.Fatalf("parseFormat(%q) = %q, want %q", tc.value, got, tc.want)
		}
	}

	if _, err := parseFormat("xml"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestPathsEqual(t *testing.T) {
	if !pathsEqual("out/seen.json", "out/seen.json") {
		t.Fatalf("identical paths should compare equal")
	}
	if pathsEqual("", "out/seen.json") {
		t.Fatalf("empty path never equals anything")
	}
	if pathsEqual("a.json", "b.json") {
		t.Fatalf("distinct paths should not compare equal")
	}
}
