package scraper

import (
	"net/url"
	"testing"
)

func TestBuildSearchURL(t *testing.T) {
	raw := BuildSearchURL("環境監測", "2025/08/01", "2025/08/31", 50)

	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("unparsable url: %v", err)
	}
	if parsed.Host != "web.pcc.gov.tw" {
		t.Fatalf("unexpected host: %s", parsed.Host)
	}

	query := parsed.Query()
	want := map[string]string{
		"pageSize":        "50",
		"tenderStartDate": "2025/08/01",
		"tenderEndDate":   "2025/08/31",
		"tenderName":      "環境監測",
		"dateType":        "isDate",
	}
	for key, value := range want {
		if got := query.Get(key); got != value {
			t.Fatalf("query %s = %q, want %q", key, got, value)
		}
	}
}

func TestBuildSearchURLDefaultPageSize(t *testing.T) {
	raw := BuildSearchURL("系統", "2025/08/01", "2025/08/01", 0)
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("unparsable url: %v", err)
	}
	if got := parsed.Query().Get("pageSize"); got != "100" {
		t.Fatalf("pageSize = %q, want 100", got)
	}
}
