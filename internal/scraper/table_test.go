package scraper

import "testing"

func TestLocateTable(t *testing.T) {
	cases := []struct {
		name  string
		html  string
		found bool
	}{
		{
			name:  "by id",
			html:  `<html><body><table id="tpam"><tr><td>x</td></tr></table></body></html>`,
			found: true,
		},
		{
			name:  "by class fallback",
			html:  `<html><body><table class="tb_01"><tr><td>x</td></tr></table></body></html>`,
			found: true,
		},
		{
			name:  "id preferred over class",
			html:  `<html><body><table class="tb_01"><tr><td>b</td></tr></table><table id="tpam"><tr><td>a</td></tr></table></body></html>`,
			found: true,
		},
		{
			name:  "no table",
			html:  `<html><body><p>查無資料</p></body></html>`,
			found: false,
		},
		{
			name:  "unrelated table",
			html:  `<html><body><table class="nav"><tr><td>x</td></tr></table></body></html>`,
			found: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := mustDoc(t, tc.html)
			table, found := locateTable(doc)
			if found != tc.found {
				t.Fatalf("locateTable found=%v, want %v", found, tc.found)
			}
			if found && table.Length() == 0 {
				t.Fatalf("expected a non-empty selection")
			}
		})
	}
}

func TestLocateTablePriority(t *testing.T) {
	html := `<html><body>
<table class="tb_01"><tr><td>class-table</td></tr></table>
<table id="tpam"><tr><td>id-table</td></tr></table>
</body></html>`

	table, found := locateTable(mustDoc(t, html))
	if !found {
		t.Fatalf("expected table")
	}
	if got := table.AttrOr("id", ""); got != "tpam" {
		t.Fatalf("expected id strategy to win, got id=%q", got)
	}
}
