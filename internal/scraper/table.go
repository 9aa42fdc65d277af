package scraper

import "github.com/PuerkitoBio/goquery"

// The listing table has carried different markup across site revisions:
// originally identified by id, later only by its style class. Strategies
// are tried in priority order and the first match wins.
var tableStrategies = []struct {
	name     string
	selector string
}{
	{"id", "table#tpam"},
	{"class", "table.tb_01"},
}

// locateTable finds the tender listing table in doc. A miss is not an
// error: it means the query produced zero results.
func locateTable(doc *goquery.Document) (*goquery.Selection, bool) {
	for _, strategy := range tableStrategies {
		if table := doc.Find(strategy.selector).First(); table.Length() > 0 {
			return table, true
		}
	}
	return nil, false
}
