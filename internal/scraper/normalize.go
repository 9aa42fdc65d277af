package scraper

import (
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const detailURLFormat = "https://web.pcc.gov.tw/tps/QueryTender/query/searchTenderDetail?pkPmsMain=%s"

// Budget cells that carry a placeholder instead of an amount.
var budgetPlaceholders = []string{"未定", "依契約", "依個案", "未公開", "未提供"}

func cleanText(value string) string {
	value = html.UnescapeString(value)
	value = strings.ReplaceAll(value, "\u00a0", " ")
	return strings.Join(strings.Fields(value), " ")
}

// parseBudget parses a displayed budget into an integer amount. The
// second return is false for empty cells, placeholder values, and
// strings with no digits at all.
func parseBudget(raw string) (int64, bool) {
	raw = cleanText(raw)
	if raw == "" {
		return 0, false
	}
	for _, placeholder := range budgetPlaceholders {
		if strings.Contains(raw, placeholder) {
			return 0, false
		}
	}

	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}

	amount, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// detailURL derives the notice detail link from the case cell. Rows
// link through an intermediate redirect carrying the primary key as a
// pk= parameter; when present, the canonical detail URL is built from
// it. Otherwise the raw href is passed through.
func detailURL(cell *goquery.Selection) string {
	anchor := cell.Find("a").First()
	if anchor.Length() == 0 {
		return ""
	}
	href := strings.TrimSpace(anchor.AttrOr("href", ""))
	if href == "" {
		return ""
	}

	if pk := primaryKeyParam(href); pk != "" {
		return fmt.Sprintf(detailURLFormat, pk)
	}
	return href
}

func primaryKeyParam(href string) string {
	parsed, err := url.Parse(href)
	if err == nil {
		if pk := parsed.Query().Get("pk"); pk != "" {
			return pk
		}
	}
	// Some hrefs are javascript wrappers goquery's url parser rejects.
	if idx := strings.Index(href, "pk="); idx >= 0 {
		pk := href[idx+len("pk="):]
		if amp := strings.IndexAny(pk, "&'\")"); amp >= 0 {
			pk = pk[:amp]
		}
		return pk
	}
	return ""
}
