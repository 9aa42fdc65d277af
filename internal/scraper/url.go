package scraper

import (
	"net/url"
	"strconv"
)

const searchBaseURL = "https://web.pcc.gov.tw/prkms/tender/common/basic/readTenderBasic"

// DateFormat is the date layout the tender search endpoint expects.
const DateFormat = "2006/01/02"

const defaultPageSize = 100

// BuildSearchURL assembles the listing query URL for one keyword.
func BuildSearchURL(keyword, startDate, endDate string, pageSize int) string {
	return buildSearchURL(searchBaseURL, keyword, startDate, endDate, pageSize)
}

func buildSearchURL(base, keyword, startDate, endDate string, pageSize int) string {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("tenderStartDate", startDate)
	params.Set("tenderEndDate", endDate)
	params.Set("tenderName", keyword)
	params.Set("dateType", "isDate")
	return base + "?" + params.Encode()
}
