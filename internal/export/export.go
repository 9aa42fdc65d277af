package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/muesli/termenv"

	"github.com/nickleo9/scraper/internal/models"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

func WriteRecords(w io.Writer, records []models.TenderRecord, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, records)
	case FormatCSV:
		return writeCSV(w, records, ',')
	case FormatTSV:
		return writeCSV(w, records, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, records)
	default:
		return writeTable(w, records, opts)
	}
}

func writeJSON(w io.Writer, records []models.TenderRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeCSV(w io.Writer, records []models.TenderRecord, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(csvHeader()); err != nil {
		return err
	}
	for _, record := range records {
		if err := writer.Write(csvRow(record)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, records []models.TenderRecord, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader(), "\t"))
	output := termenv.NewOutput(w)
	for _, record := range records {
		fmt.Fprintln(tw, strings.Join(tableRow(record, output, opts), "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, records []models.TenderRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	for _, record := range records {
		urlLine := "  URL: -"
		if link := safe(record.DetailURL); link != "" {
			urlLine = fmt.Sprintf("  URL: [Open notice](<%s>)", link)
		}
		lines := []string{
			fmt.Sprintf("- **%s** (%s)", displayTitle(record), safe(record.Agency)),
			fmt.Sprintf("  Case no: %s", orDash(record.TenderID)),
			fmt.Sprintf("  Announced: %s  Closes: %s", orDash(record.AnnounceDate), orDash(record.ClosingDate)),
			urlLine,
		}
		if record.ProcurementMethod != "" {
			lines = append(lines, fmt.Sprintf("  Method: %s", safe(record.ProcurementMethod)))
		}
		if record.BudgetRaw != "" {
			lines = append(lines, fmt.Sprintf("  Budget: %s", safe(record.BudgetRaw)))
		}
		if record.SearchKeyword != "" {
			lines = append(lines, fmt.Sprintf("  Keyword: %s", safe(record.SearchKeyword)))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func csvHeader() []string {
	return []string{
		"sequence",
		"agency",
		"tender_id",
		"tender_title",
		"transmission_count",
		"procurement_method",
		"procurement_nature",
		"announce_date",
		"closing_date",
		"budget_raw",
		"budget_amount",
		"detail_url",
		"scraped_date",
		"search_keyword",
	}
}

func csvRow(record models.TenderRecord) []string {
	budget := ""
	if record.BudgetAmount != nil {
		budget = strconv.FormatInt(*record.BudgetAmount, 10)
	}
	return []string{
		record.Sequence,
		record.Agency,
		record.TenderID,
		record.TenderTitle,
		record.TransmissionCount,
		record.ProcurementMethod,
		record.ProcurementNature,
		record.AnnounceDate,
		record.ClosingDate,
		record.BudgetRaw,
		budget,
		record.DetailURL,
		record.ScrapedDate,
		record.SearchKeyword,
	}
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func orDash(value string) string {
	if value = safe(value); value != "" {
		return value
	}
	return "-"
}

func displayTitle(record models.TenderRecord) string {
	if title := safe(record.TenderTitle); title != "" {
		return title
	}
	return safe(record.TenderID)
}

func tableHeader() []string {
	return []string{
		"date",
		"agency",
		"case_no",
		"title",
		"budget",
		"url",
	}
}

func tableRow(record models.TenderRecord, output *termenv.Output, opts WriteOptions) []string {
	const linkColor = "#87CEEB"

	link := safe(record.DetailURL)
	displayURL := "-"
	if link != "" {
		displayURL = link
		if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
			displayURL = shortURLLabel(link)
		}
		if opts.ColorEnabled {
			displayURL = output.String(displayURL).Foreground(output.Color(linkColor)).String()
		}
		if opts.Hyperlinks {
			displayURL = hyperlink(link, displayURL)
		}
	}
	return []string{
		orDash(record.AnnounceDate),
		safe(record.Agency),
		orDash(record.TenderID),
		displayTitle(record),
		orDash(record.BudgetRaw),
		displayURL,
	}
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}
