package scraper

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/nickleo9/scraper/internal/models"
	"github.com/nickleo9/scraper/internal/network"
)

// DefaultPacing is the delay between successive keyword queries. The
// upstream tolerates one query at a time; anything faster starts
// returning soft-block pages.
const DefaultPacing = 2 * time.Second

// minRowCells is the column count a listing row must have to be a data
// row; header and spacer rows fall short.
const minRowCells = 9

// Scraper runs keyword batches against the tender listing. Keywords
// are processed strictly sequentially so the pacing contract holds;
// independent batches may run concurrently, sharing only the request
// counter, which is diagnostic.
type Scraper struct {
	fetcher  *Fetcher
	pacing   time.Duration
	baseURL  string
	logger   zerolog.Logger
	requests atomic.Int64
	now      func() time.Time
}

func New(client *network.Client, maxAttempts int, pacing time.Duration, logger zerolog.Logger) *Scraper {
	if pacing <= 0 {
		pacing = DefaultPacing
	}
	return &Scraper{
		fetcher: NewFetcher(client, maxAttempts, logger),
		pacing:  pacing,
		baseURL: searchBaseURL,
		logger:  logger,
		now:     time.Now,
	}
}

// Requests returns the number of listing fetches issued so far.
func (s *Scraper) Requests() int64 {
	return s.requests.Load()
}

// Run executes one keyword batch: sequential per-keyword fetch+parse,
// then filters, then dedupe. Per-keyword failures are logged and
// skipped; the batch never aborts on them. On cancellation the records
// accumulated so far are returned alongside the context error.
func (s *Scraper) Run(ctx context.Context, params models.QueryParams) ([]models.TenderRecord, error) {
	var records []models.TenderRecord

	// The limiter is per batch: pacing spaces the keywords within one
	// batch, while independent batches stay independent. Burst 1 lets
	// the first keyword through unpaced; every keyword after waits out
	// the interval.
	limiter := rate.NewLimiter(rate.Every(s.pacing), 1)

	for _, keyword := range params.Keywords {
		if err := limiter.Wait(ctx); err != nil {
			return finishBatch(records, params.Filter), err
		}

		keywordRecords, err := s.scrapeKeyword(ctx, keyword, params)
		if err != nil {
			if ctx.Err() != nil {
				return finishBatch(records, params.Filter), ctx.Err()
			}
			s.logger.Error().Str("keyword", keyword).Err(err).Msg("keyword query failed")
			continue
		}
		records = append(records, keywordRecords...)
	}

	return finishBatch(records, params.Filter), nil
}

func finishBatch(records []models.TenderRecord, filter *models.QueryFilter) []models.TenderRecord {
	return Dedupe(ApplyFilters(records, filter))
}

func (s *Scraper) scrapeKeyword(ctx context.Context, keyword string, params models.QueryParams) ([]models.TenderRecord, error) {
	target := buildSearchURL(s.baseURL, keyword, params.StartDate, params.EndDate, params.PageSize)
	s.logger.Debug().Str("keyword", keyword).Str("url", target).Msg("querying listing")

	s.requests.Add(1)
	body, err := s.fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	records, err := s.parseListing(body, keyword)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("keyword", keyword).Int("records", len(records)).Msg("keyword query done")
	return records, nil
}

// parseListing extracts records from one listing page. A missing table
// means the query had no results, which is not an error.
func (s *Scraper) parseListing(body, keyword string) ([]models.TenderRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	table, ok := locateTable(doc)
	if !ok {
		s.logger.Debug().Str("keyword", keyword).Msg("no listing table found")
		return nil, nil
	}

	scrapedDate := s.now().Format(DateFormat)
	var records []models.TenderRecord
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < minRowCells {
			return
		}
		record := recordFromRow(cells, keyword, scrapedDate)
		if !record.Valid() {
			s.logger.Debug().Str("keyword", keyword).Msg("skipping malformed row")
			return
		}
		records = append(records, record)
	})

	return records, nil
}

func recordFromRow(cells *goquery.Selection, keyword, scrapedDate string) models.TenderRecord {
	caseCell := cells.Eq(2)
	caseNo, title := SplitCaseField(cellText(caseCell))

	record := models.TenderRecord{
		Sequence:          cleanText(cells.Eq(0).Text()),
		Agency:            cleanText(cells.Eq(1).Text()),
		TenderID:          caseNo,
		TenderTitle:       title,
		TransmissionCount: cleanText(cells.Eq(3).Text()),
		ProcurementMethod: cleanText(cells.Eq(4).Text()),
		ProcurementNature: cleanText(cells.Eq(5).Text()),
		AnnounceDate:      cleanText(cells.Eq(6).Text()),
		ClosingDate:       cleanText(cells.Eq(7).Text()),
		BudgetRaw:         cleanText(cells.Eq(8).Text()),
		DetailURL:         detailURL(caseCell),
		ScrapedDate:       scrapedDate,
		SearchKeyword:     keyword,
	}
	if amount, ok := parseBudget(record.BudgetRaw); ok {
		record.BudgetAmount = &amount
	}
	return record
}

// cellText renders a cell's text with <br> separators preserved as
// newlines, which the case-field split depends on.
func cellText(cell *goquery.Selection) string {
	htmlStr, err := cell.Html()
	if err != nil {
		return cell.Text()
	}
	htmlStr = strings.ReplaceAll(htmlStr, "<br>", "\n")
	htmlStr = strings.ReplaceAll(htmlStr, "<br/>", "\n")
	htmlStr = strings.ReplaceAll(htmlStr, "<br />", "\n")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return cell.Text()
	}
	return doc.Text()
}
