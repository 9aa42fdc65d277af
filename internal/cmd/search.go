package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/nickleo9/scraper/internal/config"
	"github.com/nickleo9/scraper/internal/export"
	"github.com/nickleo9/scraper/internal/history"
	"github.com/nickleo9/scraper/internal/models"
	"github.com/nickleo9/scraper/internal/network"
	"github.com/nickleo9/scraper/internal/scraper"
)

type SearchCmd struct {
	Keywords string `arg:"" optional:"" help:"Search keywords (comma-separated). Defaults to the configured keyword set."`
	SearchOptions
}

type TodayCmd struct {
	SearchOptions
}

type SearchOptions struct {
	StartDate  string `help:"Notice start date (YYYY/MM/DD). Defaults to today."`
	EndDate    string `help:"Notice end date (YYYY/MM/DD). Defaults to today."`
	PageSize   int    `help:"Results per keyword query." env:"TENDERCLI_DEFAULT_PAGE_SIZE"`
	Type       string `help:"Keep records whose procurement method contains this substring."`
	MinBudget  int64  `help:"Keep records with a parsed budget of at least this amount."`
	Agency     string `help:"Keep records whose agency name contains this substring."`
	Attempts   int    `help:"Fetch attempts per keyword query." env:"TENDERCLI_MAX_ATTEMPTS"`
	Timeout    int    `help:"Abort the batch after this many seconds (0 = no deadline)."`
	Format     string `help:"Output format: csv, json, md." enum:",csv,json,md,tsv,table" default:""`
	Links      string `help:"Table link display: short or full." enum:"short,full" default:"full"`
	Output     string `name:"output" short:"o" help:"Write output to a file."`
	Proxies    string `help:"Comma-separated proxy URLs." env:"TENDERCLI_PROXIES"`
	Seen       string `help:"Path to seen records JSON file."`
	NewOnly    bool   `help:"Output only unseen records (requires --seen)."`
	NewOut     string `help:"Write unseen records JSON to a file (requires --seen)."`
	SeenUpdate bool   `help:"Merge newly discovered unseen records into --seen after the batch completes."`
}

func (s *SearchCmd) Run(ctx *Context) error {
	keywords, err := resolveKeywords(s.Keywords, ctx.Config.DefaultKeywords, ctx.Config.MaxKeywords)
	if err != nil {
		return err
	}
	return runSearch(ctx, keywords, s.SearchOptions)
}

func (t *TodayCmd) Run(ctx *Context) error {
	keywords, err := resolveKeywords("", ctx.Config.DailyKeywords, ctx.Config.MaxKeywords)
	if err != nil {
		return err
	}
	return runSearch(ctx, keywords, t.SearchOptions)
}

func runSearch(ctx *Context, keywords []string, opts SearchOptions) error {
	if opts.NewOnly && strings.TrimSpace(opts.Seen) == "" {
		return fmt.Errorf("--new-only requires --seen")
	}
	if strings.TrimSpace(opts.NewOut) != "" && strings.TrimSpace(opts.Seen) == "" {
		return fmt.Errorf("--new-out requires --seen")
	}
	if opts.SeenUpdate && strings.TrimSpace(opts.Seen) == "" {
		return fmt.Errorf("--seen-update requires --seen")
	}

	params, err := resolveParams(ctx.Config, keywords, opts)
	if err != nil {
		return err
	}

	sc, err := buildScraper(ctx, opts)
	if err != nil {
		return err
	}

	runCtx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, time.Duration(opts.Timeout)*time.Second)
		defer cancel()
	}

	records, runErr := sc.Run(runCtx, params)
	if runErr != nil {
		// A cancelled batch still yields whatever was collected.
		ctx.UI.Warnf("batch interrupted: %v", runErr)
	}

	var unseen []models.TenderRecord
	if strings.TrimSpace(opts.Seen) != "" {
		seenRecords, err := history.ReadRecordsAllowMissing(opts.Seen)
		if err != nil {
			return fmt.Errorf("read --seen: %w", err)
		}
		unseen, _ = history.Diff(records, seenRecords)
	}

	outputRecords := records
	if opts.NewOnly {
		outputRecords = unseen
	}

	if strings.TrimSpace(opts.NewOut) != "" {
		if pathsEqual(opts.NewOut, opts.Output) || pathsEqual(opts.NewOut, opts.Seen) {
			return fmt.Errorf("--new-out path must differ from --output and --seen")
		}
		if err := history.WriteRecords(opts.NewOut, unseen); err != nil {
			return fmt.Errorf("write --new-out: %w", err)
		}
	}
	if strings.TrimSpace(opts.Seen) != "" && pathsEqual(opts.Output, opts.Seen) {
		return fmt.Errorf("--output path must differ from --seen")
	}

	format, err := resolveFormat(ctx, opts)
	if err != nil {
		return err
	}

	writer := ctx.Out
	if opts.Output != "" {
		file, err := os.Create(opts.Output)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled
	hyperlinks := colorEnabled && isTTY(writer)
	linkStyle := export.LinkStyleFull
	if strings.EqualFold(opts.Links, string(export.LinkStyleShort)) {
		linkStyle = export.LinkStyleShort
	}
	if err := export.WriteRecords(writer, outputRecords, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   hyperlinks,
		LinkStyle:    linkStyle,
	}); err != nil {
		return err
	}

	if opts.SeenUpdate {
		if err := updateSeenHistory(opts.Seen, unseen); err != nil {
			return err
		}
	}

	if ctx.Err != nil {
		fmt.Fprintf(ctx.Err, "summary: records=%d keywords=%d requests=%d\n",
			len(records), len(params.Keywords), sc.Requests())
	}
	return nil
}

// resolveKeywords splits and dedupes the keyword list, falling back to
// the configured set. maxKeywords of 0 means no cap.
func resolveKeywords(raw string, fallback []string, maxKeywords int) ([]string, error) {
	var keywords []string
	seen := map[string]struct{}{}
	appendUnique := func(value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		if _, exists := seen[value]; exists {
			return
		}
		seen[value] = struct{}{}
		keywords = append(keywords, value)
	}

	for _, part := range strings.Split(raw, ",") {
		appendUnique(part)
	}
	if len(keywords) == 0 {
		for _, keyword := range fallback {
			appendUnique(keyword)
		}
	}

	if len(keywords) == 0 {
		return nil, fmt.Errorf("at least one non-empty keyword is required")
	}
	if maxKeywords > 0 && len(keywords) > maxKeywords {
		return nil, fmt.Errorf("too many keywords: max %d", maxKeywords)
	}
	return keywords, nil
}

func resolveParams(cfg config.Config, keywords []string, opts SearchOptions) (models.QueryParams, error) {
	today := time.Now().Format(scraper.DateFormat)
	start := firstNonEmpty(opts.StartDate, today)
	end := firstNonEmpty(opts.EndDate, today)
	for _, date := range []string{start, end} {
		if _, err := time.Parse(scraper.DateFormat, date); err != nil {
			return models.QueryParams{}, fmt.Errorf("invalid date %q: expected YYYY/MM/DD", date)
		}
	}

	params := models.QueryParams{
		Keywords:  keywords,
		StartDate: start,
		EndDate:   end,
		PageSize:  defaultInt(opts.PageSize, cfg.DefaultPageSize),
	}
	filter := &models.QueryFilter{
		TenderType: strings.TrimSpace(opts.Type),
		MinBudget:  opts.MinBudget,
		Agency:     strings.TrimSpace(opts.Agency),
	}
	if !filter.Empty() {
		params.Filter = filter
	}
	return params, nil
}

func buildScraper(ctx *Context, opts SearchOptions) (*scraper.Scraper, error) {
	proxies, err := config.LoadProxies(opts.Proxies)
	if err != nil {
		return nil, err
	}

	var rotator *network.Rotator
	if len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, 10*time.Minute)
		if err != nil {
			return nil, err
		}
	}

	client, err := network.NewClient(rotator)
	if err != nil {
		return nil, err
	}

	attempts := defaultInt(opts.Attempts, ctx.Config.MaxAttempts)
	pacing := time.Duration(ctx.Config.PacingSeconds) * time.Second
	return scraper.New(client, attempts, pacing, ctx.Logger), nil
}

func updateSeenHistory(seenPath string, unseen []models.TenderRecord) error {
	seenRecords, err := history.ReadRecordsAllowMissing(seenPath)
	if err != nil {
		return fmt.Errorf("read --seen: %w", err)
	}

	merged, _ := history.Merge(seenRecords, unseen)
	if err := history.WriteRecords(seenPath, merged); err != nil {
		return fmt.Errorf("write --seen: %w", err)
	}
	return nil
}

func resolveFormat(ctx *Context, opts SearchOptions) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if opts.Format != "" {
		return parseFormat(opts.Format)
	}
	if opts.Output != "" {
		return export.FormatCSV, nil
	}
	if isTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

func parseFormat(value string) (export.Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return export.FormatCSV, nil
	case "json":
		return export.FormatJSON, nil
	case "md", "markdown":
		return export.FormatMarkdown, nil
	case "tsv":
		return export.FormatTSV, nil
	case "table", "":
		return export.FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

func pathsEqual(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil {
		return absA == absB
	}
	return filepath.Clean(a) == filepath.Clean(b)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}
