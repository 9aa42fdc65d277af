package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nickleo9/scraper/internal/models"
	"github.com/nickleo9/scraper/internal/scraper"
)

type ServeCmd struct {
	Addr     string `help:"Listen address." env:"TENDERCLI_LISTEN_ADDR"`
	Attempts int    `help:"Fetch attempts per keyword query." env:"TENDERCLI_MAX_ATTEMPTS"`
	Proxies  string `help:"Comma-separated proxy URLs." env:"TENDERCLI_PROXIES"`
}

// ScrapeRequest is the body of POST /scrape.
type ScrapeRequest struct {
	SearchTerms []string            `json:"search_terms"`
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
	PageSize    int                 `json:"page_size"`
	Filter      *models.QueryFilter `json:"filter,omitempty"`
}

// ScrapeResponse is the envelope returned by POST /scrape. Records are
// wrapped {"json": …} so n8n can ingest them directly.
type ScrapeResponse struct {
	Success   bool      `json:"success"`
	Data      []n8nItem `json:"data"`
	Count     int       `json:"count"`
	Message   string    `json:"message"`
	Timestamp string    `json:"timestamp"`
}

type n8nItem struct {
	JSON models.TenderRecord `json:"json"`
}

func (s *ServeCmd) Run(ctx *Context) error {
	opts := SearchOptions{Attempts: s.Attempts, Proxies: s.Proxies}
	sc, err := buildScraper(ctx, opts)
	if err != nil {
		return err
	}

	addr := firstNonEmpty(s.Addr, ctx.Config.ListenAddr)
	if !ctx.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(ctx))

	router.GET("/", s.handleRoot(ctx))
	router.GET("/health", s.handleHealth)
	router.POST("/scrape", s.handleScrape(ctx, sc))
	router.POST("/scrape-today", s.handleScrapeToday(ctx, sc))

	server := &http.Server{Addr: addr, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		ctx.Logger.Info().Str("addr", addr).Msg("scrape service listening")
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		ctx.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (s *ServeCmd) handleRoot(ctx *Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":   "government e-procurement scraper",
			"version":   ctx.Version,
			"status":    "running",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

func (s *ServeCmd) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *ServeCmd) handleScrape(ctx *Context, sc *scraper.Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		keywords := req.SearchTerms
		if len(keywords) == 0 {
			keywords = ctx.Config.DefaultKeywords
		}
		records, err := runBatch(c.Request.Context(), ctx, sc, keywords, req.StartDate, req.EndDate, req.PageSize, req.Filter)
		c.JSON(http.StatusOK, scrapeResponse(records, err))
	}
}

func (s *ServeCmd) handleScrapeToday(ctx *Context, sc *scraper.Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := runBatch(c.Request.Context(), ctx, sc, ctx.Config.DailyKeywords, "", "", 0, nil)
		if err != nil {
			ctx.Logger.Error().Err(err).Msg("scrape-today batch interrupted")
		}
		c.JSON(http.StatusOK, wrapRecords(records))
	}
}

// runBatch fills in defaults (today's date range, configured page size)
// and runs one keyword batch.
func runBatch(reqCtx context.Context, ctx *Context, sc *scraper.Scraper, keywords []string, start, end string, pageSize int, filter *models.QueryFilter) ([]models.TenderRecord, error) {
	today := time.Now().Format(scraper.DateFormat)
	params := models.QueryParams{
		Keywords:  keywords,
		StartDate: firstNonEmpty(start, today),
		EndDate:   firstNonEmpty(end, today),
		PageSize:  defaultInt(pageSize, ctx.Config.DefaultPageSize),
		Filter:    filter,
	}
	return sc.Run(reqCtx, params)
}

func scrapeResponse(records []models.TenderRecord, err error) ScrapeResponse {
	message := fmt.Sprintf("scraped %d records", len(records))
	if err != nil {
		message = fmt.Sprintf("scraped %d records before interruption: %v", len(records), err)
	}
	return ScrapeResponse{
		Success:   err == nil,
		Data:      wrapRecords(records),
		Count:     len(records),
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func wrapRecords(records []models.TenderRecord) []n8nItem {
	items := make([]n8nItem, 0, len(records))
	for _, record := range records {
		items = append(items, n8nItem{JSON: record})
	}
	return items
}

func requestLogger(ctx *Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		ctx.Logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}
