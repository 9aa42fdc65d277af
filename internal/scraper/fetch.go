package scraper

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/rs/zerolog"

	"github.com/nickleo9/scraper/internal/network"
)

const (
	defaultMaxAttempts  = 3
	defaultBackoffBase  = 2 * time.Second
	defaultBackoffStep  = 2 * time.Second
	defaultBackoffLimit = 15 * time.Second
)

// The upstream occasionally answers 200 with an error page instead of
// data; those bodies are retried like any transport failure.
var softFailureMarkers = []string{
	"系統發生錯誤",
	"無權限使用本系統",
	"驗證失敗",
}

// FetchError is the terminal failure after all attempts are exhausted.
// Callers treat it as "no data for this query", never as fatal.
type FetchError struct {
	URL      string
	Attempts int
	Cause    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// Fetcher issues a single logical GET with bounded retries and a
// stepped backoff between attempts.
type Fetcher struct {
	client       *network.Client
	maxAttempts  int
	backoffBase  time.Duration
	backoffStep  time.Duration
	backoffLimit time.Duration
	logger       zerolog.Logger
}

func NewFetcher(client *network.Client, maxAttempts int, logger zerolog.Logger) *Fetcher {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Fetcher{
		client:       client,
		maxAttempts:  maxAttempts,
		backoffBase:  defaultBackoffBase,
		backoffStep:  defaultBackoffStep,
		backoffLimit: defaultBackoffLimit,
		logger:       logger,
	}
}

// Fetch returns the response body for target, retrying transient
// failures. Context cancellation aborts the current attempt and any
// remaining backoff immediately.
func (f *Fetcher) Fetch(ctx context.Context, target string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", &FetchError{URL: target, Attempts: attempt - 1, Cause: err}
		}

		body, err := f.fetchOnce(ctx, target)
		if err == nil {
			return body, nil
		}
		lastErr = err
		f.logger.Warn().
			Str("url", target).
			Int("attempt", attempt).
			Err(err).
			Msg("fetch attempt failed")

		if attempt < f.maxAttempts {
			select {
			case <-ctx.Done():
				return "", &FetchError{URL: target, Attempts: attempt, Cause: ctx.Err()}
			case <-time.After(f.backoff(attempt)):
			}
		}
	}

	return "", &FetchError{URL: target, Attempts: f.maxAttempts, Cause: lastErr}
}

func (f *Fetcher) fetchOnce(ctx context.Context, target string) (string, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	applyHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("http %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	body := string(data)
	if marker := softFailure(body); marker != "" {
		return "", fmt.Errorf("soft failure page: %s", marker)
	}
	return body, nil
}

// backoff grows by a fixed step per attempt, capped at backoffLimit.
func (f *Fetcher) backoff(attempt int) time.Duration {
	delay := f.backoffBase + time.Duration(attempt-1)*f.backoffStep
	if delay > f.backoffLimit {
		delay = f.backoffLimit
	}
	return delay
}

func softFailure(body string) string {
	for _, marker := range softFailureMarkers {
		if strings.Contains(body, marker) {
			return marker
		}
	}
	return ""
}

func applyHeaders(req *fhttp.Request) {
	if req.Header.Get("accept") == "" {
		req.Header.Set("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	}
	if req.Header.Get("accept-language") == "" {
		req.Header.Set("accept-language", "zh-TW,zh;q=0.9,en;q=0.8")
	}
}
