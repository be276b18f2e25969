package quizlet

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sony/gobreaker"

	"codeberg.org/snonux/quizanki/internal/httputil"
)

// setPageBase is the page host for study sets. Declared as a var so
// tests can substitute an httptest server.
var setPageBase = "https://quizlet.com"

// Config controls the scraper client
type Config struct {
	// UserAgent sent with every request; empty selects the default
	// browser agent
	UserAgent string

	// Timeout per HTTP request
	Timeout time.Duration

	// MaxRetries for 429/5xx responses
	MaxRetries int

	// RequestsPerMinute caps how fast set pages are fetched
	RequestsPerMinute int
}

// DefaultConfig returns the client defaults
func DefaultConfig() Config {
	return Config{
		Timeout:           30 * time.Second,
		MaxRetries:        3,
		RequestsPerMinute: 12,
	}
}

// Client fetches and parses study-set pages
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	limiter    *httputil.RateLimiter
	maxRetries int
}

// NewClient creates a scraper client. Fetches go through a sliding
// window rate limiter and a circuit breaker, so a blocked or failing
// Quizlet stops the pipeline instead of being hammered.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultConfig().RequestsPerMinute
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultConfig().MaxRetries
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "quizlet-fetch",
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: httputil.NewUserAgentTransport(cfg.UserAgent, nil),
		},
		breaker:    breaker,
		limiter:    httputil.NewRateLimiter(cfg.RequestsPerMinute),
		maxRetries: cfg.MaxRetries,
	}
}

// FetchSet downloads and parses the study set behind rawURL
func (c *Client) FetchSet(ctx context.Context, rawURL string) (*StudySet, error) {
	id, slug, err := ParseSetURL(rawURL)
	if err != nil {
		return nil, err
	}

	pageURL := fmt.Sprintf("%s/%d/", setPageBase, id)
	if slug != "" {
		pageURL = fmt.Sprintf("%s/%d/%s/", setPageBase, id, slug)
	}

	c.limiter.Wait()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetchDocument(ctx, pageURL)
	})
	if err != nil {
		return nil, err
	}

	set, err := ParseSetDocument(result.(*goquery.Document), pageURL)
	if err != nil {
		return nil, err
	}

	set.ID = id
	set.Slug = slug
	if set.Title == "" {
		set.Title = fmt.Sprintf("Quizlet set %d", id)
	}

	return set, nil
}

// fetchDocument GETs the page and hands the body to goquery
func (c *Client) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("requesting set page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading set page: %w", err)
	}

	return doc, nil
}
