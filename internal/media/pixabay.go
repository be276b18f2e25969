package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"codeberg.org/snonux/quizanki/internal/httputil"
)

const (
	pixabayAPIURL  = "https://pixabay.com/api/"
	pixabayTimeout = 30 * time.Second
)

// PixabayClient implements ImageSearcher for Pixabay API
type PixabayClient struct {
	apiKey     string
	httpClient *http.Client
	rateLimit  *httputil.RateLimiter
}

// pixabayResponse represents the API response structure
type pixabayResponse struct {
	Total     int            `json:"total"`
	TotalHits int            `json:"totalHits"`
	Hits      []pixabayImage `json:"hits"`
}

// pixabayImage represents a single image in the response
type pixabayImage struct {
	ID              int    `json:"id"`
	PageURL         string `json:"pageURL"`
	Type            string `json:"type"`
	Tags            string `json:"tags"`
	PreviewURL      string `json:"previewURL"`
	PreviewWidth    int    `json:"previewWidth"`
	PreviewHeight   int    `json:"previewHeight"`
	WebformatURL    string `json:"webformatURL"`
	WebformatWidth  int    `json:"webformatWidth"`
	WebformatHeight int    `json:"webformatHeight"`
	LargeImageURL   string `json:"largeImageURL"`
	ImageWidth      int    `json:"imageWidth"`
	ImageHeight     int    `json:"imageHeight"`
	Views           int    `json:"views"`
	Downloads       int    `json:"downloads"`
	Collections     int    `json:"collections"`
	Likes           int    `json:"likes"`
	Comments        int    `json:"comments"`
	UserID          int    `json:"user_id"`
	User            string `json:"user"`
	UserImageURL    string `json:"userImageURL"`
}

// NewPixabayClient creates a new Pixabay API client
func NewPixabayClient(apiKey string) *PixabayClient {
	return &PixabayClient{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: pixabayTimeout,
		},
		rateLimit: httputil.NewRateLimiter(100), // 100 requests per minute
	}
}

// Search performs an image search on Pixabay
func (p *PixabayClient) Search(ctx context.Context, opts *SearchOptions) ([]SearchResult, error) {
	// Apply rate limiting
	p.rateLimit.Wait()

	// Build query parameters
	params := url.Values{}
	if p.apiKey != "" {
		params.Set("key", p.apiKey)
	}
	params.Set("q", opts.Query)
	params.Set("lang", opts.Language)
	params.Set("image_type", opts.ImageType)
	params.Set("safesearch", fmt.Sprintf("%t", opts.SafeSearch))
	params.Set("per_page", fmt.Sprintf("%d", opts.PerPage))
	params.Set("page", fmt.Sprintf("%d", opts.Page))

	if opts.Orientation != "all" && opts.Orientation != "" {
		params.Set("orientation", opts.Orientation)
	}

	// Make request
	reqURL := pixabayAPIURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Check status code
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{
			Provider:     "pixabay",
			RetryAfter:   60,
			LimitPerHour: 5000,
		}
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &SearchError{
			Provider: "pixabay",
			Code:     fmt.Sprintf("%d", resp.StatusCode),
			Message:  string(body),
		}
	}

	// Parse response
	var pixResp pixabayResponse
	if err := json.NewDecoder(resp.Body).Decode(&pixResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// Convert to SearchResult
	results := make([]SearchResult, 0, len(pixResp.Hits))
	for _, hit := range pixResp.Hits {
		results = append(results, SearchResult{
			ID:           fmt.Sprintf("%d", hit.ID),
			URL:          hit.WebformatURL,
			ThumbnailURL: hit.PreviewURL,
			Width:        hit.WebformatWidth,
			Height:       hit.WebformatHeight,
			Description:  hit.Tags,
			Attribution:  fmt.Sprintf("Image by %s from Pixabay", hit.User),
			Source:       "pixabay",
		})
	}

	return results, nil
}

// Download downloads an image from the given URL
func (p *PixabayClient) Download(ctx context.Context, imageURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// GetAttribution returns the required attribution text for an image
func (p *PixabayClient) GetAttribution(result *SearchResult) string {
	return result.Attribution
}

// Name returns the name of the search provider
func (p *PixabayClient) Name() string {
	return "pixabay"
}
