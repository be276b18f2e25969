package media

import (
	"context"
	"io"
	"strings"
	"testing"
)

// mockSearcher implements ImageSearcher for testing
type mockSearcher struct {
	name          string
	searchResults []SearchResult
	searchErr     error
	downloadErr   error
	downloadData  string
}

func (m *mockSearcher) Search(ctx context.Context, opts *SearchOptions) ([]SearchResult, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResults, nil
}

func (m *mockSearcher) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}
	data := m.downloadData
	if data == "" {
		data = "mock image data"
	}
	return io.NopCloser(strings.NewReader(data)), nil
}

func (m *mockSearcher) GetAttribution(result *SearchResult) string {
	return result.Attribution
}

func (m *mockSearcher) Name() string {
	return m.name
}

func TestDefaultSearchOptions(t *testing.T) {
	opts := DefaultSearchOptions("mitochondria")

	if opts.Query != "mitochondria" {
		t.Errorf("Expected query 'mitochondria', got '%s'", opts.Query)
	}

	if opts.Language != "en" {
		t.Errorf("Expected language 'en', got '%s'", opts.Language)
	}

	if !opts.SafeSearch {
		t.Error("Expected SafeSearch to be true")
	}

	if opts.PerPage != 10 {
		t.Errorf("Expected PerPage 10, got %d", opts.PerPage)
	}

	if opts.Page != 1 {
		t.Errorf("Expected Page 1, got %d", opts.Page)
	}

	if opts.ImageType != "photo" {
		t.Errorf("Expected ImageType 'photo', got '%s'", opts.ImageType)
	}
}

func TestSearchError(t *testing.T) {
	err := &SearchError{
		Provider: "test",
		Code:     "404",
		Message:  "Not found",
	}

	expected := "test: Not found"
	if err.Error() != expected {
		t.Errorf("Expected error '%s', got '%s'", expected, err.Error())
	}
}

func TestRateLimitError(t *testing.T) {
	err := &RateLimitError{
		Provider:     "test",
		RetryAfter:   60,
		LimitPerHour: 100,
	}

	expected := "test: rate limit exceeded"
	if err.Error() != expected {
		t.Errorf("Expected error '%s', got '%s'", expected, err.Error())
	}
}

func TestNewImageSearcher(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		apiKey   string
		wantName string
		wantErr  bool
	}{
		{
			name:     "pixabay with key",
			provider: "pixabay",
			apiKey:   "test-key",
			wantName: "pixabay",
		},
		{
			name:     "pixabay without key",
			provider: "pixabay",
			apiKey:   "",
			wantErr:  true,
		},
		{
			name:     "unsplash with key",
			provider: "unsplash",
			apiKey:   "test-key",
			wantName: "unsplash",
		},
		{
			name:     "unsplash without key",
			provider: "unsplash",
			apiKey:   "",
			wantErr:  true,
		},
		{
			name:     "unknown provider",
			provider: "flickr",
			apiKey:   "test-key",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher, err := NewImageSearcher(tt.provider, tt.apiKey)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewImageSearcher() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if searcher.Name() != tt.wantName {
				t.Errorf("Name() = %s, want %s", searcher.Name(), tt.wantName)
			}
		})
	}
}

func TestMockSearcher(t *testing.T) {
	mockResults := []SearchResult{
		{
			ID:          "1",
			URL:         "https://example.com/image1.jpg",
			Width:       800,
			Height:      600,
			Description: "Test image",
			Source:      "mock",
		},
	}

	searcher := &mockSearcher{
		name:          "mock",
		searchResults: mockResults,
	}

	ctx := context.Background()
	opts := DefaultSearchOptions("test")

	results, err := searcher.Search(ctx, opts)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}

	if results[0].ID != "1" {
		t.Errorf("Expected ID '1', got '%s'", results[0].ID)
	}
}
