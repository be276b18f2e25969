package media

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultDownloadOptions(t *testing.T) {
	opts := DefaultDownloadOptions()

	if opts.OutputDir != "." {
		t.Errorf("Expected output dir '.', got '%s'", opts.OutputDir)
	}

	if !opts.OverwriteExisting {
		t.Error("Expected OverwriteExisting to be true")
	}

	if !opts.CreateDir {
		t.Error("Expected CreateDir to be true")
	}

	if opts.MaxSizeBytes != 10*1024*1024 {
		t.Errorf("Expected MaxSizeBytes 10MB, got %d", opts.MaxSizeBytes)
	}
}

func TestDownloadURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake png bytes"))
	}))
	defer server.Close()

	tmpDir := t.TempDir()
	d := NewDownloader(nil, &DownloadOptions{
		OutputDir:         tmpDir,
		OverwriteExisting: true,
		CreateDir:         true,
		MaxSizeBytes:      1024,
	})

	path, err := d.DownloadURL(context.Background(), server.URL+"/images/photo.png", "003_image")
	if err != nil {
		t.Fatalf("DownloadURL() error = %v", err)
	}

	wantPath := filepath.Join(tmpDir, "003_image.png")
	if path != wantPath {
		t.Errorf("Expected path %s, got %s", wantPath, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read downloaded file: %v", err)
	}
	if string(data) != "fake png bytes" {
		t.Errorf("Expected downloaded content, got %q", data)
	}
}

func TestDownloadURL_DefaultExtension(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data"))
	}))
	defer server.Close()

	tmpDir := t.TempDir()
	d := NewDownloader(nil, &DownloadOptions{OutputDir: tmpDir, OverwriteExisting: true, CreateDir: true})

	path, err := d.DownloadURL(context.Background(), server.URL+"/no-extension", "001_image")
	if err != nil {
		t.Fatalf("DownloadURL() error = %v", err)
	}

	if filepath.Ext(path) != ".jpg" {
		t.Errorf("Expected default .jpg extension, got %s", filepath.Ext(path))
	}
}

func TestDownloadURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	tmpDir := t.TempDir()
	d := NewDownloader(nil, &DownloadOptions{OutputDir: tmpDir, OverwriteExisting: true, CreateDir: true})

	_, err := d.DownloadURL(context.Background(), server.URL+"/gone.jpg", "001_image")
	if err == nil {
		t.Fatal("Expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("Expected status in error, got: %v", err)
	}
}

func TestDownloadURL_SizeCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer server.Close()

	tmpDir := t.TempDir()
	d := NewDownloader(nil, &DownloadOptions{
		OutputDir:         tmpDir,
		OverwriteExisting: true,
		CreateDir:         true,
		MaxSizeBytes:      10,
	})

	_, err := d.DownloadURL(context.Background(), server.URL+"/big.jpg", "001_image")
	if err == nil {
		t.Fatal("Expected error for oversized image")
	}
	if !strings.Contains(err.Error(), "maximum size") {
		t.Errorf("Expected size cap error, got: %v", err)
	}

	// Partial file must be cleaned up
	if _, err := os.Stat(filepath.Join(tmpDir, "001_image.jpg")); !os.IsNotExist(err) {
		t.Error("Expected partial file to be removed")
	}
}

func TestDownloadURL_ExactSizeAllowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 10)))
	}))
	defer server.Close()

	tmpDir := t.TempDir()
	d := NewDownloader(nil, &DownloadOptions{
		OutputDir:         tmpDir,
		OverwriteExisting: true,
		CreateDir:         true,
		MaxSizeBytes:      10,
	})

	path, err := d.DownloadURL(context.Background(), server.URL+"/fits.jpg", "001_image")
	if err != nil {
		t.Fatalf("DownloadURL() error for file at exactly the cap: %v", err)
	}

	data, _ := os.ReadFile(path)
	if len(data) != 10 {
		t.Errorf("Expected 10 bytes, got %d", len(data))
	}
}

func TestDownloadURL_NoOverwrite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("new data"))
	}))
	defer server.Close()

	tmpDir := t.TempDir()
	existing := filepath.Join(tmpDir, "001_image.jpg")
	if err := os.WriteFile(existing, []byte("old data"), 0644); err != nil {
		t.Fatalf("Failed to create existing file: %v", err)
	}

	d := NewDownloader(nil, &DownloadOptions{
		OutputDir:         tmpDir,
		OverwriteExisting: false,
		CreateDir:         true,
	})

	_, err := d.DownloadURL(context.Background(), server.URL+"/photo.jpg", "001_image")
	if err == nil {
		t.Fatal("Expected error when file exists and overwrite is disabled")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Expected already exists error, got: %v", err)
	}
}

func TestDownloadBestMatch(t *testing.T) {
	tmpDir := t.TempDir()

	searcher := &mockSearcher{
		name: "mock",
		searchResults: []SearchResult{
			{
				ID:          "42",
				URL:         "https://example.com/photos/cell.jpg",
				Description: "a cell",
				Attribution: "Photo by Someone",
				Source:      "mock",
			},
		},
		downloadData: "image payload",
	}

	d := NewDownloader(searcher, &DownloadOptions{
		OutputDir:         tmpDir,
		OverwriteExisting: true,
		CreateDir:         true,
	})

	result, path, err := d.DownloadBestMatch(context.Background(), "cell", "005_image")
	if err != nil {
		t.Fatalf("DownloadBestMatch() error = %v", err)
	}

	if result.ID != "42" {
		t.Errorf("Expected result ID 42, got %s", result.ID)
	}

	wantPath := filepath.Join(tmpDir, "005_image.jpg")
	if path != wantPath {
		t.Errorf("Expected path %s, got %s", wantPath, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read downloaded file: %v", err)
	}
	if string(data) != "image payload" {
		t.Errorf("Expected image payload, got %q", data)
	}

	// Attribution file written alongside
	attrPath := filepath.Join(tmpDir, "005_image_attribution.txt")
	attr, err := os.ReadFile(attrPath)
	if err != nil {
		t.Fatalf("Expected attribution file: %v", err)
	}
	if string(attr) != "Photo by Someone" {
		t.Errorf("Expected attribution text, got %q", attr)
	}
}

func TestDownloadBestMatch_NoResults(t *testing.T) {
	searcher := &mockSearcher{name: "mock"}
	d := NewDownloader(searcher, &DownloadOptions{OutputDir: t.TempDir(), CreateDir: true})

	_, _, err := d.DownloadBestMatch(context.Background(), "nothing", "001_image")
	if err == nil {
		t.Fatal("Expected error when no results found")
	}
	if !strings.Contains(err.Error(), "no images found") {
		t.Errorf("Expected no images found error, got: %v", err)
	}
}

func TestDownloadBestMatch_SearchError(t *testing.T) {
	searcher := &mockSearcher{
		name:      "mock",
		searchErr: fmt.Errorf("api down"),
	}
	d := NewDownloader(searcher, &DownloadOptions{OutputDir: t.TempDir(), CreateDir: true})

	_, _, err := d.DownloadBestMatch(context.Background(), "cell", "001_image")
	if err == nil {
		t.Fatal("Expected error when search fails")
	}
	if !strings.Contains(err.Error(), "search failed") {
		t.Errorf("Expected search failed error, got: %v", err)
	}
}

func TestDownloadBestMatch_NoSearcher(t *testing.T) {
	d := NewDownloader(nil, &DownloadOptions{OutputDir: t.TempDir(), CreateDir: true})

	_, _, err := d.DownloadBestMatch(context.Background(), "cell", "001_image")
	if err == nil {
		t.Fatal("Expected error without a searcher")
	}
}

func TestExtFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "jpg",
			url:  "https://o.quizlet.com/abc.jpg",
			want: ".jpg",
		},
		{
			name: "png with query string",
			url:  "https://o.quizlet.com/abc.png?w=200&h=200",
			want: ".png",
		},
		{
			name: "uppercase extension",
			url:  "https://example.com/photo.JPG",
			want: ".jpg",
		},
		{
			name: "no extension",
			url:  "https://example.com/image",
			want: ".jpg",
		},
		{
			name: "long bogus extension",
			url:  "https://example.com/file.abcdef",
			want: ".jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extFromURL(tt.url); got != tt.want {
				t.Errorf("extFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
