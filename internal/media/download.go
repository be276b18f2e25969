package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/snonux/quizanki/internal/httputil"
)

const downloadTimeout = 30 * time.Second

// DownloadOptions configures image download behavior
type DownloadOptions struct {
	OutputDir         string // Directory to save images
	OverwriteExisting bool   // Whether to overwrite existing files
	CreateDir         bool   // Create output directory if it doesn't exist
	MaxSizeBytes      int64  // Maximum file size to download (0 = no limit)
}

// DefaultDownloadOptions returns sensible defaults for image downloads
func DefaultDownloadOptions() *DownloadOptions {
	return &DownloadOptions{
		OutputDir:         ".",
		OverwriteExisting: true,
		CreateDir:         true,
		MaxSizeBytes:      10 * 1024 * 1024, // 10MB
	}
}

// Downloader fetches card images. Scraped term images are downloaded
// directly by URL; when a searcher is set, terms without an image can
// fall back to a stock-photo search.
type Downloader struct {
	searcher ImageSearcher
	client   *http.Client
	options  *DownloadOptions
}

// NewDownloader creates a new image downloader. The searcher may be nil
// when only direct URL downloads are needed.
func NewDownloader(searcher ImageSearcher, options *DownloadOptions) *Downloader {
	if options == nil {
		options = DefaultDownloadOptions()
	}
	return &Downloader{
		searcher: searcher,
		client: &http.Client{
			Timeout:   downloadTimeout,
			Transport: httputil.NewUserAgentTransport(httputil.DefaultUserAgent, nil),
		},
		options: options,
	}
}

// DownloadURL downloads an image URL to OutputDir/baseName with the
// extension taken from the URL path. Returns the final file path.
func (d *Downloader) DownloadURL(ctx context.Context, imageURL, baseName string) (string, error) {
	outputPath := filepath.Join(d.options.OutputDir, baseName+extFromURL(imageURL))

	if err := d.prepareOutput(outputPath); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	if err := d.saveTo(outputPath, resp.Body); err != nil {
		return "", err
	}

	return outputPath, nil
}

// DownloadSearchResult downloads a search result image to the specified path
func (d *Downloader) DownloadSearchResult(ctx context.Context, result *SearchResult, outputPath string) error {
	if d.searcher == nil {
		return fmt.Errorf("no image searcher configured")
	}

	if err := d.prepareOutput(outputPath); err != nil {
		return err
	}

	reader, err := d.searcher.Download(ctx, result.URL)
	if err != nil {
		return fmt.Errorf("failed to download image: %w", err)
	}
	defer reader.Close()

	if err := d.saveTo(outputPath, reader); err != nil {
		return err
	}

	// Save attribution if required
	if attribution := d.searcher.GetAttribution(result); attribution != "" {
		attrPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + "_attribution.txt"
		if err := os.WriteFile(attrPath, []byte(attribution), 0644); err != nil {
			// Non-fatal error - log but don't fail the download
			fmt.Fprintf(os.Stderr, "Warning: failed to save attribution: %v\n", err)
		}
	}

	return nil
}

// DownloadBestMatch searches for images matching the query and downloads
// the first one that succeeds, saved as OutputDir/baseName with the
// extension from the result URL.
func (d *Downloader) DownloadBestMatch(ctx context.Context, query, baseName string) (*SearchResult, string, error) {
	if d.searcher == nil {
		return nil, "", fmt.Errorf("no image searcher configured")
	}

	opts := DefaultSearchOptions(query)
	opts.PerPage = 5 // Get top 5 results

	results, err := d.searcher.Search(ctx, opts)
	if err != nil {
		return nil, "", fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		return nil, "", fmt.Errorf("no images found for query: %s", query)
	}

	// Try to download the first available image
	for i, result := range results {
		outputPath := filepath.Join(d.options.OutputDir, baseName+extFromURL(result.URL))

		err := d.DownloadSearchResult(ctx, &result, outputPath)
		if err == nil {
			return &result, outputPath, nil
		}

		// Log error and try next
		fmt.Fprintf(os.Stderr, "Warning: failed to download image %d: %v\n", i+1, err)
	}

	return nil, "", fmt.Errorf("failed to download any images for query: %s", query)
}

// prepareOutput creates the output directory and checks for collisions
func (d *Downloader) prepareOutput(outputPath string) error {
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." && d.options.CreateDir {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if !d.options.OverwriteExisting {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("file already exists: %s", outputPath)
		}
	}

	return nil
}

// saveTo writes the reader to outputPath, enforcing the size cap and
// removing partial files on error
func (d *Downloader) saveTo(outputPath string, reader io.Reader) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if d.options.MaxSizeBytes > 0 {
		written, err := io.CopyN(file, reader, d.options.MaxSizeBytes)
		if err != nil && err != io.EOF {
			os.Remove(outputPath) // Clean up on error
			return fmt.Errorf("failed to write file: %w", err)
		}

		// Check if we hit the size limit
		if written == d.options.MaxSizeBytes {
			// Try to read one more byte to see if file is larger
			if _, err := reader.Read(make([]byte, 1)); err != io.EOF {
				os.Remove(outputPath) // Clean up
				return fmt.Errorf("image exceeds maximum size of %d bytes", d.options.MaxSizeBytes)
			}
		}
	} else {
		if _, err := io.Copy(file, reader); err != nil {
			os.Remove(outputPath) // Clean up on error
			return fmt.Errorf("failed to write file: %w", err)
		}
	}

	return nil
}

// extFromURL derives the image file extension from the URL path
func extFromURL(imageURL string) string {
	ext := ""
	if u, err := url.Parse(imageURL); err == nil {
		ext = strings.ToLower(filepath.Ext(u.Path))
	}
	if ext == "" || len(ext) > 5 {
		// Probably not a real extension
		ext = ".jpg"
	}
	return ext
}
