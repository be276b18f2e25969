package phonetic

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/quizanki/internal"
)

func TestNewFetcher(t *testing.T) {
	fetcher := NewFetcher("test-api-key")

	if fetcher == nil {
		t.Fatal("NewFetcher returned nil")
	}

	if fetcher.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", fetcher.apiKey)
	}

	if fetcher.client == nil {
		t.Error("OpenAI client not initialized")
	}

	if fetcher.cache == nil {
		t.Error("Cache not initialized")
	}
}

func TestFetch_NoAPIKey(t *testing.T) {
	fetcher := NewFetcher("")

	_, err := fetcher.Fetch(context.Background(), "mitochondria")
	if err == nil {
		t.Error("Expected error for missing API key")
	}

	if err.Error() != "OpenAI API key not configured" {
		t.Errorf("Expected 'OpenAI API key not configured' error, got: %v", err)
	}
}

func TestFetch_EmptyTerm(t *testing.T) {
	fetcher := NewFetcher("test-api-key")

	_, err := fetcher.Fetch(context.Background(), "   ")
	if err == nil {
		t.Error("Expected error for empty term")
	}

	if err.Error() != "term cannot be empty" {
		t.Errorf("Expected 'term cannot be empty' error, got: %v", err)
	}
}

func TestFetch_CacheHit(t *testing.T) {
	// A pre-populated cache entry must short-circuit the API call even
	// with no working client behind it
	fetcher := NewFetcher("test-api-key")
	fetcher.cache["mitochondria"] = "/ˌmaɪtəˈkɒndriə/"

	ipa, err := fetcher.Fetch(context.Background(), "mitochondria")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if ipa != "/ˌmaɪtəˈkɒndriə/" {
		t.Errorf("Expected cached transcription, got %q", ipa)
	}
}

func TestFetchAll_SkipsFailures(t *testing.T) {
	fetcher := NewFetcher("test-api-key")
	fetcher.cache["known"] = "/nəʊn/"

	// "known" resolves from cache; the other term fails against the fake
	// key and is skipped
	phonetics := fetcher.FetchAll(context.Background(), []string{"known", ""})

	if len(phonetics) != 1 {
		t.Errorf("Expected 1 transcription, got %d", len(phonetics))
	}
	if phonetics["known"] != "/nəʊn/" {
		t.Errorf("Expected cached transcription for 'known', got %q", phonetics["known"])
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()

	phonetics := map[string]string{
		"mitochondria": "/ˌmaɪtəˈkɒndriə/",
		"ribosome":     "/ˈraɪbəsəʊm/",
	}

	if err := Save(tmpDir, phonetics); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, internal.PhoneticsFileName))
	if err != nil {
		t.Fatalf("Failed to read phonetics file: %v", err)
	}

	var loaded map[string]string
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Failed to parse phonetics file: %v", err)
	}

	if len(loaded) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(loaded))
	}
	if loaded["mitochondria"] != "/ˌmaɪtəˈkɒndriə/" {
		t.Errorf("Unexpected transcription: %q", loaded["mitochondria"])
	}
}

func TestSave_EmptyMap(t *testing.T) {
	tmpDir := t.TempDir()

	if err := Save(tmpDir, map[string]string{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, internal.PhoneticsFileName)); !os.IsNotExist(err) {
		t.Error("Empty map should not create a phonetics file")
	}
}

func TestFetch_Integration(t *testing.T) {
	// Skip if no API key
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	fetcher := NewFetcher(apiKey)

	ipa, err := fetcher.Fetch(context.Background(), "mitochondria")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(ipa) == 0 {
		t.Error("Empty transcription")
	}

	if !strings.Contains(ipa, "/") && !strings.Contains(ipa, "[") {
		t.Errorf("Content doesn't appear to contain IPA transcription: %q", ipa)
	}

	t.Logf("IPA for 'mitochondria': %s", ipa)
}
