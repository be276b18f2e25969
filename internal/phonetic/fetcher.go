package phonetic

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/quizanki/internal"
)

// requestTimeout bounds a single transcription call. Phonetics are an
// optional nicety, so a slow API should not stall the import.
const requestTimeout = 15 * time.Second

// Model is the chat model used for transcription requests
const Model = openai.GPT4oMini

// Fetcher fetches IPA transcriptions for card fronts
type Fetcher struct {
	apiKey string
	client *openai.Client

	mu    sync.Mutex
	cache map[string]string
}

// NewFetcher creates a new phonetic transcription fetcher
func NewFetcher(apiKey string) *Fetcher {
	return &Fetcher{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
		cache:  make(map[string]string),
	}
}

// Fetch returns the IPA transcription for a single term
func (f *Fetcher) Fetch(ctx context.Context, term string) (string, error) {
	if f.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not configured")
	}

	term = strings.TrimSpace(term)
	if term == "" {
		return "", fmt.Errorf("term cannot be empty")
	}

	f.mu.Lock()
	if cached, ok := f.cache[term]; ok {
		f.mu.Unlock()
		return cached, nil
	}
	f.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a pronunciation assistant for flashcard decks. Reply with only the IPA transcription of the given term, enclosed in slashes, with stress marks. No explanations.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Transcribe: %s", term),
			},
		},
		Temperature: 0.3,
		MaxTokens:   60,
	}

	resp, err := f.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no response from OpenAI")
	}

	ipa := strings.TrimSpace(resp.Choices[0].Message.Content)

	f.mu.Lock()
	f.cache[term] = ipa
	f.mu.Unlock()

	return ipa, nil
}

// FetchAll fetches transcriptions for all terms. Failures are printed as
// warnings and the affected terms are left out of the result.
func (f *Fetcher) FetchAll(ctx context.Context, terms []string) map[string]string {
	phonetics := make(map[string]string)

	for _, term := range terms {
		ipa, err := f.Fetch(ctx, term)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: phonetics for %q: %v\n", term, err)
			continue
		}
		phonetics[term] = ipa
	}

	return phonetics
}

// Save writes the front-to-IPA map to the set directory. An empty map
// writes nothing.
func Save(dir string, phonetics map[string]string) error {
	if len(phonetics) == 0 {
		return nil
	}

	data, err := json.MarshalIndent(phonetics, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode phonetics: %w", err)
	}

	path := filepath.Join(dir, internal.PhoneticsFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write phonetics file: %w", err)
	}

	return nil
}
