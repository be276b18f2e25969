package gui

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/quizanki/internal"
	"codeberg.org/snonux/quizanki/internal/audio"
	"codeberg.org/snonux/quizanki/internal/media"
	"codeberg.org/snonux/quizanki/internal/quizlet"
)

// fetchSet performs a queued fetch: scrape the set page, save it to the
// output directory and download term images. Image failures are
// warnings, the set is usable without them.
func (a *Application) fetchSet(ctx context.Context, setURL string) (*quizlet.StudySet, string, error) {
	set, err := a.client.FetchSet(ctx, setURL)
	if err != nil {
		return nil, "", err
	}

	setDir := filepath.Join(a.config.OutputDir, internal.SetDirName(set.ID, set.Slug))
	if err := saveSet(set, setDir); err != nil {
		return nil, "", err
	}

	a.downloadSetImages(ctx, set, setDir)

	return set, setDir, nil
}

// saveSet writes the study set as JSON into its directory
func saveSet(set *quizlet.StudySet, setDir string) error {
	if err := os.MkdirAll(setDir, 0755); err != nil {
		return fmt.Errorf("failed to create set directory: %w", err)
	}

	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal set: %w", err)
	}

	setFile := filepath.Join(setDir, internal.SetFileName)
	if err := os.WriteFile(setFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write set file: %w", err)
	}

	return nil
}

// saveCurrentSet persists card edits back to the loaded set's directory
func (a *Application) saveCurrentSet() error {
	a.mu.Lock()
	set := a.currentSet
	setDir := a.currentSetDir
	a.mu.Unlock()

	if set == nil || setDir == "" {
		return nil
	}
	return saveSet(set, setDir)
}

// downloadSetImages fetches each term's scraped image into the set's
// media directory. With image search enabled, terms without a scraped
// image fall back to a stock photo search.
func (a *Application) downloadSetImages(ctx context.Context, set *quizlet.StudySet, setDir string) {
	mediaDir := filepath.Join(setDir, internal.MediaDirName)

	var searcher media.ImageSearcher
	if a.config.SearchImages {
		var err error
		searcher, err = a.newImageSearcher()
		if err != nil {
			fmt.Printf("  Warning: image search disabled: %v\n", err)
		}
	}

	if !set.HasImages() && searcher == nil {
		return
	}

	downloader := media.NewDownloader(searcher, &media.DownloadOptions{
		OutputDir:         mediaDir,
		OverwriteExisting: true,
		CreateDir:         true,
		MaxSizeBytes:      5 * 1024 * 1024,
	})

	downloaded := 0
	for _, term := range set.Terms {
		prefix := internal.MediaImagePrefix(term.SortOrder)
		if findMediaFile(mediaDir, prefix) != "" {
			// Keep images from a previous run
			continue
		}

		switch {
		case term.ImageURL != "":
			if _, err := downloader.DownloadURL(ctx, term.ImageURL, prefix); err != nil {
				fmt.Printf("  Warning: image for term %d failed: %v\n", term.SortOrder+1, err)
				continue
			}
			downloaded++
		case searcher != nil:
			query := quizlet.PlainText(term.Front)
			if query == "" {
				continue
			}
			if _, _, err := downloader.DownloadBestMatch(ctx, query, prefix); err != nil {
				fmt.Printf("  Warning: image search for %q failed: %v\n", query, err)
				continue
			}
			downloaded++
		}
	}

	if downloaded > 0 {
		fmt.Printf("  Downloaded %d images\n", downloaded)
	}
}

// newImageSearcher builds the configured stock photo client
func (a *Application) newImageSearcher() (media.ImageSearcher, error) {
	key := a.config.PixabayKey
	if a.config.ImageProvider == "unsplash" {
		key = a.config.UnsplashKey
	}
	return media.NewImageSearcher(a.config.ImageProvider, key)
}

// generateCardAudio synthesizes pronunciation audio for the card at
// index and returns the written file path. Regenerating over an
// existing file picks a random voice so repeated clicks give variety.
func (a *Application) generateCardAudio(ctx context.Context, index int) (string, error) {
	a.mu.Lock()
	set := a.currentSet
	setDir := a.currentSetDir
	a.mu.Unlock()

	if set == nil || index < 0 || index >= len(set.Terms) {
		return "", fmt.Errorf("no card loaded")
	}

	term := set.Terms[index]
	text := quizlet.PlainText(term.Front)
	if text == "" {
		return "", fmt.Errorf("card front is empty")
	}

	mediaDir := filepath.Join(setDir, internal.MediaDirName)
	if err := os.MkdirAll(mediaDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	prefix := internal.MediaAudioPrefix(term.SortOrder)

	voice := a.config.Voice
	if existing := findMediaFile(mediaDir, prefix); existing != "" && voice == "" {
		voice = audio.OpenAIVoices[rand.Intn(len(audio.OpenAIVoices))]
	}

	provider, err := audio.NewProvider(a.audioProviderConfig(mediaDir, voice))
	if err != nil {
		return "", err
	}

	format := a.config.AudioFormat
	if strings.HasPrefix(provider.Name(), "gemini") {
		// Gemini returns raw PCM, stored as WAV
		format = "wav"
	}

	outputFile := filepath.Join(mediaDir, prefix+"."+format)
	if err := provider.GenerateAudio(ctx, text, outputFile); err != nil {
		return "", err
	}

	return outputFile, nil
}

// audioProviderConfig builds the TTS configuration for the GUI
func (a *Application) audioProviderConfig(mediaDir, voice string) *audio.Config {
	cfg := audio.DefaultProviderConfig()
	cfg.Provider = a.config.AudioProvider
	cfg.OutputDir = mediaDir
	cfg.OutputFormat = a.config.AudioFormat
	cfg.Voice = voice
	cfg.OpenAIKey = a.config.OpenAIKey
	cfg.GeminiKey = a.config.GeminiKey
	cfg.EnableCache = true
	cfg.CacheDir = filepath.Join(a.config.OutputDir, ".audio_cache")
	return cfg
}
