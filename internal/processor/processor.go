package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron"
	"github.com/spf13/viper"

	"codeberg.org/snonux/quizanki/internal"
	"codeberg.org/snonux/quizanki/internal/anki"
	"codeberg.org/snonux/quizanki/internal/audio"
	"codeberg.org/snonux/quizanki/internal/batch"
	"codeberg.org/snonux/quizanki/internal/cli"
	"codeberg.org/snonux/quizanki/internal/gui"
	"codeberg.org/snonux/quizanki/internal/media"
	"codeberg.org/snonux/quizanki/internal/phonetic"
	"codeberg.org/snonux/quizanki/internal/quizlet"
	"codeberg.org/snonux/quizanki/internal/store"
)

// historyLimit caps how many rows --history prints
const historyLimit = 50

// errUnchanged marks a set whose content hash matches the previous
// import. Watch mode counts these as skipped.
var errUnchanged = errors.New("set unchanged")

// Processor drives the fetch, enrich and export pipeline
type Processor struct {
	flags           *cli.Flags
	client          *quizlet.Client
	phoneticFetcher *phonetic.Fetcher
}

// NewProcessor creates a new study set processor
func NewProcessor(flags *cli.Flags) *Processor {
	return &Processor{
		flags:           flags,
		client:          quizlet.NewClient(quizlet.DefaultConfig()),
		phoneticFetcher: phonetic.NewFetcher(cli.GetOpenAIKey()),
	}
}

// ProcessSet downloads one study set, stores it in the output directory
// and exports it as an Anki deck. deckName overrides the scraped title;
// pass "" to use the title.
func (p *Processor) ProcessSet(setURL, deckName string) error {
	fmt.Printf("\nProcessing set: %s\n", setURL)
	return p.processSet(setURL, deckName, false)
}

// ProcessBatch processes every set URL in the batch file. Per-set
// errors are reported but do not stop the batch.
func (p *Processor) ProcessBatch() error {
	return p.processBatch(false)
}

func (p *Processor) processBatch(skipUnchanged bool) error {
	entries, err := batch.ReadBatchFile(p.flags.BatchFile)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no set URLs found in batch file: %s", p.flags.BatchFile)
	}

	processedCount := 0
	skippedCount := 0
	errorCount := 0

	for i, entry := range entries {
		fmt.Printf("\nProcessing set %d/%d: %s\n", i+1, len(entries), entry.URL)

		err := p.processSet(entry.URL, entry.DeckName, skipUnchanged)
		switch {
		case errors.Is(err, errUnchanged):
			skippedCount++
		case err != nil:
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", entry.URL, err)
			errorCount++
		default:
			processedCount++
		}
	}

	fmt.Printf("\n=== Batch Processing Summary ===\n")
	fmt.Printf("Total sets: %d\n", len(entries))
	fmt.Printf("Processed: %d\n", processedCount)
	fmt.Printf("Skipped (unchanged): %d\n", skippedCount)
	if errorCount > 0 {
		fmt.Printf("Errors: %d\n", errorCount)
	}
	fmt.Printf("================================\n")

	return nil
}

// processSet is the shared pipeline: fetch, save, enrich, export,
// record. With skipUnchanged it returns errUnchanged when the fetched
// content hash matches the recorded one and the deck file still exists.
func (p *Processor) processSet(setURL, deckName string, skipUnchanged bool) error {
	if err := os.MkdirAll(p.flags.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	st, err := store.Open(p.flags.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to open import history: %w", err)
	}
	defer st.Close()

	ctx := context.Background()

	fmt.Printf("  Fetching set page...\n")
	set, err := p.client.FetchSet(ctx, setURL)
	if err != nil {
		return err
	}

	fmt.Printf("  Title: %s (%d terms)\n", set.Title, len(set.Terms))
	if set.SkippedRows > 0 {
		fmt.Printf("  Warning: %d term rows skipped (empty front side)\n", set.SkippedRows)
	}

	if skipUnchanged {
		prev, err := st.GetImport(set.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: reading import history: %v\n", err)
		}
		if prev != nil && prev.ContentHash == set.ContentHash() && fileExists(prev.OutputFile) {
			fmt.Printf("  Unchanged since %s, skipping\n",
				prev.FetchedAt.Local().Format("2006-01-02 15:04"))
			return errUnchanged
		}
	}

	setDir := filepath.Join(p.flags.OutputDir, internal.SetDirName(set.ID, set.Slug))
	if err := saveSet(set, setDir); err != nil {
		return err
	}

	p.downloadImages(ctx, set, setDir)

	if p.flags.Audio {
		if err := p.generateAudio(ctx, set, setDir); err != nil {
			fmt.Printf("  Warning: audio generation failed: %v\n", err)
		}
	}

	if p.flags.Phonetic {
		p.fetchPhonetics(ctx, set, setDir)
	}

	if deckName == "" {
		deckName = p.flags.DeckName
	}
	outputPath, format, _, err := p.exportSet(setDir, deckName)
	if err != nil {
		return err
	}

	rec := store.ImportRecord{
		SetID:       set.ID,
		URL:         set.URL,
		Title:       set.Title,
		TermCount:   len(set.Terms),
		ContentHash: set.ContentHash(),
		Format:      format,
		OutputFile:  outputPath,
	}
	if err := st.RecordImport(rec); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: recording import history: %v\n", err)
	}

	fmt.Printf("  Deck written to %s\n", outputPath)
	return nil
}

// saveSet writes the scraped set as set.json into the set directory
func saveSet(set *quizlet.StudySet, setDir string) error {
	if err := os.MkdirAll(setDir, 0755); err != nil {
		return fmt.Errorf("failed to create set directory: %w", err)
	}

	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode set: %w", err)
	}

	setFile := filepath.Join(setDir, internal.SetFileName)
	if err := os.WriteFile(setFile, data, 0644); err != nil {
		return fmt.Errorf("failed to save set: %w", err)
	}

	return nil
}

// downloadImages fetches each term's scraped image into the set's media
// directory. With --search-images, terms without a scraped image fall
// back to a stock photo search. Failures are warnings; cards work
// without images.
func (p *Processor) downloadImages(ctx context.Context, set *quizlet.StudySet, setDir string) {
	mediaDir := filepath.Join(setDir, internal.MediaDirName)

	var searcher media.ImageSearcher
	if p.flags.SearchImages {
		var err error
		searcher, err = p.newImageSearcher()
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
		if hasMediaFile(mediaDir, prefix) {
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

// newImageSearcher builds the stock photo client selected by --image-api
func (p *Processor) newImageSearcher() (media.ImageSearcher, error) {
	key := cli.GetPixabayKey()
	if p.flags.ImageAPI == "unsplash" {
		key = cli.GetUnsplashKey()
	}
	return media.NewImageSearcher(p.flags.ImageAPI, key)
}

// generateAudio synthesizes pronunciation audio for each card front.
// Terms that already have an audio file keep it.
func (p *Processor) generateAudio(ctx context.Context, set *quizlet.StudySet, setDir string) error {
	mediaDir := filepath.Join(setDir, internal.MediaDirName)
	if err := os.MkdirAll(mediaDir, 0755); err != nil {
		return fmt.Errorf("failed to create media directory: %w", err)
	}

	provider, err := audio.NewProvider(p.audioConfig(mediaDir))
	if err != nil {
		return err
	}

	format := p.flags.AudioFormat
	if strings.HasPrefix(provider.Name(), "gemini") {
		// Gemini returns raw PCM, stored as WAV
		format = "wav"
	}

	generated := 0
	for _, term := range set.Terms {
		prefix := internal.MediaAudioPrefix(term.SortOrder)
		if hasMediaFile(mediaDir, prefix) {
			continue
		}

		text := quizlet.PlainText(term.Front)
		if text == "" {
			continue
		}

		outputFile := filepath.Join(mediaDir, prefix+"."+format)
		if err := provider.GenerateAudio(ctx, text, outputFile); err != nil {
			fmt.Printf("  Warning: audio for %q failed: %v\n", text, err)
			continue
		}
		generated++
	}

	if generated > 0 {
		fmt.Printf("  Generated %d audio files (%s)\n", generated, provider.Name())
	}
	return nil
}

// audioConfig maps flags and config file settings onto the provider config
func (p *Processor) audioConfig(outputDir string) *audio.Config {
	config := audio.DefaultProviderConfig()
	config.Provider = p.flags.AudioProvider
	config.OutputDir = outputDir
	config.OutputFormat = p.flags.AudioFormat
	config.Voice = p.flags.Voice
	config.Speed = p.flags.Speed
	config.Instruction = p.flags.Instruction
	config.OpenAIKey = cli.GetOpenAIKey()
	config.GeminiKey = cli.GetGeminiKey()

	// Config file values override the built-in model defaults
	if viper.IsSet("audio.openai_model") {
		config.OpenAIModel = viper.GetString("audio.openai_model")
	}
	if viper.IsSet("audio.gemini_model") {
		config.GeminiModel = viper.GetString("audio.gemini_model")
	}

	config.EnableCache = viper.GetBool("audio.enable_cache")
	config.CacheDir = viper.GetString("audio.cache_dir")
	if config.CacheDir == "" {
		config.CacheDir = filepath.Join(p.flags.OutputDir, ".audio_cache")
	}

	return config
}

// fetchPhonetics fetches IPA transcriptions for the card fronts and
// saves them next to the set. Failures leave the map partial.
func (p *Processor) fetchPhonetics(ctx context.Context, set *quizlet.StudySet, setDir string) {
	fmt.Printf("  Fetching phonetic transcriptions...\n")

	fronts := make([]string, 0, len(set.Terms))
	for _, term := range set.Terms {
		fronts = append(fronts, quizlet.PlainText(term.Front))
	}

	fetched := p.phoneticFetcher.FetchAll(ctx, fronts)
	if len(fetched) == 0 {
		fmt.Printf("  Warning: no phonetic transcriptions fetched\n")
		return
	}

	// Key the saved map by the card front as stored in set.json, so the
	// exporter finds the entry even when the front carries markup.
	phonetics := make(map[string]string)
	for _, term := range set.Terms {
		if ipa, ok := fetched[quizlet.PlainText(term.Front)]; ok {
			phonetics[term.Front] = ipa
		}
	}

	if err := phonetic.Save(setDir, phonetics); err != nil {
		fmt.Printf("  Warning: failed to save phonetics: %v\n", err)
		return
	}

	fmt.Printf("  Saved %d phonetic transcriptions\n", len(phonetics))
}

// exportSet compiles one saved set directory into a deck file in the
// output directory. Returns the written path, its format and the
// loaded set.
func (p *Processor) exportSet(setDir, deckName string) (string, string, *quizlet.StudySet, error) {
	options := &anki.GeneratorOptions{
		MediaFolder:    filepath.Join(setDir, internal.MediaDirName),
		IncludeHeaders: true,
		AudioFormat:    p.flags.AudioFormat,
	}
	gen := anki.NewGenerator(options)

	set, err := gen.GenerateFromSetDirectory(setDir)
	if err != nil {
		return "", "", nil, err
	}

	if deckName == "" {
		deckName = set.Title
	}
	if deckName == "" {
		deckName = "Quizlet Import"
	}

	var outputPath, format string
	if p.flags.AnkiCSV {
		format = "csv"
		outputPath = filepath.Join(p.flags.OutputDir, internal.SanitizeFilename(deckName)+".csv")
		options.OutputPath = outputPath
		if err := gen.GenerateCSV(); err != nil {
			return "", "", nil, fmt.Errorf("failed to generate CSV: %w", err)
		}
	} else {
		format = "apkg"
		outputPath = filepath.Join(p.flags.OutputDir, internal.SanitizeFilename(deckName)+".apkg")
		if err := gen.GenerateAPKG(outputPath, deckName, set.ID); err != nil {
			return "", "", nil, fmt.Errorf("failed to generate APKG: %w", err)
		}
	}

	total, withAudio, withImages := gen.Stats()
	fmt.Printf("  Generated %d cards (%d with audio, %d with images)\n",
		total, withAudio, withImages)

	return outputPath, format, set, nil
}

// GenerateAnkiFile rebuilds deck files for every saved set directory
// without re-fetching anything, and returns the paths written. The
// --deck-name override applies only when a single set is exported;
// with several sets each deck keeps its set title.
func (p *Processor) GenerateAnkiFile() ([]string, error) {
	dirs, err := p.setDirectories()
	if err != nil {
		return nil, err
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no set directories found in %s", p.flags.OutputDir)
	}

	st, err := store.Open(p.flags.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open import history: %w", err)
	}
	defer st.Close()

	deckName := ""
	if len(dirs) == 1 {
		deckName = p.flags.DeckName
	}

	var outputs []string
	for _, dir := range dirs {
		fmt.Printf("\nExporting %s\n", filepath.Base(dir))

		outputPath, format, set, err := p.exportSet(dir, deckName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting %s: %v\n", filepath.Base(dir), err)
			continue
		}
		outputs = append(outputs, outputPath)
		fmt.Printf("  Deck written to %s\n", outputPath)

		recordExport(st, set, format, outputPath)
	}

	if len(outputs) == 0 {
		return nil, fmt.Errorf("no decks exported from %s", p.flags.OutputDir)
	}
	return outputs, nil
}

// recordExport updates a set's history row after a re-export, keeping
// the original fetch time
func recordExport(st *store.Store, set *quizlet.StudySet, format, outputPath string) {
	rec := store.ImportRecord{
		SetID:       set.ID,
		URL:         set.URL,
		Title:       set.Title,
		TermCount:   len(set.Terms),
		ContentHash: set.ContentHash(),
		Format:      format,
		OutputFile:  outputPath,
	}
	if prev, err := st.GetImport(set.ID); err == nil && prev != nil {
		rec.FetchedAt = prev.FetchedAt
	}
	if err := st.RecordImport(rec); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: recording import history: %v\n", err)
	}
}

// setDirectories lists the saved set directories in the output
// directory, skipping the archive and anything without a set.json
func (p *Processor) setDirectories() ([]string, error) {
	entries, err := os.ReadDir(p.flags.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == "archive" || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dir := filepath.Join(p.flags.OutputDir, entry.Name())
		if fileExists(filepath.Join(dir, internal.SetFileName)) {
			dirs = append(dirs, dir)
		}
	}

	return dirs, nil
}

// ShowHistory prints the recorded imports, newest first
func (p *Processor) ShowHistory() error {
	st, err := store.Open(p.flags.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to open import history: %w", err)
	}
	defer st.Close()

	records, err := st.ListImports(historyLimit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No imports recorded yet.")
		return nil
	}

	fmt.Printf("Import history in %s:\n", p.flags.OutputDir)
	for _, rec := range records {
		fmt.Printf("\n%s  %s\n", rec.FetchedAt.Local().Format("2006-01-02 15:04"), rec.Title)
		fmt.Printf("  %s\n", rec.URL)
		fmt.Printf("  %d terms, %s export: %s\n", rec.TermCount, rec.Format, rec.OutputFile)
	}

	return nil
}

// RunWatchMode keeps the process alive and re-processes the batch file
// on the configured cron schedule. Unchanged sets are skipped. Blocks
// until the process is interrupted.
func (p *Processor) RunWatchMode() error {
	if p.flags.BatchFile == "" {
		return fmt.Errorf("watch mode requires --batch")
	}

	runBatch := func() {
		fmt.Printf("\n[%s] Checking %s for updates\n",
			time.Now().Format("2006-01-02 15:04:05"), p.flags.BatchFile)
		if err := p.processBatch(true); err != nil {
			fmt.Fprintf(os.Stderr, "Error: watch run failed: %v\n", err)
		}
	}

	c := cron.New()
	if err := c.AddFunc(p.flags.WatchSchedule, runBatch); err != nil {
		return fmt.Errorf("invalid watch schedule %q: %w", p.flags.WatchSchedule, err)
	}

	runBatch()

	fmt.Printf("\nWatching on schedule %q, press Ctrl+C to stop\n", p.flags.WatchSchedule)
	c.Start()
	select {}
}

// RunGUIMode launches the desktop interface
func (p *Processor) RunGUIMode() error {
	guiConfig := &gui.Config{
		OutputDir:     p.flags.OutputDir,
		DeckName:      p.flags.DeckName,
		AnkiCSV:       p.flags.AnkiCSV,
		AudioProvider: p.flags.AudioProvider,
		AudioFormat:   p.flags.AudioFormat,
		Voice:         p.flags.Voice,
		ImageProvider: p.flags.ImageAPI,
		SearchImages:  p.flags.SearchImages,
		OpenAIKey:     cli.GetOpenAIKey(),
		GeminiKey:     cli.GetGeminiKey(),
		PixabayKey:    cli.GetPixabayKey(),
		UnsplashKey:   cli.GetUnsplashKey(),
	}

	app := gui.New(guiConfig)
	app.Run()

	return nil
}

// Helper functions

// hasMediaFile reports whether a file with the given prefix already
// exists in dir, extension ignored
func hasMediaFile(dir, prefix string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
