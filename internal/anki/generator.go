package anki

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/quizanki/internal"
	"codeberg.org/snonux/quizanki/internal/quizlet"
)

// Card represents a single Anki flashcard
type Card struct {
	Front     string // Term side
	Back      string // Definition side
	Phonetic  string // Optional IPA transcription
	AudioFile string // Path to audio file
	ImageFile string // Path to image file
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string // Output CSV file path
	MediaFolder    string // Folder containing media files
	IncludeHeaders bool   // Include CSV headers
	AudioFormat    string // Audio file format (mp3, wav)
	ImageFormat    string // Image file format (jpg, png)
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "quizlet_import.csv",
		MediaFolder:    ".",
		IncludeHeaders: true,
		AudioFormat:    "mp3",
		ImageFormat:    "jpg",
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// GetCards returns a slice of all cards for modification
func (g *Generator) GetCards() []Card {
	return g.cards
}

// GenerateCSV creates a CSV file for Anki import
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write headers if requested
	if g.options.IncludeHeaders {
		headers := []string{"Front", "Back", "Phonetic", "Audio", "Image"}
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	// Write cards
	for _, card := range g.cards {
		record := []string{
			card.Front,
			card.Back,
			card.Phonetic,
			g.formatAudioField(card.AudioFile),
			g.formatImageField(card.ImageFile),
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	return nil
}

// formatAudioField formats the audio file reference for Anki
func (g *Generator) formatAudioField(audioFile string) string {
	if audioFile == "" {
		return ""
	}

	// Anki audio format: [sound:filename.mp3]
	return fmt.Sprintf("[sound:%s]", filepath.Base(audioFile))
}

// formatImageField formats image file reference for Anki
func (g *Generator) formatImageField(imageFile string) string {
	if imageFile == "" {
		return ""
	}

	return fmt.Sprintf(`<img src="%s">`, filepath.Base(imageFile))
}

// AddSet appends one card per term of a scraped study set. Media files
// for a term are picked up from the set's media directory when present.
func (g *Generator) AddSet(set *quizlet.StudySet, setDir string, phonetics map[string]string) {
	mediaDir := filepath.Join(setDir, internal.MediaDirName)

	for _, term := range set.Terms {
		card := Card{
			Front:    term.Front,
			Back:     term.Back,
			Phonetic: phonetics[term.Front],
		}

		if path := findMediaFile(mediaDir, internal.MediaImagePrefix(term.SortOrder)); path != "" {
			card.ImageFile = path
		}
		if path := findMediaFile(mediaDir, internal.MediaAudioPrefix(term.SortOrder)); path != "" {
			card.AudioFile = path
		}

		g.AddCard(card)
	}
}

// GenerateFromSetDirectory loads a saved set directory (set.json plus
// media/) and appends its cards. It returns the scraped set so callers
// can derive the deck name and IDs.
func (g *Generator) GenerateFromSetDirectory(dir string) (*quizlet.StudySet, error) {
	data, err := os.ReadFile(filepath.Join(dir, internal.SetFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read saved set: %w", err)
	}

	var set quizlet.StudySet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse saved set: %w", err)
	}

	phonetics := map[string]string{}
	if data, err := os.ReadFile(filepath.Join(dir, internal.PhoneticsFileName)); err == nil {
		// Optional enrichment, ignore a corrupt file.
		json.Unmarshal(data, &phonetics)
	}

	g.AddSet(&set, dir, phonetics)
	return &set, nil
}

// findMediaFile returns the first file in dir whose name starts with
// prefix, regardless of extension
func findMediaFile(dir, prefix string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), prefix) {
			return filepath.Join(dir, entry.Name())
		}
	}
	return ""
}

// GeneratePackage creates a CSV export plus a collection.media folder
// holding copies of the referenced media files
func (g *Generator) GeneratePackage(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	mediaDir := filepath.Join(outputDir, "collection.media")
	if err := os.MkdirAll(mediaDir, 0755); err != nil {
		return fmt.Errorf("failed to create media directory: %w", err)
	}

	// Copy media files and update paths
	for i, card := range g.cards {
		if card.AudioFile != "" {
			newPath, err := g.copyMediaFile(card.AudioFile, mediaDir)
			if err != nil {
				return fmt.Errorf("failed to copy audio file: %w", err)
			}
			g.cards[i].AudioFile = newPath
		}

		if card.ImageFile != "" {
			newPath, err := g.copyMediaFile(card.ImageFile, mediaDir)
			if err != nil {
				return fmt.Errorf("failed to copy image file: %w", err)
			}
			g.cards[i].ImageFile = newPath
		}
	}

	g.options.OutputPath = filepath.Join(outputDir, "import.csv")

	return g.GenerateCSV()
}

// GenerateAPKG creates a proper .apkg file for Anki import
func (g *Generator) GenerateAPKG(outputPath, deckName string, setID int64) error {
	apkgGen := NewAPKGGenerator(deckName, setID)

	for _, card := range g.cards {
		apkgGen.AddCard(card)
	}

	return apkgGen.GenerateAPKG(outputPath)
}

// copyMediaFile copies a media file to the destination directory,
// suffixing the name when it collides with an existing file
func (g *Generator) copyMediaFile(src, destDir string) (string, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return "", err
	}

	filename := filepath.Base(src)
	destPath := filepath.Join(destDir, filename)

	// File exists, generate unique name
	if _, err := os.Stat(destPath); err == nil {
		ext := filepath.Ext(filename)
		base := strings.TrimSuffix(filename, ext)
		for i := 1; ; i++ {
			filename = fmt.Sprintf("%s_%d%s", base, i, ext)
			destPath = filepath.Join(destDir, filename)
			if _, err := os.Stat(destPath); os.IsNotExist(err) {
				break
			}
		}
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer srcFile.Close()

	destFile, err := os.Create(destPath)
	if err != nil {
		return "", err
	}
	defer destFile.Close()

	if _, err := destFile.ReadFrom(srcFile); err != nil {
		return "", err
	}

	if err := os.Chmod(destPath, srcInfo.Mode()); err != nil {
		return "", err
	}

	return filename, nil
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, withAudio, withImages int) {
	totalCards = len(g.cards)

	for _, card := range g.cards {
		if card.AudioFile != "" {
			withAudio++
		}
		if card.ImageFile != "" {
			withImages++
		}
	}

	return
}
