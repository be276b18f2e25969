package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/snonux/quizanki/internal"
	"codeberg.org/snonux/quizanki/internal/quizlet"
)

// SampleStudySet returns a small two-term study set for tests
func SampleStudySet(id int64, slug, title string) *quizlet.StudySet {
	return &quizlet.StudySet{
		ID:    id,
		Slug:  slug,
		Title: title,
		URL:   fmt.Sprintf("https://quizlet.com/%d/%s/", id, slug),
		Terms: []quizlet.Term{
			{Front: "mitochondria", Back: "the powerhouse of the cell", SortOrder: 0},
			{Front: "ribosome", Back: "site of protein synthesis", SortOrder: 1},
		},
	}
}

// WriteStudySet saves a study set under outputDir the way ProcessSet
// would, and returns the created set directory
func WriteStudySet(t *testing.T, outputDir string, set *quizlet.StudySet) string {
	t.Helper()

	dir := filepath.Join(outputDir, internal.SetDirName(set.ID, set.Slug))
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create set directory: %v", err)
	}

	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		t.Fatalf("Failed to encode set: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, internal.SetFileName), data, 0644); err != nil {
		t.Fatalf("Failed to write set file: %v", err)
	}

	return dir
}

// WritePhonetics saves a phonetics map into an existing set directory
func WritePhonetics(t *testing.T, setDir string, phonetics map[string]string) {
	t.Helper()

	data, err := json.MarshalIndent(phonetics, "", "  ")
	if err != nil {
		t.Fatalf("Failed to encode phonetics: %v", err)
	}
	if err := os.WriteFile(filepath.Join(setDir, internal.PhoneticsFileName), data, 0644); err != nil {
		t.Fatalf("Failed to write phonetics file: %v", err)
	}
}

// WriteMediaFile drops a stub media file into a set's media directory
// and returns its path. The name carries the extension, e.g.
// "000_audio.mp3" or "001_image.jpg".
func WriteMediaFile(t *testing.T, setDir, name string) string {
	t.Helper()

	content := []byte{0xFF, 0xFB, 0x90, 0x00} // MP3 frame header stub
	if ext := filepath.Ext(name); ext == ".jpg" || ext == ".jpeg" {
		content = []byte{0xFF, 0xD8, 0xFF, 0xE0} // JPEG header stub
	}

	path := filepath.Join(setDir, internal.MediaDirName, name)
	CreateTestFile(t, path, content)
	return path
}
