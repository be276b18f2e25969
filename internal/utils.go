package internal

import (
	"fmt"
	"strings"
	"unicode"
)

// Layout of a saved set directory. ProcessSet writes it, the exporters
// and the GUI read it back.
const (
	// SetFileName holds the scraped study set as JSON.
	SetFileName = "set.json"

	// PhoneticsFileName holds the optional front-to-IPA map as JSON.
	PhoneticsFileName = "phonetics.json"

	// MediaDirName holds downloaded images and generated audio.
	MediaDirName = "media"
)

// MediaImagePrefix names the image files of the term at sort order n,
// extension excluded: "007_image"
func MediaImagePrefix(n int) string {
	return fmt.Sprintf("%03d_image", n)
}

// MediaAudioPrefix names the audio files of the term at sort order n,
// extension excluded: "007_audio"
func MediaAudioPrefix(n int) string {
	return fmt.Sprintf("%03d_audio", n)
}

// SetDirName builds the directory name for a downloaded study set.
// Format: <setID>_<sanitized-slug>, e.g. "123456_biology-chapter-4"
func SetDirName(setID int64, slug string) string {
	s := SanitizeFilename(slug)
	if s == "" {
		return fmt.Sprintf("%d", setID)
	}
	return fmt.Sprintf("%d_%s", setID, s)
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isFilenameRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

// isFilenameRune checks if a rune is safe to keep in a filename
func isFilenameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}
