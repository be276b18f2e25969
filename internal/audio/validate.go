package audio

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxTextLength caps TTS input. Card fronts are short; anything longer is
// almost certainly a scraping artifact.
const maxTextLength = 500

// ValidateText validates that the input is usable as TTS input
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	if utf8.RuneCountInString(text) > maxTextLength {
		return fmt.Errorf("text too long: %d characters (max %d)", utf8.RuneCountInString(text), maxTextLength)
	}

	for _, r := range text {
		if r == '\n' || r == '\t' || r == '\r' {
			continue
		}
		if !unicode.IsPrint(r) {
			return fmt.Errorf("text contains non-printable characters")
		}
	}

	return nil
}
