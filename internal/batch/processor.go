package batch

import (
	"fmt"
	"os"
	"strings"
)

// SetEntry represents a set URL with an optional deck name override
type SetEntry struct {
	URL      string
	DeckName string
}

// ReadBatchFile reads set URLs from a file and returns SetEntry slice
// Supports formats:
// - URL only: "https://quizlet.com/12345/biology-flash-cards/" (deck name taken from the set title)
// - With deck name: "https://quizlet.com/12345/ = Biology Midterm" (overrides the deck name)
// Lines starting with '#' and blank lines are skipped. Entries keep file order.
func ReadBatchFile(filename string) ([]SetEntry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var entries []SetEntry
	lines := string(content)

	for _, line := range splitLines(lines) {
		if line = trimSpace(line); line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		// Check if line contains '=' for the deck name override format
		if strings.Contains(line, "=") {
			parts := strings.SplitN(line, "=", 2)
			url := strings.TrimSpace(parts[0])
			deckName := strings.TrimSpace(parts[1])

			if url == "" {
				// No URL, nothing to fetch
				continue
			}

			entries = append(entries, SetEntry{
				URL:      url,
				DeckName: deckName,
			})
		} else {
			// Just a URL, deck name comes from the set title
			entries = append(entries, SetEntry{
				URL: line,
			})
		}
	}

	return entries, nil
}

// splitLines splits a string by newlines
func splitLines(s string) []string {
	var lines []string
	current := ""
	for _, r := range s {
		if r == '\n' {
			lines = append(lines, current)
			current = ""
		} else if r != '\r' {
			current += string(r)
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// trimSpace trims whitespace from string
func trimSpace(s string) string {
	start := 0
	end := len(s)

	// Trim from start
	for start < end && isSpace(rune(s[start])) {
		start++
	}

	// Trim from end
	for end > start && isSpace(rune(s[end-1])) {
		end--
	}

	return s[start:end]
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
