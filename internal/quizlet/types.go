package quizlet

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// StudySet is one scraped Quizlet study set
type StudySet struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	Terms       []Term `json:"terms"`

	// SkippedRows counts term rows dropped during parsing because the
	// front side was missing or empty. Not part of the saved set.
	SkippedRows int `json:"-"`
}

// Term is a single card: the front (term) and back (definition) sides,
// plus the definition-side image when the set has one
type Term struct {
	Front     string `json:"front"`
	Back      string `json:"back"`
	ImageURL  string `json:"image_url,omitempty"`
	SortOrder int    `json:"sort_order"`
}

// HasImages reports whether any term carries an image URL
func (s *StudySet) HasImages() bool {
	for _, t := range s.Terms {
		if t.ImageURL != "" {
			return true
		}
	}
	return false
}

// ContentHash returns a stable hash over the ordered card sides. Watch
// mode compares it against the stored hash to skip unchanged sets.
func (s *StudySet) ContentHash() string {
	h := sha256.New()
	for _, t := range s.Terms {
		fmt.Fprintf(h, "%d\x1f%s\x1f%s\x1f%s\n", t.SortOrder, t.Front, t.Back, t.ImageURL)
	}
	return hex.EncodeToString(h.Sum(nil))
}
