package quizlet

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ParseSetURL validates a study-set URL and extracts the numeric set ID
// and the trailing slug. Accepted forms:
//
//	https://quizlet.com/123456789/biology-chapter-4-flash-cards/
//	https://www.quizlet.com/123456789/biology-chapter-4-flash-cards
//	https://quizlet.com/de/123456789/vokabeln-flash-cards/
//
// Query strings and fragments are ignored. Anything that is not a
// quizlet.com set page is rejected.
func ParseSetURL(raw string) (int64, string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return 0, "", fmt.Errorf("invalid URL %q: %w", raw, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return 0, "", fmt.Errorf("unsupported URL scheme %q (want http or https)", u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host != "quizlet.com" && !strings.HasSuffix(host, ".quizlet.com") {
		return 0, "", fmt.Errorf("not a quizlet.com URL: %q", raw)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	// Country-code prefix, e.g. /de/123456/slug/
	if len(segments) > 0 && len(segments[0]) == 2 && !isDigits(segments[0]) {
		segments = segments[1:]
	}

	if len(segments) == 0 || !isDigits(segments[0]) {
		return 0, "", fmt.Errorf("no set ID in URL path %q", u.Path)
	}

	id, err := strconv.ParseInt(segments[0], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid set ID %q: %w", segments[0], err)
	}

	slug := ""
	if len(segments) > 1 {
		slug = segments[1]
	}

	return id, slug, nil
}

// NormalizeSetURL rebuilds the canonical page URL for a set
func NormalizeSetURL(id int64, slug string) string {
	if slug == "" {
		return fmt.Sprintf("https://quizlet.com/%d/", id)
	}
	return fmt.Sprintf("https://quizlet.com/%d/%s/", id, slug)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
