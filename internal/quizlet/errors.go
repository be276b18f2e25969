package quizlet

import (
	"errors"
	"fmt"
)

// ErrNoTerms is returned when a page parses cleanly but contains no
// usable term rows. Quizlet serves such pages for deleted or private
// sets and for bot-check interstitials.
var ErrNoTerms = errors.New("no terms found on the set page")

// FetchError reports a non-success HTTP response for a set page
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.StatusCode)
}

// ParseError reports set-page markup that is missing an expected part
type ParseError struct {
	URL    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %s", e.URL, e.Reason)
}
