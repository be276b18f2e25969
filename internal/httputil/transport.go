package httputil

import "net/http"

// DefaultUserAgent is sent with scraper requests. Quizlet serves a
// bot-check page to unknown agents, so it mimics a desktop browser.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// UserAgentTransport stamps a User-Agent header on every request
type UserAgentTransport struct {
	UserAgent string
	Base      http.RoundTripper
}

// NewUserAgentTransport wraps base with a User-Agent header. An empty
// userAgent falls back to DefaultUserAgent, a nil base to
// http.DefaultTransport.
func NewUserAgentTransport(userAgent string, base http.RoundTripper) *UserAgentTransport {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if base == nil {
		base = http.DefaultTransport
	}
	return &UserAgentTransport{UserAgent: userAgent, Base: base}
}

// RoundTrip implements http.RoundTripper
func (t *UserAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", t.UserAgent)
	return t.Base.RoundTrip(req)
}
