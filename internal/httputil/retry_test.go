package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestDoWithRetrySuccess(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	req, err := http.NewRequest("GET", server.URL, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	resp, err := DoWithRetry(context.Background(), server.Client(), req, 3)
	if err != nil {
		t.Fatalf("DoWithRetry failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("Expected 1 attempt, got %d", got)
	}
}

func TestDoWithRetryOn429(t *testing.T) {
	oldDelay := RetryBaseDelay
	RetryBaseDelay = time.Millisecond
	defer func() { RetryBaseDelay = oldDelay }()

	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	req, err := http.NewRequest("GET", server.URL, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	resp, err := DoWithRetry(context.Background(), server.Client(), req, 3)
	if err != nil {
		t.Fatalf("DoWithRetry failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 after retries, got %d", resp.StatusCode)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("Expected 3 attempts, got %d", got)
	}
}

func TestDoWithRetryExhausted(t *testing.T) {
	oldDelay := RetryBaseDelay
	RetryBaseDelay = time.Millisecond
	defer func() { RetryBaseDelay = oldDelay }()

	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	req, err := http.NewRequest("GET", server.URL, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	resp, err := DoWithRetry(context.Background(), server.Client(), req, 2)
	if err != nil {
		t.Fatalf("DoWithRetry failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected the last 503 response, got %d", resp.StatusCode)
	}
	// Initial attempt plus two retries.
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("Expected 3 attempts, got %d", got)
	}
}

func TestDoWithRetryContextCancelled(t *testing.T) {
	oldDelay := RetryBaseDelay
	RetryBaseDelay = 500 * time.Millisecond
	defer func() { RetryBaseDelay = oldDelay }()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	req, err := http.NewRequest("GET", server.URL, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	_, err = DoWithRetry(ctx, server.Client(), req, 3)
	if err == nil {
		t.Fatal("Expected context error, got nil")
	}
	if ctx.Err() == nil {
		t.Error("Expected the context to be done")
	}
}

func TestUserAgentTransport(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := &http.Client{Transport: NewUserAgentTransport("test-agent/1.0", nil)}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()

	if gotUA != "test-agent/1.0" {
		t.Errorf("Expected User-Agent 'test-agent/1.0', got %q", gotUA)
	}
}

func TestUserAgentTransportDefaults(t *testing.T) {
	tr := NewUserAgentTransport("", nil)
	if tr.UserAgent != DefaultUserAgent {
		t.Errorf("Expected default user agent, got %q", tr.UserAgent)
	}
	if tr.Base == nil {
		t.Error("Expected a base transport, got nil")
	}
}

func TestRateLimiterRecordsRequests(t *testing.T) {
	rl := NewRateLimiter(10)

	start := time.Now()
	for i := 0; i < 3; i++ {
		rl.Wait()
	}
	elapsed := time.Since(start)

	if rl.Pending() != 3 {
		t.Errorf("Expected 3 recorded requests, got %d", rl.Pending())
	}
	// Under the limit nothing should block.
	if elapsed > time.Second {
		t.Errorf("Expected no blocking under the limit, waited %v", elapsed)
	}
}
