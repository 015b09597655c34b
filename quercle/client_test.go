package quercle

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quercle/quercle-aigo/providers/observability"
)

// recordedRequest captures what the test server received.
type recordedRequest struct {
	method  string
	path    string
	headers http.Header
	body    map[string]any
}

// newTestServer answers every request with status and body and records the
// last request.
func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *recordedRequest, *atomic.Int32) {
	t.Helper()
	recorded := &recordedRequest{}
	hits := &atomic.Int32{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		recorded.method = r.Method
		recorded.path = r.URL.Path
		recorded.headers = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		recorded.body = nil
		_ = json.Unmarshal(raw, &recorded.body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, recorded, hits
}

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	client, err := NewClient(append([]Option{WithAPIKey("test-key"), WithBaseURL(baseURL)}, opts...)...)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

type recordingSpan struct {
	events []string
}

func (s *recordingSpan) End() {}

func (s *recordingSpan) SetAttributes(attrs ...observability.Attribute) {}

func (s *recordingSpan) SetStatus(code observability.StatusCode, description string) {}

func (s *recordingSpan) RecordError(err error) {}

func (s *recordingSpan) AddEvent(name string, attrs ...observability.Attribute) {
	s.events = append(s.events, name)
}

func TestNewClient_MissingAPIKey(t *testing.T) {
	t.Setenv(envAPIKey, "")

	if _, err := NewClient(); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := NewClient(WithAPIKey("   ")); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey for blank key, got %v", err)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	t.Setenv(envAPIKey, "env-key")
	t.Setenv(envBaseURL, "")

	client, err := NewClient()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.apiKey != "env-key" {
		t.Errorf("expected key from environment, got %q", client.apiKey)
	}
	if client.BaseURL() != DefaultBaseURL {
		t.Errorf("expected default base URL, got %q", client.BaseURL())
	}
	if client.Timeout() != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", client.Timeout())
	}
	if client.http.RetryMax != 0 {
		t.Errorf("retries must be off by default, got %d", client.http.RetryMax)
	}
}

func TestNewClient_Overrides(t *testing.T) {
	t.Setenv(envAPIKey, "env-key")
	t.Setenv(envBaseURL, "https://env.example.com/")

	client, err := NewClient(WithAPIKey("explicit"), WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.apiKey != "explicit" {
		t.Errorf("explicit key must win, got %q", client.apiKey)
	}
	if client.BaseURL() != "https://env.example.com" {
		t.Errorf("expected env base URL without trailing slash, got %q", client.BaseURL())
	}
	if client.http.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("expected timeout on transport, got %v", client.http.HTTPClient.Timeout)
	}
}

func TestSearch(t *testing.T) {
	server, recorded, _ := newTestServer(t, http.StatusOK, `{"result": "Go 1.25 was released in August."}`)
	client := newTestClient(t, server.URL, WithUserAgent("agent-test"))

	answer, err := client.Search(context.Background(), SearchRequest{
		Query:          "latest go release",
		AllowedDomains: []string{"go.dev"},
		BlockedDomains: []string{"example.com"},
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if answer != "Go 1.25 was released in August." {
		t.Errorf("unexpected answer %q", answer)
	}

	if recorded.method != http.MethodPost || recorded.path != pathSearch {
		t.Errorf("unexpected request %s %s", recorded.method, recorded.path)
	}
	if recorded.headers.Get(headerAPIKey) != "test-key" {
		t.Errorf("missing API key header")
	}
	if recorded.headers.Get("Content-Type") != "application/json" {
		t.Errorf("unexpected content type %q", recorded.headers.Get("Content-Type"))
	}
	if recorded.headers.Get("User-Agent") != "agent-test" {
		t.Errorf("unexpected user agent %q", recorded.headers.Get("User-Agent"))
	}
	if _, err := uuid.Parse(recorded.headers.Get(headerRequestID)); err != nil {
		t.Errorf("expected UUID request id, got %q", recorded.headers.Get(headerRequestID))
	}

	if recorded.body["query"] != "latest go release" {
		t.Errorf("unexpected query %v", recorded.body["query"])
	}
	allowed, _ := recorded.body["allowed_domains"].([]any)
	if len(allowed) != 1 || allowed[0] != "go.dev" {
		t.Errorf("unexpected allowed_domains %v", recorded.body["allowed_domains"])
	}
	blocked, _ := recorded.body["blocked_domains"].([]any)
	if len(blocked) != 1 || blocked[0] != "example.com" {
		t.Errorf("unexpected blocked_domains %v", recorded.body["blocked_domains"])
	}
}

func TestSearch_OmitsEmptyDomainLists(t *testing.T) {
	server, recorded, _ := newTestServer(t, http.StatusOK, `{"result": "ok"}`)
	client := newTestClient(t, server.URL)

	if _, err := client.Search(context.Background(), SearchRequest{Query: "q"}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if _, ok := recorded.body["allowed_domains"]; ok {
		t.Error("allowed_domains must be omitted when empty")
	}
	if _, ok := recorded.body["blocked_domains"]; ok {
		t.Error("blocked_domains must be omitted when empty")
	}
}

func TestFetch(t *testing.T) {
	server, recorded, _ := newTestServer(t, http.StatusOK, `{"result": "The page lists three prices."}`)
	client := newTestClient(t, server.URL)

	answer, err := client.Fetch(context.Background(), FetchRequest{URL: "https://example.com/pricing", Prompt: "List prices"})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if answer != "The page lists three prices." {
		t.Errorf("unexpected answer %q", answer)
	}
	if recorded.path != pathFetch || recorded.body["url"] != "https://example.com/pricing" || recorded.body["prompt"] != "List prices" {
		t.Errorf("unexpected request %s %v", recorded.path, recorded.body)
	}
}

func TestRawSearch(t *testing.T) {
	server, recorded, _ := newTestServer(t, http.StatusOK, `{"results": [
		{"title": "Go", "url": "https://go.dev", "description": "The Go programming language"},
		{"title": "Go Blog", "url": "https://go.dev/blog"}
	]}`)
	client := newTestClient(t, server.URL)

	resp, err := client.RawSearch(context.Background(), RawSearchRequest{Query: "golang", BlockedDomains: []string{"spam.example"}})
	if err != nil {
		t.Fatalf("RawSearch() error = %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	if resp.Results[0].URL != "https://go.dev" || resp.Results[0].Description != "The Go programming language" {
		t.Errorf("unexpected first result %+v", resp.Results[0])
	}
	if recorded.path != pathRawSearch {
		t.Errorf("unexpected path %s", recorded.path)
	}
	if _, ok := recorded.body["blocked_domains"]; !ok {
		t.Error("expected blocked_domains in body")
	}
}

func TestRawFetch_DefaultsToMarkdown(t *testing.T) {
	server, recorded, _ := newTestServer(t, http.StatusOK, `{"content": "# Title"}`)
	client := newTestClient(t, server.URL)

	resp, err := client.RawFetch(context.Background(), RawFetchRequest{URL: "https://example.com"})
	if err != nil {
		t.Fatalf("RawFetch() error = %v", err)
	}
	if recorded.body["format"] != "markdown" {
		t.Errorf("expected markdown format in request, got %v", recorded.body["format"])
	}
	if _, ok := recorded.body["use_safeguard"]; ok {
		t.Error("use_safeguard must be omitted when false")
	}
	if resp.Content != "# Title" || resp.Format != FormatMarkdown || resp.URL != "https://example.com" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestRawFetch_HTMLWithSafeguard(t *testing.T) {
	server, recorded, _ := newTestServer(t, http.StatusOK, `{"url": "https://example.com/", "format": "html", "content": "<h1>Title</h1>"}`)
	client := newTestClient(t, server.URL)

	resp, err := client.RawFetch(context.Background(), RawFetchRequest{URL: "https://example.com", Format: FormatHTML, UseSafeguard: true})
	if err != nil {
		t.Fatalf("RawFetch() error = %v", err)
	}
	if recorded.body["format"] != "html" || recorded.body["use_safeguard"] != true {
		t.Errorf("unexpected request body %v", recorded.body)
	}
	if resp.URL != "https://example.com/" || resp.Format != FormatHTML {
		t.Errorf("server values must be kept, got %+v", resp)
	}
}

func TestExtract(t *testing.T) {
	server, recorded, _ := newTestServer(t, http.StatusOK, `{"chunks": [
		{"content": "Pricing starts at $10.", "score": 0.92},
		{"content": "Enterprise plans are custom.", "score": 0.41}
	]}`)
	client := newTestClient(t, server.URL)

	resp, err := client.Extract(context.Background(), ExtractRequest{URL: "https://example.com", Query: "pricing"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(resp.Chunks) != 2 || resp.Chunks[0].Score != 0.92 {
		t.Errorf("unexpected chunks %+v", resp.Chunks)
	}
	if resp.URL != "https://example.com" || resp.Query != "pricing" {
		t.Errorf("expected request values as fallback, got %+v", resp)
	}
	if recorded.path != pathExtract || recorded.body["query"] != "pricing" {
		t.Errorf("unexpected request %s %v", recorded.path, recorded.body)
	}
}

func TestLocalValidation(t *testing.T) {
	server, _, hits := newTestServer(t, http.StatusOK, `{}`)
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"search empty query", func() error { _, err := client.Search(ctx, SearchRequest{Query: "  "}); return err }},
		{"fetch empty url", func() error { _, err := client.Fetch(ctx, FetchRequest{Prompt: "p"}); return err }},
		{"fetch empty prompt", func() error { _, err := client.Fetch(ctx, FetchRequest{URL: "https://a.b"}); return err }},
		{"raw search empty query", func() error { _, err := client.RawSearch(ctx, RawSearchRequest{}); return err }},
		{"raw fetch empty url", func() error { _, err := client.RawFetch(ctx, RawFetchRequest{}); return err }},
		{"raw fetch bad format", func() error {
			_, err := client.RawFetch(ctx, RawFetchRequest{URL: "https://a.b", Format: "pdf"})
			return err
		}},
		{"extract empty query", func() error { _, err := client.Extract(ctx, ExtractRequest{URL: "https://a.b"}); return err }},
		{"extract bad format", func() error {
			_, err := client.Extract(ctx, ExtractRequest{URL: "https://a.b", Query: "q", Format: "text"})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}

	if hits.Load() != 0 {
		t.Errorf("invalid requests must not reach the server, got %d hits", hits.Load())
	}
}

func TestAPIErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		sentinel    error
		wantMessage string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error": "invalid api key"}`, ErrUnauthorized, "invalid api key"},
		{"forbidden", http.StatusForbidden, `{"detail": "key revoked"}`, ErrUnauthorized, "key revoked"},
		{"payment required", http.StatusPaymentRequired, `{"error": "out of credits"}`, ErrInsufficientCredits, "out of credits"},
		{"rate limited", http.StatusTooManyRequests, `{"detail": "slow down"}`, ErrRateLimited, "slow down"},
		{"server error plain body", http.StatusInternalServerError, `upstream exploded`, nil, "upstream exploded"},
		{"structured detail", http.StatusUnprocessableEntity, `{"detail": [{"loc": ["body", "query"]}]}`, nil, `"loc"`},
		{"empty body", http.StatusBadGateway, ``, nil, "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _, hits := newTestServer(t, tt.status, tt.body)
			client := newTestClient(t, server.URL)

			_, err := client.Search(context.Background(), SearchRequest{Query: "q"})

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T: %v", err, err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, apiErr.StatusCode)
			}
			if !strings.Contains(apiErr.Message, tt.wantMessage) {
				t.Errorf("expected message containing %q, got %q", tt.wantMessage, apiErr.Message)
			}
			if apiErr.RequestID == "" {
				t.Error("expected request id on API error")
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("expected errors.Is(err, %v)", tt.sentinel)
			}
			if hits.Load() != 1 {
				t.Errorf("expected a single attempt without retries, got %d", hits.Load())
			}
		})
	}
}

func TestAPIError_RequestIDFromResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerRequestID, "srv-123")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Fetch(context.Background(), FetchRequest{URL: "https://a.b", Prompt: "p"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.RequestID != "srv-123" {
		t.Fatalf("expected request id from response header, got %v", err)
	}
	if !strings.Contains(apiErr.Error(), "srv-123") {
		t.Errorf("request id missing from message %q", apiErr.Error())
	}
}

func TestRetries(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"result": "third time lucky"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithMaxRetries(2), WithRetryWait(time.Millisecond, 2*time.Millisecond))

	answer, err := client.Search(context.Background(), SearchRequest{Query: "q"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if answer != "third time lucky" || hits.Load() != 3 {
		t.Errorf("unexpected answer %q after %d hits", answer, hits.Load())
	}
}

func TestRetriesExhaustedReturnsAPIError(t *testing.T) {
	server, _, hits := newTestServer(t, http.StatusTooManyRequests, `{"error": "rate limit"}`)
	client := newTestClient(t, server.URL, WithMaxRetries(1), WithRetryWait(time.Millisecond, 2*time.Millisecond))

	_, err := client.Search(context.Background(), SearchRequest{Query: "q"})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", hits.Load())
	}
}

func TestContextCanceled(t *testing.T) {
	server, _, _ := newTestServer(t, http.StatusOK, `{"result": "ok"}`)
	client := newTestClient(t, server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, SearchRequest{Query: "q"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestMalformedResponse(t *testing.T) {
	server, _, _ := newTestServer(t, http.StatusOK, `not json`)
	client := newTestClient(t, server.URL)

	_, err := client.RawSearch(context.Background(), RawSearchRequest{Query: "q"})
	if err == nil || !strings.Contains(err.Error(), "error parsing raw_search response") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestResponseTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", maxBodySize+1)))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Search(context.Background(), SearchRequest{Query: "q"})
	if err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("expected size error, got %v", err)
	}
}

func TestSpanEvents(t *testing.T) {
	server, _, _ := newTestServer(t, http.StatusOK, `{"result": "ok"}`)
	client := newTestClient(t, server.URL)

	span := &recordingSpan{}
	ctx := observability.ContextWithSpan(context.Background(), span)
	if _, err := client.Search(ctx, SearchRequest{Query: "q"}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(span.events) != 2 || span.events[0] != observability.EventHTTPPrepared || span.events[1] != observability.EventHTTPReceived {
		t.Errorf("unexpected events %v", span.events)
	}

	failing := newTestClient(t, "http://127.0.0.1:1")
	span = &recordingSpan{}
	ctx = observability.ContextWithSpan(context.Background(), span)
	if _, err := failing.Search(ctx, SearchRequest{Query: "q"}); err == nil {
		t.Fatal("expected connection error")
	}
	if len(span.events) != 2 || span.events[1] != observability.EventHTTPError {
		t.Errorf("unexpected events on failure %v", span.events)
	}
}
