package quercle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/quercle/quercle-aigo/internal/utils"
	"github.com/quercle/quercle-aigo/providers/observability"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.quercle.dev"

	// DefaultTimeout bounds a single request. Fetch and extract may render
	// the target page, so this is generous.
	DefaultTimeout = 120 * time.Second

	// Version is reported in the default User-Agent.
	Version = "1.0.0"

	envAPIKey  = "QUERCLE_API_KEY"
	envBaseURL = "QUERCLE_BASE_URL"

	maxBodySize = 10 << 20

	headerAPIKey    = "X-API-Key"
	headerRequestID = "X-Request-Id"
)

const (
	pathSearch    = "/v1/search"
	pathFetch     = "/v1/fetch"
	pathRawSearch = "/v1/raw-search"
	pathRawFetch  = "/v1/raw-fetch"
	pathExtract   = "/v1/extract"
)

// Client calls the Quercle API. It is immutable after construction and safe
// for concurrent use.
type Client struct {
	apiKey       string
	baseURL      string
	userAgent    string
	timeout      time.Duration
	maxRetries   int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	httpClient   *http.Client
	logger       *slog.Logger

	http *retryablehttp.Client
}

// NewClient creates a Client. It fails with ErrMissingAPIKey when neither
// WithAPIKey nor QUERCLE_API_KEY provides a key.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}

	if c.apiKey == "" {
		c.apiKey = os.Getenv(envAPIKey)
	}
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	if c.baseURL == "" {
		c.baseURL = os.Getenv(envBaseURL)
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")

	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.maxRetries < 0 {
		c.maxRetries = 0
	}
	if c.userAgent == "" {
		c.userAgent = "quercle-aigo/" + Version
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = c.maxRetries
	if c.retryWaitMin > 0 {
		rc.RetryWaitMin = c.retryWaitMin
	}
	if c.retryWaitMax > 0 {
		rc.RetryWaitMax = c.retryWaitMax
	}
	// hand the last response back so non-2xx statuses become *APIError
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil
	if c.logger != nil {
		rc.Logger = c.logger
	}
	if c.httpClient != nil {
		rc.HTTPClient = c.httpClient
	} else {
		rc.HTTPClient.Timeout = c.timeout
	}
	c.http = rc

	return c, nil
}

// BaseURL returns the endpoint the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Search returns an AI-synthesized answer with citations for req.Query.
func (c *Client) Search(ctx context.Context, req SearchRequest) (string, error) {
	if strings.TrimSpace(req.Query) == "" {
		return "", invalidRequest("query is required")
	}

	var out resultResponse
	if err := c.post(ctx, "search", pathSearch, req, &out); err != nil {
		return "", err
	}
	return out.Result, nil
}

// Fetch fetches req.URL and returns the AI analysis of it according to
// req.Prompt.
func (c *Client) Fetch(ctx context.Context, req FetchRequest) (string, error) {
	if strings.TrimSpace(req.URL) == "" {
		return "", invalidRequest("url is required")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return "", invalidRequest("prompt is required")
	}

	var out resultResponse
	if err := c.post(ctx, "fetch", pathFetch, req, &out); err != nil {
		return "", err
	}
	return out.Result, nil
}

// RawSearch returns search results without AI synthesis.
func (c *Client) RawSearch(ctx context.Context, req RawSearchRequest) (*RawSearchResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, invalidRequest("query is required")
	}

	var out RawSearchResponse
	if err := c.post(ctx, "raw_search", pathRawSearch, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RawFetch returns the content of req.URL in the requested format.
func (c *Client) RawFetch(ctx context.Context, req RawFetchRequest) (*RawFetchResponse, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, invalidRequest("url is required")
	}
	format, err := req.Format.resolve()
	if err != nil {
		return nil, err
	}
	req.Format = format

	var out RawFetchResponse
	if err := c.post(ctx, "raw_fetch", pathRawFetch, req, &out); err != nil {
		return nil, err
	}
	if out.Format == "" {
		out.Format = format
	}
	if out.URL == "" {
		out.URL = req.URL
	}
	return &out, nil
}

// Extract returns the chunks of req.URL relevant to req.Query.
func (c *Client) Extract(ctx context.Context, req ExtractRequest) (*ExtractResponse, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, invalidRequest("url is required")
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, invalidRequest("query is required")
	}
	format, err := req.Format.resolve()
	if err != nil {
		return nil, err
	}
	req.Format = format

	var out ExtractResponse
	if err := c.post(ctx, "extract", pathExtract, req, &out); err != nil {
		return nil, err
	}
	if out.URL == "" {
		out.URL = req.URL
	}
	if out.Query == "" {
		out.Query = req.Query
	}
	return &out, nil
}

// post sends body as JSON to path and decodes a 2xx response into out.
func (c *Client) post(ctx context.Context, operation, path string, body any, out any) error {
	span := observability.SpanFromContext(ctx)
	url := c.baseURL + path
	requestID := uuid.NewString()

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("quercle: error marshaling %s request: %w", operation, err)
	}

	if span != nil {
		span.AddEvent(observability.EventHTTPPrepared,
			observability.String(observability.AttrQuercleOperation, operation),
			observability.String(observability.AttrHTTPMethod, http.MethodPost),
			observability.String(observability.AttrHTTPURL, url),
			observability.String(observability.AttrHTTPRequestID, requestID),
			observability.Int(observability.AttrHTTPRequestBodySize, len(jsonBody)),
		)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, jsonBody)
	if err != nil {
		return fmt.Errorf("quercle: error creating %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set(headerRequestID, requestID)

	requestStart := time.Now()
	res, err := c.http.Do(req)
	requestDuration := time.Since(requestStart)
	if err != nil {
		if res != nil {
			utils.CloseWithLog(res.Body)
		}
		if span != nil {
			span.AddEvent(observability.EventHTTPError,
				observability.Error(err),
				observability.Duration(observability.AttrHTTPDuration, requestDuration),
			)
		}
		return fmt.Errorf("quercle: %s request failed: %w", operation, err)
	}
	defer utils.CloseWithLog(res.Body)

	respBody, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize+1))
	if err != nil {
		return fmt.Errorf("quercle: error reading %s response: %w", operation, err)
	}
	if len(respBody) > maxBodySize {
		return fmt.Errorf("quercle: %s response exceeds %d bytes", operation, maxBodySize)
	}

	if span != nil {
		span.AddEvent(observability.EventHTTPReceived,
			observability.Int(observability.AttrHTTPStatusCode, res.StatusCode),
			observability.Int(observability.AttrHTTPResponseBodySize, len(respBody)),
			observability.Duration(observability.AttrHTTPDuration, requestDuration),
		)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		if id := res.Header.Get(headerRequestID); id != "" {
			requestID = id
		}
		return newAPIError(res.StatusCode, respBody, requestID)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("quercle: error parsing %s response (status %d): %w\nResponse preview: %s",
			operation, res.StatusCode, err, utils.TruncateString(string(respBody), utils.DefaultMaxStringLength))
	}
	return nil
}
