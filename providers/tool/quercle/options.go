package quercletool

import (
	"time"

	"github.com/quercle/quercle-aigo/quercle"
)

// Option configures the tools built by the factories in this package.
type Option func(*config)

type config struct {
	apiKey         string
	baseURL        string
	timeout        time.Duration
	allowedDomains []string
	blockedDomains []string
	client         Client
	clientOptions  []quercle.Option
}

// WithAPIKey sets the API key. Without it the client reads QUERCLE_API_KEY
// when it is created.
func WithAPIKey(apiKey string) Option {
	return func(c *config) {
		c.apiKey = apiKey
	}
}

// WithTimeout sets the request timeout of the client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.timeout = timeout
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithAllowedDomains restricts search results to the given domains. It
// applies to the search and raw search tools.
func WithAllowedDomains(domains ...string) Option {
	return func(c *config) {
		c.allowedDomains = domains
	}
}

// WithBlockedDomains excludes the given domains from search results. It
// applies to the search and raw search tools.
func WithBlockedDomains(domains ...string) Option {
	return func(c *config) {
		c.blockedDomains = domains
	}
}

// WithClient makes the tools call client instead of creating a
// quercle.Client. The API key, timeout and base URL options are then ignored.
func WithClient(client Client) Option {
	return func(c *config) {
		c.client = client
	}
}

// WithClientOptions passes extra options to quercle.NewClient, e.g. retries
// or a logger.
func WithClientOptions(opts ...quercle.Option) Option {
	return func(c *config) {
		c.clientOptions = append(c.clientOptions, opts...)
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// quercleOptions translates the config into client options. Explicit client
// options come last so they win.
func (c *config) quercleOptions() []quercle.Option {
	var opts []quercle.Option
	if c.apiKey != "" {
		opts = append(opts, quercle.WithAPIKey(c.apiKey))
	}
	if c.baseURL != "" {
		opts = append(opts, quercle.WithBaseURL(c.baseURL))
	}
	if c.timeout > 0 {
		opts = append(opts, quercle.WithTimeout(c.timeout))
	}
	return append(opts, c.clientOptions...)
}

// domains copies a filter list so later changes by the caller are not seen.
// Empty lists become nil.
func domains(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	return append([]string(nil), list...)
}
