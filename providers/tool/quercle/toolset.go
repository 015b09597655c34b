package quercletool

import "github.com/quercle/quercle-aigo/providers/tool"

// ToolsetName is the name reported by Toolset.Name.
const ToolsetName = "quercle"

// Toolset groups the Quercle tools selected by the Include options. All
// tools in a toolset share one lazily created client.
type Toolset struct {
	tools []tool.GenericTool
}

var _ tool.Toolset = (*Toolset)(nil)

// ToolsetOption configures NewToolset.
type ToolsetOption func(*toolsetConfig)

type toolsetConfig struct {
	toolOptions []Option

	includeSearch    bool
	includeFetch     bool
	includeRawSearch bool
	includeRawFetch  bool
	includeExtract   bool

	searchAllowedDomains []string
	searchBlockedDomains []string
}

// WithToolOptions applies tool options (API key, timeout, client, ...) to
// every tool in the set.
func WithToolOptions(opts ...Option) ToolsetOption {
	return func(c *toolsetConfig) {
		c.toolOptions = append(c.toolOptions, opts...)
	}
}

// IncludeSearch controls whether quercle_search is part of the set.
func IncludeSearch(include bool) ToolsetOption {
	return func(c *toolsetConfig) {
		c.includeSearch = include
	}
}

// IncludeFetch controls whether quercle_fetch is part of the set.
func IncludeFetch(include bool) ToolsetOption {
	return func(c *toolsetConfig) {
		c.includeFetch = include
	}
}

// IncludeRawSearch controls whether quercle_raw_search is part of the set.
func IncludeRawSearch(include bool) ToolsetOption {
	return func(c *toolsetConfig) {
		c.includeRawSearch = include
	}
}

// IncludeRawFetch controls whether quercle_raw_fetch is part of the set.
func IncludeRawFetch(include bool) ToolsetOption {
	return func(c *toolsetConfig) {
		c.includeRawFetch = include
	}
}

// IncludeExtract controls whether quercle_extract is part of the set.
func IncludeExtract(include bool) ToolsetOption {
	return func(c *toolsetConfig) {
		c.includeExtract = include
	}
}

// WithSearchAllowedDomains restricts both search tools to the given domains.
func WithSearchAllowedDomains(domains ...string) ToolsetOption {
	return func(c *toolsetConfig) {
		c.searchAllowedDomains = domains
	}
}

// WithSearchBlockedDomains excludes the given domains from both search tools.
func WithSearchBlockedDomains(domains ...string) ToolsetOption {
	return func(c *toolsetConfig) {
		c.searchBlockedDomains = domains
	}
}

// NewToolset builds a Toolset. Every tool is included unless turned off
// with its Include option.
func NewToolset(opts ...ToolsetOption) *Toolset {
	tc := &toolsetConfig{
		includeSearch:    true,
		includeFetch:     true,
		includeRawSearch: true,
		includeRawFetch:  true,
		includeExtract:   true,
	}
	for _, opt := range opts {
		opt(tc)
	}

	cfg := newConfig(tc.toolOptions...)
	if tc.searchAllowedDomains != nil {
		cfg.allowedDomains = tc.searchAllowedDomains
	}
	if tc.searchBlockedDomains != nil {
		cfg.blockedDomains = tc.searchBlockedDomains
	}
	client := newLazyClient(cfg)

	var tools []tool.GenericTool
	if tc.includeSearch {
		tools = append(tools, newSearchTool(cfg, client))
	}
	if tc.includeFetch {
		tools = append(tools, newFetchTool(client))
	}
	if tc.includeRawSearch {
		tools = append(tools, newRawSearchTool(cfg, client))
	}
	if tc.includeRawFetch {
		tools = append(tools, newRawFetchTool(client))
	}
	if tc.includeExtract {
		tools = append(tools, newExtractTool(client))
	}

	return &Toolset{tools: tools}
}

// Name returns ToolsetName.
func (t *Toolset) Name() string {
	return ToolsetName
}

// Tools returns the tools of the set in search, fetch, raw search, raw
// fetch, extract order.
func (t *Toolset) Tools() []tool.GenericTool {
	return append([]tool.GenericTool(nil), t.tools...)
}

// Catalog returns a new catalog holding the tools of the set.
func (t *Toolset) Catalog() *tool.Catalog {
	return tool.NewCatalogFromToolset(t)
}
