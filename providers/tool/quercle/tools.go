package quercletool

import (
	"context"

	"github.com/quercle/quercle-aigo/core/cost"
	"github.com/quercle/quercle-aigo/internal/jsonschema"
	"github.com/quercle/quercle-aigo/providers/observability"
	"github.com/quercle/quercle-aigo/providers/tool"
	"github.com/quercle/quercle-aigo/quercle"
)

// NewSearchTool creates the quercle_search tool. The domain filters given
// with WithAllowedDomains and WithBlockedDomains are sent with every call.
func NewSearchTool(opts ...Option) *tool.Tool[SearchInput, string] {
	cfg := newConfig(opts...)
	return newSearchTool(cfg, newLazyClient(cfg))
}

// NewFetchTool creates the quercle_fetch tool.
func NewFetchTool(opts ...Option) *tool.Tool[FetchInput, string] {
	cfg := newConfig(opts...)
	return newFetchTool(newLazyClient(cfg))
}

// NewRawSearchTool creates the quercle_raw_search tool. It honours the same
// domain filters as NewSearchTool.
func NewRawSearchTool(opts ...Option) *tool.Tool[RawSearchInput, RawSearchOutput] {
	cfg := newConfig(opts...)
	return newRawSearchTool(cfg, newLazyClient(cfg))
}

// NewRawFetchTool creates the quercle_raw_fetch tool.
func NewRawFetchTool(opts ...Option) *tool.Tool[RawFetchInput, RawFetchOutput] {
	cfg := newConfig(opts...)
	return newRawFetchTool(newLazyClient(cfg))
}

// NewExtractTool creates the quercle_extract tool.
func NewExtractTool(opts ...Option) *tool.Tool[ExtractInput, ExtractOutput] {
	cfg := newConfig(opts...)
	return newExtractTool(newLazyClient(cfg))
}

// Tools returns every Quercle tool in the order search, fetch, raw search,
// raw fetch, extract. The tools share one lazily created client.
func Tools(opts ...Option) []tool.GenericTool {
	cfg := newConfig(opts...)
	client := newLazyClient(cfg)

	return []tool.GenericTool{
		newSearchTool(cfg, client),
		newFetchTool(client),
		newRawSearchTool(cfg, client),
		newRawFetchTool(client),
		newExtractTool(client),
	}
}

func newSearchTool(cfg *config, client *lazyClient) *tool.Tool[SearchInput, string] {
	allowed, blocked := domains(cfg.allowedDomains), domains(cfg.blockedDomains)

	search := func(ctx context.Context, input SearchInput) (answer string, err error) {
		c, err := client.get()
		if err != nil {
			return "", err
		}

		ctx, end := startSpan(ctx, "search", domainAttrs(allowed, blocked)...)
		defer func() { end(err) }()

		return c.Search(ctx, quercle.SearchRequest{
			Query:          input.Query,
			AllowedDomains: allowed,
			BlockedDomains: blocked,
		})
	}

	t := tool.NewTool(ToolNameSearch, search,
		tool.WithDescription(quercle.SearchToolDescription),
		tool.WithMetrics(cost.ToolMetrics{
			Amount:                  0.01,
			Currency:                "USD",
			CostDescription:         "per AI-synthesized search",
			Accuracy:                0.9,
			AverageDurationInMillis: 6000,
		}),
	)
	describeParameters(t.Parameters, map[string]string{
		"query": quercle.SearchQueryDescription,
	})
	return t
}

func newFetchTool(client *lazyClient) *tool.Tool[FetchInput, string] {
	fetch := func(ctx context.Context, input FetchInput) (answer string, err error) {
		c, err := client.get()
		if err != nil {
			return "", err
		}

		ctx, end := startSpan(ctx, "fetch")
		defer func() { end(err) }()

		return c.Fetch(ctx, quercle.FetchRequest{URL: input.URL, Prompt: input.Prompt})
	}

	t := tool.NewTool(ToolNameFetch, fetch,
		tool.WithDescription(quercle.FetchToolDescription),
		tool.WithMetrics(cost.ToolMetrics{
			Amount:                  0.01,
			Currency:                "USD",
			CostDescription:         "per analysed page",
			Accuracy:                0.9,
			AverageDurationInMillis: 8000,
		}),
	)
	describeParameters(t.Parameters, map[string]string{
		"url":    quercle.FetchURLDescription,
		"prompt": quercle.FetchPromptDescription,
	})
	return t
}

func newRawSearchTool(cfg *config, client *lazyClient) *tool.Tool[RawSearchInput, RawSearchOutput] {
	allowed, blocked := domains(cfg.allowedDomains), domains(cfg.blockedDomains)

	rawSearch := func(ctx context.Context, input RawSearchInput) (out RawSearchOutput, err error) {
		c, err := client.get()
		if err != nil {
			return RawSearchOutput{}, err
		}

		ctx, end := startSpan(ctx, "raw_search", domainAttrs(allowed, blocked)...)
		defer func() { end(err) }()

		resp, err := c.RawSearch(ctx, quercle.RawSearchRequest{
			Query:          input.Query,
			AllowedDomains: allowed,
			BlockedDomains: blocked,
		})
		if err != nil {
			return RawSearchOutput{}, err
		}

		results := resp.Results
		if results == nil {
			results = []quercle.RawSearchResult{}
		}
		return RawSearchOutput{Query: input.Query, Results: results}, nil
	}

	t := tool.NewTool(ToolNameRawSearch, rawSearch,
		tool.WithDescription(quercle.RawSearchToolDescription),
		tool.WithMetrics(cost.ToolMetrics{
			Amount:                  0.002,
			Currency:                "USD",
			CostDescription:         "per raw search",
			Accuracy:                0.85,
			AverageDurationInMillis: 1500,
		}),
	)
	describeParameters(t.Parameters, map[string]string{
		"query": quercle.SearchQueryDescription,
	})
	return t
}

func newRawFetchTool(client *lazyClient) *tool.Tool[RawFetchInput, RawFetchOutput] {
	rawFetch := func(ctx context.Context, input RawFetchInput) (out RawFetchOutput, err error) {
		format, err := quercle.ParseFormat(input.Format)
		if err != nil {
			return RawFetchOutput{}, err
		}

		c, err := client.get()
		if err != nil {
			return RawFetchOutput{}, err
		}

		ctx, end := startSpan(ctx, "raw_fetch")
		defer func() { end(err) }()

		resp, err := c.RawFetch(ctx, quercle.RawFetchRequest{URL: input.URL, Format: format})
		if err != nil {
			return RawFetchOutput{}, err
		}

		out = RawFetchOutput{URL: resp.URL, Format: string(resp.Format), Content: resp.Content}
		if out.URL == "" {
			out.URL = input.URL
		}
		if out.Format == "" {
			out.Format = string(format)
		}
		if format == quercle.FormatMarkdown && (resp.Format == quercle.FormatHTML || looksLikeHTML(resp.Content)) {
			markdown, err := htmlToMarkdown(resp.Content)
			if err != nil {
				return RawFetchOutput{}, err
			}
			out.Content = markdown
			out.Format = string(quercle.FormatMarkdown)
		}
		return out, nil
	}

	t := tool.NewTool(ToolNameRawFetch, rawFetch,
		tool.WithDescription(quercle.RawFetchToolDescription),
		tool.WithMetrics(cost.ToolMetrics{
			Amount:                  0.002,
			Currency:                "USD",
			CostDescription:         "per fetched page",
			Accuracy:                0.95,
			AverageDurationInMillis: 3000,
		}),
	)
	describeParameters(t.Parameters, map[string]string{
		"url":    quercle.FetchURLDescription,
		"format": quercle.RawFetchFormatDescription,
	})
	return t
}

func newExtractTool(client *lazyClient) *tool.Tool[ExtractInput, ExtractOutput] {
	extract := func(ctx context.Context, input ExtractInput) (out ExtractOutput, err error) {
		c, err := client.get()
		if err != nil {
			return ExtractOutput{}, err
		}

		ctx, end := startSpan(ctx, "extract")
		defer func() { end(err) }()

		resp, err := c.Extract(ctx, quercle.ExtractRequest{URL: input.URL, Query: input.Query})
		if err != nil {
			return ExtractOutput{}, err
		}

		chunks := resp.Chunks
		if chunks == nil {
			chunks = []quercle.ExtractChunk{}
		}
		out = ExtractOutput{URL: resp.URL, Query: resp.Query, Chunks: chunks}
		if out.URL == "" {
			out.URL = input.URL
		}
		if out.Query == "" {
			out.Query = input.Query
		}
		return out, nil
	}

	t := tool.NewTool(ToolNameExtract, extract,
		tool.WithDescription(quercle.ExtractToolDescription),
		tool.WithMetrics(cost.ToolMetrics{
			Amount:                  0.005,
			Currency:                "USD",
			CostDescription:         "per extraction",
			Accuracy:                0.9,
			AverageDurationInMillis: 4000,
		}),
	)
	describeParameters(t.Parameters, map[string]string{
		"url":   quercle.FetchURLDescription,
		"query": quercle.ExtractQueryDescription,
	})
	return t
}

// describeParameters sets property descriptions that cannot live in struct
// tags because they contain commas.
func describeParameters(schema *jsonschema.Schema, descriptions map[string]string) {
	if schema == nil {
		return
	}
	for name, description := range descriptions {
		if property, ok := schema.Properties[name]; ok {
			property.Description = description
		}
	}
}

// startSpan opens a quercle.request span when an observer is in ctx. The
// returned func ends it with the outcome of the call.
func startSpan(ctx context.Context, operation string, attrs ...observability.Attribute) (context.Context, func(error)) {
	observer := observability.ObserverFromContext(ctx)
	if observer == nil {
		return ctx, func(error) {}
	}

	attrs = append([]observability.Attribute{observability.String(observability.AttrQuercleOperation, operation)}, attrs...)
	ctx, span := observer.StartSpan(ctx, observability.SpanQuercleRequest, attrs...)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(observability.StatusError, err.Error())
		} else {
			span.SetStatus(observability.StatusOK, "")
		}
		span.End()
	}
}

func domainAttrs(allowed, blocked []string) []observability.Attribute {
	var attrs []observability.Attribute
	if len(allowed) > 0 {
		attrs = append(attrs, observability.StringSlice(observability.AttrQuercleDomainsAllowed, allowed))
	}
	if len(blocked) > 0 {
		attrs = append(attrs, observability.StringSlice(observability.AttrQuercleDomainsBlocked, blocked))
	}
	return attrs
}
