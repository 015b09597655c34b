package quercletool

import "github.com/quercle/quercle-aigo/quercle"

// Tool names advertised to the model.
const (
	ToolNameSearch    = "quercle_search"
	ToolNameFetch     = "quercle_fetch"
	ToolNameRawSearch = "quercle_raw_search"
	ToolNameRawFetch  = "quercle_raw_fetch"
	ToolNameExtract   = "quercle_extract"
)

// SearchInput is the argument of quercle_search.
type SearchInput struct {
	Query string `json:"query"`
}

// FetchInput is the argument of quercle_fetch.
type FetchInput struct {
	URL    string `json:"url" jsonschema:"format=uri"`
	Prompt string `json:"prompt"`
}

// RawSearchInput is the argument of quercle_raw_search.
type RawSearchInput struct {
	Query string `json:"query"`
}

// RawSearchOutput lists the search hits for Query.
type RawSearchOutput struct {
	Query   string                    `json:"query"`
	Results []quercle.RawSearchResult `json:"results"`
}

// RawFetchInput is the argument of quercle_raw_fetch.
type RawFetchInput struct {
	URL    string `json:"url" jsonschema:"format=uri"`
	Format string `json:"format,omitempty" jsonschema:"enum=markdown,enum=html"`
}

// RawFetchOutput is the page content in the returned format.
type RawFetchOutput struct {
	URL     string `json:"url"`
	Format  string `json:"format"`
	Content string `json:"content"`
}

// ExtractInput is the argument of quercle_extract.
type ExtractInput struct {
	URL   string `json:"url" jsonschema:"format=uri"`
	Query string `json:"query"`
}

// ExtractOutput lists the chunks of URL relevant to Query.
type ExtractOutput struct {
	URL    string                 `json:"url"`
	Query  string                 `json:"query"`
	Chunks []quercle.ExtractChunk `json:"chunks"`
}
