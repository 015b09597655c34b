package quercle

import "fmt"

// Format is the content format returned by raw fetch and extract.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// resolve returns the format to send, defaulting to markdown.
func (f Format) resolve() (Format, error) {
	switch f {
	case "":
		return FormatMarkdown, nil
	case FormatMarkdown, FormatHTML:
		return f, nil
	default:
		return "", invalidRequest("unsupported format %q", string(f))
	}
}

// ParseFormat converts a format name into a Format.
func ParseFormat(s string) (Format, error) {
	return Format(s).resolve()
}

// SearchRequest asks for an AI-synthesized answer to a query.
type SearchRequest struct {
	Query          string   `json:"query"`
	AllowedDomains []string `json:"allowed_domains,omitempty"`
	BlockedDomains []string `json:"blocked_domains,omitempty"`
}

// FetchRequest asks the service to fetch a page and analyse it with a prompt.
type FetchRequest struct {
	URL    string `json:"url"`
	Prompt string `json:"prompt"`
}

// RawSearchRequest asks for raw search results without synthesis.
type RawSearchRequest struct {
	Query          string   `json:"query"`
	AllowedDomains []string `json:"allowed_domains,omitempty"`
	BlockedDomains []string `json:"blocked_domains,omitempty"`
}

// RawFetchRequest asks for the content of a page.
type RawFetchRequest struct {
	URL          string `json:"url"`
	Format       Format `json:"format,omitempty"`
	UseSafeguard bool   `json:"use_safeguard,omitempty"`
}

// ExtractRequest asks for the chunks of a page that are relevant to a query.
type ExtractRequest struct {
	URL          string `json:"url"`
	Query        string `json:"query"`
	Format       Format `json:"format,omitempty"`
	UseSafeguard bool   `json:"use_safeguard,omitempty"`
}

// RawSearchResult is a single web search hit.
type RawSearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// RawSearchResponse lists search hits in ranking order.
type RawSearchResponse struct {
	Results []RawSearchResult `json:"results"`
}

// RawFetchResponse is the fetched page content.
type RawFetchResponse struct {
	URL     string `json:"url"`
	Format  Format `json:"format"`
	Content string `json:"content"`
}

// ExtractChunk is a page fragment with its relevance score.
type ExtractChunk struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// ExtractResponse lists relevant chunks, most relevant first.
type ExtractResponse struct {
	URL    string         `json:"url"`
	Query  string         `json:"query"`
	Chunks []ExtractChunk `json:"chunks"`
}

type resultResponse struct {
	Result string `json:"result"`
}

func (r RawSearchResult) String() string {
	if r.Description == "" {
		return fmt.Sprintf("%s (%s)", r.Title, r.URL)
	}
	return fmt.Sprintf("%s (%s): %s", r.Title, r.URL, r.Description)
}
