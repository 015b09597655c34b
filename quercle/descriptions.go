package quercle

// Descriptions shown to language models by tool adapters built on this client.
const (
	SearchToolDescription = "Search the web and get an AI-synthesized answer with citations. " +
		"Use this for current events, facts that may have changed since training, and research questions. " +
		"The answer cites the pages it was built from."

	SearchQueryDescription = "The search query. Write it the way you would ask a knowledgeable person; " +
		"full questions work better than keyword lists."

	FetchToolDescription = "Fetch a web page and analyse its content with AI according to your instructions. " +
		"Use this to read, summarise or extract specific information from a known URL."

	FetchURLDescription = "The URL to fetch. Must be an absolute http or https URL."

	FetchPromptDescription = "Instructions for processing the page content, " +
		"for example 'Summarise the main points' or 'List every price mentioned'."

	RawSearchToolDescription = "Search the web and get raw results (title, URL and description for each hit) " +
		"without AI synthesis. Use this when you want to choose which pages to read yourself."

	RawFetchToolDescription = "Fetch a web page and return its content as markdown or HTML without AI processing. " +
		"Use this when you need the page text verbatim."

	RawFetchFormatDescription = "Output format: 'markdown' (default) or 'html'."

	ExtractToolDescription = "Fetch a web page and return only the chunks that are relevant to a query, " +
		"ranked by relevance. Use this on long pages when you need specific information."

	ExtractQueryDescription = "What to look for on the page. Chunks are ranked by relevance to this query."
)
