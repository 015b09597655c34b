// Package quercletool exposes the Quercle web search and fetch API as tools
// for agent runtimes built on package tool.
//
// Each factory wraps exactly one client operation:
//
//	NewSearchTool     quercle_search      AI-synthesized web search
//	NewFetchTool      quercle_fetch       AI analysis of a page
//	NewRawSearchTool  quercle_raw_search  raw search results
//	NewRawFetchTool   quercle_raw_fetch   raw page content
//	NewExtractTool    quercle_extract     relevant chunks of a page
//
// [Tools] returns all five and [NewToolset] returns a filtered [Toolset].
// No client is created until a tool is first invoked, so tools can be built
// before QUERCLE_API_KEY is available. Errors from the service are returned
// unchanged.
//
//	toolset := quercletool.NewToolset(
//	    quercletool.WithToolOptions(quercletool.WithTimeout(30*time.Second)),
//	    quercletool.IncludeRawFetch(false),
//	)
//	catalog := toolset.Catalog()
package quercletool
