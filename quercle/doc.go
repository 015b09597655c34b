// Package quercle is a client for the Quercle web search and fetch API.
//
// Quercle offers five operations: an AI-synthesized web search, an
// AI-analysed page fetch, and the raw variants that return search results,
// page content or relevance-ranked chunks without model post-processing.
//
//	client, err := quercle.NewClient() // reads QUERCLE_API_KEY
//	if err != nil {
//	    return err
//	}
//	answer, err := client.Search(ctx, quercle.SearchRequest{Query: "latest Go release"})
//
// Remote failures are returned as *[APIError]; use errors.Is with
// [ErrUnauthorized], [ErrInsufficientCredits] or [ErrRateLimited] to branch
// on the common cases.
package quercle
