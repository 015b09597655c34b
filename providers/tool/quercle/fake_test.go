package quercletool

import (
	"context"
	"sync"
	"testing"

	"github.com/quercle/quercle-aigo/quercle"
)

// fakeClient records every request and answers with the configured values.
type fakeClient struct {
	mu sync.Mutex

	searchReqs    []quercle.SearchRequest
	fetchReqs     []quercle.FetchRequest
	rawSearchReqs []quercle.RawSearchRequest
	rawFetchReqs  []quercle.RawFetchRequest
	extractReqs   []quercle.ExtractRequest

	answer    string
	rawSearch *quercle.RawSearchResponse
	rawFetch  *quercle.RawFetchResponse
	extract   *quercle.ExtractResponse
	err       error
}

func (f *fakeClient) Search(ctx context.Context, req quercle.SearchRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchReqs = append(f.searchReqs, req)
	return f.answer, f.err
}

func (f *fakeClient) Fetch(ctx context.Context, req quercle.FetchRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchReqs = append(f.fetchReqs, req)
	return f.answer, f.err
}

func (f *fakeClient) RawSearch(ctx context.Context, req quercle.RawSearchRequest) (*quercle.RawSearchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rawSearchReqs = append(f.rawSearchReqs, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.rawSearch == nil {
		return &quercle.RawSearchResponse{}, nil
	}
	return f.rawSearch, nil
}

func (f *fakeClient) RawFetch(ctx context.Context, req quercle.RawFetchRequest) (*quercle.RawFetchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rawFetchReqs = append(f.rawFetchReqs, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.rawFetch == nil {
		return &quercle.RawFetchResponse{}, nil
	}
	return f.rawFetch, nil
}

func (f *fakeClient) Extract(ctx context.Context, req quercle.ExtractRequest) (*quercle.ExtractResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.extractReqs = append(f.extractReqs, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.extract == nil {
		return &quercle.ExtractResponse{}, nil
	}
	return f.extract, nil
}

// countConstructions replaces newClient for the duration of the test. Each
// construction returns fake, or err when it is set.
func countConstructions(t *testing.T, fake Client, err error) *int {
	t.Helper()
	count := 0
	original := newClient
	newClient = func(opts ...quercle.Option) (Client, error) {
		count++
		if err != nil {
			return nil, err
		}
		return fake, nil
	}
	t.Cleanup(func() { newClient = original })
	return &count
}
