package quercletool

import (
	"context"
	"sync"

	"github.com/quercle/quercle-aigo/quercle"
)

// Client is the subset of *quercle.Client the tools call.
type Client interface {
	Search(ctx context.Context, req quercle.SearchRequest) (string, error)
	Fetch(ctx context.Context, req quercle.FetchRequest) (string, error)
	RawSearch(ctx context.Context, req quercle.RawSearchRequest) (*quercle.RawSearchResponse, error)
	RawFetch(ctx context.Context, req quercle.RawFetchRequest) (*quercle.RawFetchResponse, error)
	Extract(ctx context.Context, req quercle.ExtractRequest) (*quercle.ExtractResponse, error)
}

var _ Client = (*quercle.Client)(nil)

// newClient builds the real client; tests replace it to count constructions.
var newClient = func(opts ...quercle.Option) (Client, error) {
	client, err := quercle.NewClient(opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// lazyClient creates the client on first use. A failed construction is not
// cached, so the next call tries again.
type lazyClient struct {
	mu     sync.Mutex
	opts   []quercle.Option
	client Client
}

func newLazyClient(cfg *config) *lazyClient {
	return &lazyClient{
		opts:   cfg.quercleOptions(),
		client: cfg.client,
	}
}

func (l *lazyClient) get() (Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.client != nil {
		return l.client, nil
	}

	client, err := newClient(l.opts...)
	if err != nil {
		return nil, err
	}
	l.client = client
	return client, nil
}
