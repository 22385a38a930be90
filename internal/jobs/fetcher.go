package jobs

import "context"

// Fetcher is a single job source.
type Fetcher interface {
	// Name is the human-readable source name stamped on every posting it returns.
	Name() string
	// Fetch returns zero or more postings, or an error when the source is unavailable.
	Fetch(ctx context.Context, params SearchParams) ([]Posting, error)
}

// FetcherFunc turns a function into a named Fetcher.
func FetcherFunc(name string, fn func(ctx context.Context, params SearchParams) ([]Posting, error)) Fetcher {
	return funcFetcher{name: name, fn: fn}
}

type funcFetcher struct {
	name string
	fn   func(ctx context.Context, params SearchParams) ([]Posting, error)
}

func (f funcFetcher) Name() string { return f.name }

func (f funcFetcher) Fetch(ctx context.Context, params SearchParams) ([]Posting, error) {
	return f.fn(ctx, params)
}
