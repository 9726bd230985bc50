package similar

import (
	"context"
	"sync"

	"bookshelf/internal/models"
)

// Fetcher runs at most one similar-books lookup at a time, keyed by the
// query string. Starting a new fetch supersedes the previous one: its
// context is cancelled and its result, should it still arrive, is
// dropped instead of being applied. Closing the details view cancels the
// in-flight fetch the same way.
type Fetcher struct {
	client *Client

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	query   string
	loading bool
	results []models.SimilarBook
	err     error
}

// NewFetcher creates a fetcher on top of the given client.
func NewFetcher(client *Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch starts a lookup for the given query, superseding any in-flight
// one. notify, if non-nil, is called once with the outcome, but only
// when the fetch has not been superseded or cancelled in the meantime.
func (f *Fetcher) Fetch(query string, notify func(books []models.SimilarBook, err error)) {
	ctx, cancel := context.WithCancel(context.Background())

	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	f.gen++
	gen := f.gen
	f.cancel = cancel
	f.query = query
	f.loading = true
	f.results = nil
	f.err = nil
	f.mu.Unlock()

	go func() {
		books, err := f.client.Search(ctx, query)

		f.mu.Lock()
		if gen != f.gen {
			// A newer fetch or a cancel took over while this one was
			// in flight; drop the result.
			f.mu.Unlock()
			return
		}
		f.loading = false
		f.results = books
		f.err = err
		f.mu.Unlock()

		if notify != nil {
			notify(books, err)
		}
	}()
}

// Cancel aborts the in-flight fetch, if any. Its result will be
// discarded even if the request completes.
func (f *Fetcher) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.gen++
	f.query = ""
	f.loading = false
	f.results = nil
	f.err = nil
}

// Result returns the outcome of the most recent fetch: the result list,
// whether a fetch is still in flight, and the fetch error if it failed.
func (f *Fetcher) Result() ([]models.SimilarBook, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.results, f.loading, f.err
}

// Query returns the query of the most recent fetch.
func (f *Fetcher) Query() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}
