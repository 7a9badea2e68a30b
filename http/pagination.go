package http

import "context"

// TokenFetcher fetches one page given an opaque continuation token.
// An empty next token means the last page was returned.
type TokenFetcher[T any] func(ctx context.Context, token string) (items []T, next string, err error)

// TokenIterator provides forward-only iteration over token-paginated results.
// It lazily fetches pages as needed.
type TokenIterator[T any] struct {
	fetch   TokenFetcher[T]
	token   string
	buffer  []T
	done    bool
	err     error
	fetched int
	pages   int
}

// NewTokenIterator creates an iterator starting at the first page.
func NewTokenIterator[T any](fetch TokenFetcher[T]) *TokenIterator[T] {
	return &TokenIterator[T]{fetch: fetch}
}

// Next returns the next item from the iterator.
// When iteration is complete, returns (zero, false, nil).
func (p *TokenIterator[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	if p.err != nil {
		return zero, false, p.err
	}

	// Pages may be empty while more remain, so keep fetching.
	for len(p.buffer) == 0 && !p.done {
		items, next, err := p.fetch(ctx, p.token)
		if err != nil {
			p.err = err
			return zero, false, err
		}
		p.pages++
		p.buffer = items
		p.done = next == "" || next == p.token
		p.token = next
	}

	if len(p.buffer) == 0 {
		return zero, false, nil
	}

	item := p.buffer[0]
	p.buffer = p.buffer[1:]
	p.fetched++

	return item, true, nil
}

// All collects all items from the iterator into a slice.
// This will fetch all pages and may be slow for large result sets.
func (p *TokenIterator[T]) All(ctx context.Context) ([]T, error) {
	var all []T
	for {
		item, ok, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		all = append(all, item)
	}
	return all, nil
}

// Take returns up to n items from the iterator.
func (p *TokenIterator[T]) Take(ctx context.Context, n int) ([]T, error) {
	var items []T
	for len(items) < n {
		item, ok, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		items = append(items, item)
	}
	return items, nil
}

// ForEach calls fn for each item in the iterator.
// If fn returns an error, iteration stops and that error is returned.
func (p *TokenIterator[T]) ForEach(ctx context.Context, fn func(T) error) error {
	for {
		item, ok, err := p.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(item); err != nil {
			return err
		}
	}
}

// Err returns any error that occurred during iteration.
func (p *TokenIterator[T]) Err() error {
	return p.err
}

// Fetched returns the number of items returned so far.
func (p *TokenIterator[T]) Fetched() int {
	return p.fetched
}

// Pages returns the number of pages fetched so far.
func (p *TokenIterator[T]) Pages() int {
	return p.pages
}
